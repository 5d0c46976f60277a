package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hairbystephanie/site/backend/go-services/internal/client/clienttest"
	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://api.example.com", New(" http://api.example.com/ ").BaseURL())
}

func TestGetContent(t *testing.T) {
	b := clienttest.NewBackend()
	defer b.Close()

	doc, err := New(b.URL()).GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hair by Ms. Stephanie", doc.HeroTitle)
	assert.Len(t, doc.Services, 3)
}

func TestGetContentMissingServices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hero_title":"Only title"}`))
	}))
	defer srv.Close()

	doc, err := New(srv.URL).GetContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Only title", doc.HeroTitle)
	assert.NotNil(t, doc.Services)
	assert.Empty(t, doc.Services)
}

func TestGetContentRejectsNonDocumentBodies(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"html page", "text/html; charset=utf-8", "<html>proxy error page</html>"},
		{"json null", "application/json", "null"},
		{"empty body", "application/json", ""},
		{"truncated", "application/json", `{"hero_title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			doc, err := New(srv.URL).GetContent(context.Background())
			require.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, doc)
		})
	}
}

func TestReplaceDocumentRejectsNullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	out, err := New(srv.URL).ReplaceDocument(context.Background(), "tok", content.Default())
	require.ErrorIs(t, err, ErrMalformed)
	assert.Nil(t, out)
}

func TestGetContentStatusError(t *testing.T) {
	b := clienttest.NewBackend()
	defer b.Close()
	b.Fail("GET /content", http.StatusInternalServerError)

	_, err := New(b.URL()).GetContent(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "injected failure", se.Message)
}

func TestLogin(t *testing.T) {
	b := clienttest.NewBackend()
	defer b.Close()
	c := New(b.URL())

	token, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, b.Token(), token)

	_, err = c.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrUnreachable)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestLoginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, WithTimeout(2*time.Second)).Login(context.Background(), "admin", "admin123")
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestWritesCarryBearerToken(t *testing.T) {
	b := clienttest.NewBackend()
	defer b.Close()
	c := New(b.URL())
	ctx := context.Background()

	require.NoError(t, c.UpdateField(ctx, b.Token(), content.KeyAboutTitle, "About"))
	require.NoError(t, c.UpdateServices(ctx, b.Token(), []content.Service{{Name: "A", Description: "a"}}))

	for _, r := range b.Writes() {
		assert.Equal(t, b.Token(), r.Token)
	}
	doc := b.Document()
	assert.Equal(t, "About", doc.AboutTitle)
	assert.Equal(t, []content.Service{{Name: "A", Description: "a"}}, doc.Services)

	writes := b.Writes()
	require.Len(t, writes, 2)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(writes[0].Body), &body))
	assert.Equal(t, map[string]string{"key": "about_title", "value": "About"}, body)
}

func TestWritesWithoutValidToken(t *testing.T) {
	b := clienttest.NewBackend()
	defer b.Close()

	err := New(b.URL()).UpdateField(context.Background(), "stale", content.KeyHeroTitle, "x")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Hair by Ms. Stephanie", b.Document().HeroTitle)
}

func TestReplaceDocument(t *testing.T) {
	b := clienttest.NewBackend()
	defer b.Close()

	in := content.Default()
	in.HeroSubtitle = "Changed"
	out, err := New(b.URL()).ReplaceDocument(context.Background(), b.Token(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, in, b.Document())
}

func TestMeAndLogout(t *testing.T) {
	b := clienttest.NewBackend()
	defer b.Close()
	c := New(b.URL())

	name, err := c.Me(context.Background(), b.Token())
	require.NoError(t, err)
	assert.Equal(t, "admin", name)
	require.NoError(t, c.Logout(context.Background(), b.Token()))
}
