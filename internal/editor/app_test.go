package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hairbystephanie/site/backend/go-services/internal/client"
	"github.com/hairbystephanie/site/backend/go-services/internal/client/clienttest"
	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func newApp(t *testing.T, opts ...Option) (*App, *clienttest.Backend, *recorder) {
	t.Helper()
	b := clienttest.NewBackend()
	t.Cleanup(b.Close)
	rec := &recorder{}
	a := New(client.New(b.URL()), append([]Option{WithNotifier(rec)}, opts...)...)
	return a, b, rec
}

func loggedIn(t *testing.T, opts ...Option) (*App, *clienttest.Backend, *recorder) {
	t.Helper()
	a, b, rec := newApp(t, opts...)
	require.NoError(t, a.Load(context.Background()))
	require.NoError(t, a.Login(context.Background(), "admin", "admin123"))
	return a, b, rec
}

func TestLoadPopulatesBothCopies(t *testing.T) {
	a, b, _ := newApp(t)
	require.True(t, a.Loading())
	require.NoError(t, a.Load(context.Background()))
	require.False(t, a.Loading())

	assert.Equal(t, b.Document().HeroTitle, a.Live().HeroTitle)
	assert.Equal(t, a.Live(), a.Working())
}

func TestCopiesAreIndependent(t *testing.T) {
	a, _, _ := loggedIn(t)
	live := a.Live()
	live.HeroTitle = "mutated outside"
	assert.Equal(t, "Hair by Ms. Stephanie", a.Live().HeroTitle)

	require.NoError(t, a.EnterEdit())
	require.NoError(t, a.SetField(content.KeyHeroTitle, "Draft"))
	assert.Equal(t, "Draft", a.Working().HeroTitle)
	assert.Equal(t, "Hair by Ms. Stephanie", a.Live().HeroTitle)
}

func TestLoadFailureStaysLoading(t *testing.T) {
	a, b, _ := newApp(t)
	b.Fail("GET /content", http.StatusInternalServerError)

	err := a.Load(context.Background())
	require.Error(t, err)
	assert.True(t, a.Loading())
	assert.Nil(t, a.Live())
	assert.Nil(t, a.Working())
}

func TestLoadMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hero_title":`))
	}))
	defer srv.Close()

	a := New(client.New(srv.URL))
	require.Error(t, a.Load(context.Background()))
	assert.True(t, a.Loading())
}

func TestLoadHTMLBodyStaysLoading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>proxy error page</html>"))
	}))
	defer srv.Close()

	a := New(client.New(srv.URL))
	require.ErrorIs(t, a.Load(context.Background()), client.ErrMalformed)
	assert.True(t, a.Loading())
	assert.Nil(t, a.Live())
}

func TestLoadNullBodyStaysLoading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	a := New(client.New(srv.URL))
	require.ErrorIs(t, a.Load(context.Background()), client.ErrMalformed)
	assert.True(t, a.Loading())
	assert.Nil(t, a.Live())
}

func TestLoginFailureLeavesSessionUnauthenticated(t *testing.T) {
	a, _, rec := newApp(t)
	require.NoError(t, a.Load(context.Background()))

	err := a.Login(context.Background(), "admin", "wrong")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, a.Authenticated())
	assert.Equal(t, []string{MsgInvalidCredentials}, rec.all())
	assert.ErrorIs(t, a.EnterEdit(), ErrNotAuthenticated)
}

func TestLoginUnreachableShowsLoginFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &recorder{}
	a := New(client.New(url), WithNotifier(rec))
	err := a.Login(context.Background(), "admin", "admin123")
	require.ErrorIs(t, err, client.ErrUnreachable)
	assert.Equal(t, []string{MsgLoginFailed}, rec.all())
	assert.False(t, a.Authenticated())
}

func TestLoginMessage(t *testing.T) {
	assert.Equal(t, MsgInvalidCredentials, LoginMessage(fmt.Errorf("login: %w", client.ErrUnauthorized)))
	assert.Equal(t, MsgLoginFailed, LoginMessage(fmt.Errorf("login: %w", client.ErrUnreachable)))
	assert.Equal(t, MsgLoginFailed, LoginMessage(errors.New("boom")))
}

func TestLoginSuccessMakesEditingReachable(t *testing.T) {
	a, _, rec := loggedIn(t)
	assert.True(t, a.Authenticated())
	require.NoError(t, a.EnterEdit())
	assert.Equal(t, ModeEditing, a.Mode())
	assert.Empty(t, rec.all())
}

func TestEditRequiresEditingMode(t *testing.T) {
	a, _, _ := loggedIn(t)
	assert.ErrorIs(t, a.SetField(content.KeyHeroTitle, "x"), ErrNotEditing)
	assert.ErrorIs(t, a.Save(context.Background()), ErrNotEditing)

	require.NoError(t, a.EnterEdit())
	assert.ErrorIs(t, a.SetServiceName(3, "x"), ErrNoSuchService)
	assert.ErrorIs(t, a.SetServiceDescription(-1, "x"), ErrNoSuchService)
	var uk *content.UnknownKeyError
	assert.True(t, errors.As(a.SetField("footer", "x"), &uk))
}

func TestStaleWorkingCopySurvivesExitEdit(t *testing.T) {
	a, _, _ := loggedIn(t)
	require.NoError(t, a.EnterEdit())
	require.NoError(t, a.SetField(content.KeyAboutTitle, "Unsaved"))
	a.ExitEdit()
	assert.Equal(t, ModeViewing, a.Mode())
	assert.Equal(t, "Unsaved", a.Working().AboutTitle)

	require.NoError(t, a.EnterEdit())
	assert.Equal(t, "Unsaved", a.Working().AboutTitle)

	a.DiscardChanges()
	assert.Equal(t, a.Live(), a.Working())
}

func TestLogoutWhileEditing(t *testing.T) {
	a, b, _ := loggedIn(t)
	require.NoError(t, a.EnterEdit())
	require.NoError(t, a.SetField(content.KeyHeroTitle, "Never saved"))

	a.Logout()
	assert.False(t, a.Authenticated())
	assert.Equal(t, ModeViewing, a.Mode())
	assert.ErrorIs(t, a.EnterEdit(), ErrNotAuthenticated)
	assert.ErrorIs(t, a.SetField(content.KeyHeroTitle, "x"), ErrNotAuthenticated)
	assert.ErrorIs(t, a.Save(context.Background()), ErrNotAuthenticated)
	assert.Empty(t, b.Writes())
	for _, r := range b.Requests() {
		assert.NotEqual(t, "/logout", r.Path)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "viewing", ModeViewing.String())
	assert.Equal(t, "editing", ModeEditing.String())
}

func decodeDoc(t *testing.T, body string) *content.Document {
	t.Helper()
	var d content.Document
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	return &d
}
