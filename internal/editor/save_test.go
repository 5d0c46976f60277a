package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/hairbystephanie/site/backend/go-services/internal/client"
	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDocumentWithoutChangesWritesLiveValues(t *testing.T) {
	a, b, rec := loggedIn(t)
	live := a.Live()
	require.NoError(t, a.EnterEdit())
	require.NoError(t, a.Save(context.Background()))

	writes := b.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, "/content/document", writes[0].Path)
	assert.Equal(t, b.Token(), writes[0].Token)
	assert.Equal(t, live, decodeDoc(t, writes[0].Body))
	assert.Equal(t, ModeViewing, a.Mode())
	assert.Equal(t, []string{MsgSaved}, rec.all())
}

func TestSaveFieldByFieldWithoutChangesWritesLiveValues(t *testing.T) {
	a, b, _ := loggedIn(t, WithSaveStrategy(SaveFieldByField))
	live := a.Live()
	require.NoError(t, a.EnterEdit())
	require.NoError(t, a.Save(context.Background()))

	writes := b.Writes()
	require.Len(t, writes, len(content.FieldKeys)+1)
	for i, key := range content.FieldKeys {
		var body struct{ Key, Value string }
		require.NoError(t, json.Unmarshal([]byte(writes[i].Body), &body))
		want, _ := live.Field(key)
		assert.Equal(t, key, body.Key)
		assert.Equal(t, want, body.Value)
	}
	last := writes[len(writes)-1]
	assert.Equal(t, "/services", last.Path)
	var svcs struct {
		Services []content.Service `json:"services"`
	}
	require.NoError(t, json.Unmarshal([]byte(last.Body), &svcs))
	assert.Equal(t, live.Services, svcs.Services)
}

func TestEditingServiceNameKeepsEverythingElse(t *testing.T) {
	for _, strategy := range []SaveStrategy{SaveDocument, SaveFieldByField} {
		t.Run(strategy.String(), func(t *testing.T) {
			a, b, _ := loggedIn(t, WithSaveStrategy(strategy))
			before := a.Live()
			require.NoError(t, a.EnterEdit())
			require.NoError(t, a.SetServiceName(1, "Bridesmaids & Family"))
			require.NoError(t, a.Save(context.Background()))

			stored := b.Document()
			require.Len(t, stored.Services, len(before.Services))
			for i := range before.Services {
				if i == 1 {
					assert.Equal(t, "Bridesmaids & Family", stored.Services[i].Name)
					assert.Equal(t, before.Services[i].Description, stored.Services[i].Description)
					continue
				}
				assert.Equal(t, before.Services[i], stored.Services[i])
			}
			assert.Equal(t, stored, a.Live())
		})
	}
}

func TestSaveFailureDoesNotPromote(t *testing.T) {
	a, b, rec := loggedIn(t)
	b.Fail("PUT /content/document", http.StatusInternalServerError)
	require.NoError(t, a.EnterEdit())
	require.NoError(t, a.SetField(content.KeyHeroTitle, "Draft"))

	err := a.Save(context.Background())
	require.Error(t, err)
	var se *client.StatusError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "Hair by Ms. Stephanie", a.Live().HeroTitle)
	assert.Equal(t, "Draft", a.Working().HeroTitle)
	assert.Equal(t, ModeEditing, a.Mode())
	assert.Equal(t, []string{MsgSaveFailed}, rec.all())
	assert.False(t, a.Saving())
}

func TestFieldByFieldStopsAtFirstFailure(t *testing.T) {
	a, b, rec := loggedIn(t, WithSaveStrategy(SaveFieldByField))
	b.Fail("PUT /content:"+content.KeyAboutTitle, http.StatusInternalServerError)
	require.NoError(t, a.EnterEdit())
	require.NoError(t, a.SetField(content.KeyHeroTitle, "Partly saved"))
	require.NoError(t, a.SetField(content.KeyAboutDescription, "Never sent"))

	err := a.Save(context.Background())
	var pe *PartialSaveError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{content.KeyHeroTitle, content.KeyHeroSubtitle, content.KeyHeroDescription}, pe.Applied)
	assert.Equal(t, content.KeyAboutTitle, pe.Failed)

	// no writes after the failing one
	writes := b.Writes()
	assert.Len(t, writes, 4)
	for _, w := range writes {
		assert.NotEqual(t, "/services", w.Path)
	}
	// backend holds the applied prefix; the client keeps its old live copy
	assert.Equal(t, "Partly saved", b.Document().HeroTitle)
	assert.Equal(t, "Hair by Ms. Stephanie", a.Live().HeroTitle)
	assert.Equal(t, ModeEditing, a.Mode())
	assert.Equal(t, []string{MsgSaveFailed}, rec.all())
}

func TestSaveAfterTokenRejected(t *testing.T) {
	a, b, _ := loggedIn(t)
	require.NoError(t, a.EnterEdit())
	b.Fail("PUT /content/document", http.StatusUnauthorized)

	err := a.Save(context.Background())
	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

// logoutAPI logs the app out after the first field write.
type logoutAPI struct {
	API
	app    *App
	writes int
}

func (l *logoutAPI) UpdateField(ctx context.Context, token, key, value string) error {
	l.writes++
	if err := l.API.UpdateField(ctx, token, key, value); err != nil {
		return err
	}
	l.app.Logout()
	return nil
}

func TestLogoutDuringFieldByFieldSaveStopsWrites(t *testing.T) {
	a, b, _ := loggedIn(t, WithSaveStrategy(SaveFieldByField))
	wrapped := &logoutAPI{API: a.api, app: a}
	a.api = wrapped
	require.NoError(t, a.EnterEdit())

	err := a.Save(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 1, wrapped.writes)
	assert.Len(t, b.Writes(), 1)
}

func TestParseSaveStrategy(t *testing.T) {
	s, err := ParseSaveStrategy("")
	require.NoError(t, err)
	assert.Equal(t, SaveDocument, s)
	s, err = ParseSaveStrategy("Field-By-Field")
	require.NoError(t, err)
	assert.Equal(t, SaveFieldByField, s)
	_, err = ParseSaveStrategy("batch")
	assert.Error(t, err)
}
