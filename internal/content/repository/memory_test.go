package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/hairbystephanie/site/backend/go-services/internal/content"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	_, err := r.Get(ctx)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.SetField(ctx, content.KeyHeroTitle, "x"), ErrNotFound)

	seeded, err := r.SeedIfEmpty(ctx, content.Default())
	require.NoError(t, err)
	require.True(t, seeded)
	seeded, err = r.SeedIfEmpty(ctx, &content.Document{HeroTitle: "other"})
	require.NoError(t, err)
	require.False(t, seeded)

	got, err := r.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Hair by Ms. Stephanie", got.HeroTitle)

	require.NoError(t, r.SetField(ctx, content.KeyAboutTitle, "About us"))
	got, err = r.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "About us", got.AboutTitle)

	err = r.SetField(ctx, "bogus", "x")
	var uk *content.UnknownKeyError
	require.True(t, errors.As(err, &uk))
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	_, err := r.SeedIfEmpty(ctx, content.Default())
	require.NoError(t, err)

	got, err := r.Get(ctx)
	require.NoError(t, err)
	got.HeroTitle = "mutated"
	got.Services[0].Name = "mutated"

	again, err := r.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Hair by Ms. Stephanie", again.HeroTitle)
	require.Equal(t, "Bridal Hair Styling", again.Services[0].Name)
}

func TestMemoryRepoReplaceServicesKeepsOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	_, err := r.SeedIfEmpty(ctx, content.Default())
	require.NoError(t, err)

	svcs := []content.Service{{Name: "c", Description: "3"}, {Name: "a", Description: "1"}, {Name: "b", Description: "2"}}
	require.NoError(t, r.ReplaceServices(ctx, svcs))
	svcs[0].Name = "mutated after write"

	got, err := r.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, []content.Service{{Name: "c", Description: "3"}, {Name: "a", Description: "1"}, {Name: "b", Description: "2"}}, got.Services)
}

func TestMemoryRepoReplace(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	doc := &content.Document{HeroTitle: "New", Services: []content.Service{{Name: "only", Description: "one"}}}
	require.NoError(t, r.Replace(ctx, doc))

	got, err := r.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}
