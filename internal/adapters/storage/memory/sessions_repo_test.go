package memory

import (
	"context"
	"testing"
	"time"

	"dog-finder/internal/domain/browse"
	"dog-finder/internal/domain/dogs"
	"dog-finder/internal/domain/favorites"
	"dog-finder/internal/domain/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepo()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	s := session.Session{
		ID:        "s-1",
		Name:      "Ana",
		Browse:    browse.NewState(),
		Favorites: favorites.NewSet("d1"),
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, r.Create(ctx, s))
	require.Error(t, r.Create(ctx, s), "duplicate id")

	got, err := r.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.True(t, got.Favorites.Has("d1"))

	// lo leído no está atado a lo guardado
	got.Favorites.Toggle("d2")
	again, err := r.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, again.Favorites.Has("d2"))

	got.Browse.Dogs = []dogs.Dog{{ID: "d2"}}
	require.NoError(t, r.Update(ctx, got))
	again, err = r.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.True(t, again.Favorites.Has("d2"))
	assert.Equal(t, "d2", again.Browse.Dogs[0].ID)

	require.NoError(t, r.Delete(ctx, "s-1"))
	_, err = r.Get(ctx, "s-1")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.ErrorIs(t, r.Update(ctx, got), session.ErrNotFound)
}

func TestSessionRepo_Expiry(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepo()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Create(ctx, session.Session{ID: "old", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, r.Create(ctx, session.Session{ID: "new", ExpiresAt: now.Add(time.Hour)}))

	now = now.Add(2 * time.Minute)
	_, err := r.Get(ctx, "old")
	assert.ErrorIs(t, err, session.ErrNotFound)

	n, err := r.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = r.Get(ctx, "new")
	require.NoError(t, err)
}

func TestSessionRepo_UpdateRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepo()

	require.NoError(t, r.Create(ctx, session.Session{ID: "s-1", Browse: browse.NewState()}))

	first, err := r.Get(ctx, "s-1")
	require.NoError(t, err)
	second, err := r.Get(ctx, "s-1")
	require.NoError(t, err)

	first.Browse.Page = 2
	require.NoError(t, r.Update(ctx, first))

	// second leyó antes de que first guardara
	second.Browse.Page = 1
	assert.ErrorIs(t, r.Update(ctx, second), session.ErrConflict)

	got, err := r.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Browse.Page)
	assert.EqualValues(t, 1, got.Version)

	got.Browse.Page = 3
	require.NoError(t, r.Update(ctx, got))
	again, err := r.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, again.Version)
}
