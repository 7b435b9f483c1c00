package gormstore

import (
	"context"
	"testing"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/docstore"
	"gamescope/app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.OpenDB(t))

	created, err := s.Create(ctx, "reviews", "r1", map[string]any{"userId": "1", "content": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "r1", created.ID)
	assert.Equal(t, "reviews", created.Collection)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = s.Create(ctx, "reviews", "r1", map[string]any{"content": "again"})
	assert.ErrorIs(t, err, docstore.ErrConflict)

	// Same ID in another collection is a different document.
	_, err = s.Create(ctx, "favorites", "r1", map[string]any{"userId": "1"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, "reviews", "r1", map[string]any{"content": "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Data["content"])
	assert.Equal(t, "1", updated.Data["userId"])

	got, err := s.Get(ctx, "reviews", "r1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Data["content"])

	require.NoError(t, s.Delete(ctx, "reviews", "r1"))
	assert.ErrorIs(t, s.Delete(ctx, "reviews", "r1"), docstore.ErrNotFound)

	_, err = s.Get(ctx, "reviews", "r1")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	_, err = s.Update(ctx, "reviews", "r1", map[string]any{"content": "x"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestStore_ListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.OpenDB(t))

	seed := []struct {
		id, user, game, ts string
	}{
		{"r1", "1", "g1", "2024-01-01T00:00:00.000Z"},
		{"r2", "2", "g1", "2024-01-03T00:00:00.000Z"},
		{"r3", "1", "g2", "2024-01-02T00:00:00.000Z"},
		{"r4", "1", "g1", "2024-01-04T00:00:00.000Z"},
	}
	for _, r := range seed {
		_, err := s.Create(ctx, "reviews", r.id, map[string]any{"userId": r.user, "gameId": r.game, "timestamp": r.ts})
		require.NoError(t, err)
	}

	ids := func(docs []backend.Document) []string {
		var out []string
		for _, d := range docs {
			out = append(out, d.ID)
		}
		return out
	}

	all, err := s.List(ctx, "reviews", backend.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids(all))

	byGame, err := s.List(ctx, "reviews", backend.Where(backend.Equal("gameId", "g1")).OrderedDesc("timestamp"))
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r2", "r1"}, ids(byGame))

	pair, err := s.List(ctx, "reviews", backend.Where(backend.Equal("userId", "1"), backend.Equal("gameId", "g1")))
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r4"}, ids(pair))

	none, err := s.List(ctx, "games", backend.Query{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
