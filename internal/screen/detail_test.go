package screen

import (
	"context"
	"errors"
	"testing"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/models"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameDetail_EmptyIDIsInvalidArgument(t *testing.T) {
	f := newFixture(t)
	d := NewGameDetail(f.env, f.sess)

	err := d.Open(context.Background(), "")

	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	assert.Zero(t, f.backend.TotalCalls())
	_, loaded := d.Game()
	assert.False(t, loaded)
}

func TestGameDetail_LoadAndToggle(t *testing.T) {
	f := newFixture(t)
	f.seedGame("g1", "Elden Ring")
	d := NewGameDetail(f.env, f.sess)
	t.Cleanup(d.Close)

	require.NoError(t, d.Open(context.Background(), "g1"))
	game, loaded := d.Game()
	require.True(t, loaded)
	assert.Equal(t, "Elden Ring", game.Title)
	assert.False(t, d.Favorited())

	result, err := d.ToggleFavorite(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Favorited)
	assert.True(t, d.Favorited())
	assert.Len(t, f.backend.Docs(models.CollectionFavorites), 1)

	result, err = d.ToggleFavorite(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Favorited)
	assert.False(t, d.Favorited())
	assert.Empty(t, f.backend.Docs(models.CollectionFavorites))
}

func TestGameDetail_MissingGame(t *testing.T) {
	f := newFixture(t)
	d := NewGameDetail(f.env, f.sess)
	t.Cleanup(d.Close)

	err := d.Open(context.Background(), "nope")

	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, "That item no longer exists.", f.notes.last().Message)
}

func TestGameDetail_MalformedGameIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.backend.Seed(models.CollectionGames, "g1", map[string]any{"category": "RPG"})
	d := NewGameDetail(f.env, f.sess)
	t.Cleanup(d.Close)

	err := d.Open(context.Background(), "g1")

	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, f.logs.String(), `dropping malformed games document "g1"`)
}

func TestGameDetail_ResultAfterCloseIsDropped(t *testing.T) {
	f := newFixture(t)
	f.seedGame("g1", "Elden Ring")
	d := NewGameDetail(f.env, f.sess)
	d.scope.Mount()

	release := f.backend.Hold(testutil.OpGet)
	defer release()

	done := make(chan error, 1)
	go func() { done <- d.Load(context.Background(), "g1") }()

	require.Eventually(t, func() bool { return f.backend.Calls(testutil.OpGet) == 1 }, timeout, tick)
	d.Close()

	err := <-done
	assert.True(t, errors.Is(err, replica.ErrUnmounted))
	_, loaded := d.Game()
	assert.False(t, loaded)
	assert.Empty(t, f.notes.all())
}
