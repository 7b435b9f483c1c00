package screen

import (
	"context"
	"testing"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_FailurePreservesStaleList(t *testing.T) {
	f := newFixture(t)
	f.seedGame("g1", "Elden Ring")
	f.seedGame("g2", "Hades")
	c := NewCatalog(f.env, f.sess)
	t.Cleanup(c.Close)
	require.NoError(t, c.Open(context.Background()))

	f.backend.FailNext(testutil.OpList, assertErr("dial tcp: connection refused"))
	err := c.Refresh(context.Background())

	assert.True(t, apperr.Is(err, apperr.Network))
	assert.Len(t, c.Items(), 2)
	assert.Equal(t, replica.PhaseReady, c.Phase())

	note := f.notes.last()
	assert.Equal(t, LevelError, note.Level)
	assert.Equal(t, "Can't reach GameScope. Check your connection and retry.", note.Message)

	game, ok := c.Game("g2")
	require.True(t, ok)
	assert.Equal(t, "Hades", game.Title)
}

func TestCatalog_FirstLoadFailure(t *testing.T) {
	f := newFixture(t)
	f.backend.FailNext(testutil.OpList, assertErr("request timed out"))
	c := NewCatalog(f.env, f.sess)
	t.Cleanup(c.Close)

	err := c.Open(context.Background())

	assert.Error(t, err)
	assert.Equal(t, replica.PhaseFailed, c.Phase())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, replica.PhaseEmpty, c.Phase())
}

func TestCatalog_FocusRefreshesInBackground(t *testing.T) {
	f := newFixture(t)
	c := NewCatalog(f.env, f.sess)
	t.Cleanup(c.Close)
	require.NoError(t, c.Open(context.Background()))
	assert.Empty(t, c.Items())

	f.seedGame("g1", "Elden Ring")
	require.NoError(t, <-c.Focus(context.Background()))

	assert.Len(t, c.Items(), 1)
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	f := newFixture(t)
	f.seedGame("g1", "Elden Ring")
	c := NewCatalog(f.env, f.sess)
	t.Cleanup(c.Close)
	require.NoError(t, c.Open(context.Background()))

	f.backend.Expire()
	err := c.Refresh(context.Background())

	assert.True(t, apperr.IsUnauthorized(err))
	assert.False(t, f.sess.Valid())
	assert.Equal(t, 1, f.expired)
	assert.Len(t, c.Items(), 1)

	before := f.backend.TotalCalls()
	reviews := NewGameReviews(f.env, f.sess, "g1")
	t.Cleanup(reviews.Close)
	err = reviews.Open(context.Background())

	assert.True(t, apperr.IsUnauthorized(err))
	assert.Equal(t, before, f.backend.TotalCalls())
	assert.Equal(t, 1, f.expired)
}
