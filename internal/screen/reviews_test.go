package screen

import (
	"context"
	"strings"
	"testing"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/models"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openReviews(t *testing.T, f *fixture, gameID string) *GameReviews {
	t.Helper()
	s := NewGameReviews(f.env, f.sess, gameID)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestGameReviews_ListsNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r1", "g1", ana, "first", "2024-01-01T10:00:00.000Z")
	f.seedReview("r2", "g1", bo, "second", "2024-01-02T10:00:00.000Z")
	f.seedReview("other", "g2", bo, "elsewhere", "2024-01-03T10:00:00.000Z")

	s := openReviews(t, f, "g1")

	assert.Equal(t, []string{"r2", "r1"}, reviewIDs(s.Items()))
	assert.Equal(t, replica.PhaseReady, s.Phase())
}

func TestGameReviews_CreatePrependsWithoutRefetch(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r1", "g1", bo, "old", "2024-01-01T10:00:00.000Z")
	s := openReviews(t, f, "g1")
	lists := f.backend.Calls(testutil.OpList)

	review, err := s.Create(context.Background(), "  Great game!  ")
	require.NoError(t, err)

	assert.Equal(t, "gen-1", review.ID)
	assert.Equal(t, "Great game!", review.Content)
	assert.Equal(t, "Ana", review.UserName)
	assert.Equal(t, "2024-06-01T12:00:00.000Z", review.Timestamp)
	assert.Equal(t, []string{"gen-1", "r1"}, reviewIDs(s.Items()))
	assert.Equal(t, lists, f.backend.Calls(testutil.OpList))
	assert.Len(t, f.backend.Docs(models.CollectionReviews), 2)
}

func TestGameReviews_InvalidContentMakesNoCalls(t *testing.T) {
	f := newFixture(t)
	s := openReviews(t, f, "g1")
	before := f.backend.TotalCalls()

	for _, content := range []string{"", "   ", strings.Repeat("x", models.MaxReviewLength+1)} {
		_, err := s.Create(context.Background(), content)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.Validation))

		var ae *apperr.Error
		require.ErrorAs(t, err, &ae)
		assert.True(t, ae.Local)
	}

	assert.Equal(t, before, f.backend.TotalCalls())
	assert.Empty(t, s.Items())
	assert.Equal(t, LevelError, f.notes.last().Level)
}

func TestGameReviews_MaxLengthAccepted(t *testing.T) {
	f := newFixture(t)
	s := openReviews(t, f, "g1")

	_, err := s.Create(context.Background(), strings.Repeat("\u00e9", models.MaxReviewLength))
	require.NoError(t, err)
}

func TestGameReviews_EditPatchesByID(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r1", "g1", ana, "first", "2024-01-01T10:00:00.000Z")
	f.seedReview("r2", "g1", ana, "second", "2024-01-02T10:00:00.000Z")
	s := openReviews(t, f, "g1")

	updated, err := s.Edit(context.Background(), "r1", "revised")
	require.NoError(t, err)

	assert.Equal(t, "revised", updated.Content)
	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Content)
	assert.Equal(t, "revised", items[1].Content)
	assert.Equal(t, "2024-01-01T10:00:00.000Z", items[1].Timestamp)
}

func TestGameReviews_EditFailureLeavesRecord(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r1", "g1", ana, "first", "2024-01-01T10:00:00.000Z")
	s := openReviews(t, f, "g1")

	f.backend.FailNext(testutil.OpUpdate, assertErr("dial tcp 10.0.0.1:443: connection refused"))
	_, err := s.Edit(context.Background(), "r1", "revised")

	assert.True(t, apperr.Is(err, apperr.Network))
	assert.Equal(t, "first", s.Items()[0].Content)
	assert.Equal(t, apperr.Network, f.notes.last().Kind)
}

func TestGameReviews_EditOthersReviewRejectedLocally(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r9", "g1", bo, "bo's take", "2024-01-01T10:00:00.000Z")
	s := openReviews(t, f, "g1")
	before := f.backend.TotalCalls()

	_, err := s.Edit(context.Background(), "r9", "hijacked")
	assert.True(t, apperr.Is(err, apperr.PermissionDenied))

	assert.Equal(t, before, f.backend.TotalCalls())
	assert.Equal(t, "bo's take", s.Items()[0].Content)
}

func TestGameReviews_EditVanishedReviewRemovesIt(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r1", "g1", ana, "first", "2024-01-01T10:00:00.000Z")
	s := openReviews(t, f, "g1")
	require.NoError(t, f.backend.DeleteDocument(context.Background(), models.CollectionReviews, "r1"))

	_, err := s.Edit(context.Background(), "r1", "revised")

	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, s.Items())
}

func TestGameReviews_DeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r1", "g1", ana, "first", "2024-01-01T10:00:00.000Z")
	s := openReviews(t, f, "g1")

	require.NoError(t, s.Delete(context.Background(), "r1"))
	assert.Empty(t, s.Items())
	assert.Empty(t, f.backend.Docs(models.CollectionReviews))

	require.NoError(t, s.Delete(context.Background(), "r1"))
	assert.Empty(t, f.notes.all())
}

func TestGameReviews_DeleteEmptyID(t *testing.T) {
	f := newFixture(t)
	s := openReviews(t, f, "g1")

	err := s.Delete(context.Background(), " ")
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
