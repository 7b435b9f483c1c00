package screen

import (
	"context"
	"testing"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"
	"gamescope/app/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotBackend answers list calls with the data as it was when the call
// arrived, released only once the gate is closed.
type snapshotBackend struct {
	*testutil.Backend
	arrived chan struct{}
	gate    chan struct{}
}

func (b *snapshotBackend) ListDocuments(ctx context.Context, collection string, q backend.Query) ([]backend.Document, error) {
	docs, err := b.Backend.ListDocuments(ctx, collection, q)
	if b.gate == nil {
		return docs, err
	}
	b.arrived <- struct{}{}
	<-b.gate
	return docs, err
}

func TestGameReviews_FocusDoesNotUndoLocalMutations(t *testing.T) {
	f := newFixture(t)
	f.seedReview("r1", "g1", ana, "old", "2024-01-01T10:00:00.000Z")

	slow := &snapshotBackend{Backend: f.backend}
	f.env = NewEnv(slow, f.notes, f.env.Logger)
	f.env.NewID = func() string { return "gen-1" }
	s := openReviews(t, f, "g1")
	require.Equal(t, []string{"r1"}, reviewIDs(s.Items()))

	slow.arrived = make(chan struct{})
	slow.gate = make(chan struct{})
	focus := s.Focus(context.Background())
	<-slow.arrived

	_, err := s.Create(context.Background(), "new review")
	require.NoError(t, err)
	require.NoError(t, s.Delete(context.Background(), "r1"))
	require.Equal(t, []string{"gen-1"}, reviewIDs(s.Items()))

	close(slow.gate)
	require.NoError(t, <-focus)

	assert.Equal(t, []string{"gen-1"}, reviewIDs(s.Items()))
	assert.Len(t, f.backend.Docs(models.CollectionReviews), 1)
}
