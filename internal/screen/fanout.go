package screen

import (
	"context"
	"sort"
	"sync"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"

	"golang.org/x/sync/errgroup"
)

// FanoutLimit bounds the concurrent review writes of a userName fan-out.
const FanoutLimit = 8

// ReconcileResult reports one pass of the userName projection.
type ReconcileResult struct {
	// Checked is how many of the user's reviews were examined.
	Checked int
	// Updated lists the reviews rewritten to the new name.
	Updated []string
	// Failed maps review IDs that still carry a stale name to their error.
	Failed map[string]error
}

// ReconcileUserName rewrites the denormalized userName of every review
// owned by userID to name.
//
// The projection is eventually consistent. Writes run in parallel to keep
// the window short, a failed write does not stop the others, and nothing is
// rolled back: reviews listed in Failed keep the old name until the next
// pass. The returned error is set only when the reviews could not be listed.
func ReconcileUserName(ctx context.Context, store backend.DocumentStore, userID, name string) (ReconcileResult, error) {
	result := ReconcileResult{Failed: map[string]error{}}

	docs, err := store.ListDocuments(ctx, models.CollectionReviews, backend.Where(backend.Equal("userId", userID)))
	if err != nil {
		return result, err
	}
	result.Checked = len(docs)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(FanoutLimit)

	for _, doc := range docs {
		if current, _ := doc.Data["userName"].(string); current == name {
			continue
		}
		g.Go(func() error {
			_, err := store.UpdateDocument(ctx, models.CollectionReviews, doc.ID, map[string]any{"userName": name})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Updated = append(result.Updated, doc.ID)
			case apperr.IsNotFound(err):
				// Deleted meanwhile; nothing left to fix.
			default:
				result.Failed[doc.ID] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Updated)
	return result, nil
}
