package screen

import (
	"context"
	"strings"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/session"
)

// ToggleResult reports what a favorite toggle did.
type ToggleResult struct {
	// Favorited is the state after the toggle.
	Favorited bool
	// Favorite is the record created when Favorited is true.
	Favorite models.Favorite
	// Removed lists the IDs deleted when Favorited is false. More than one
	// ID means duplicates from a concurrent toggle were cleaned up.
	Removed []string
}

// Favorites lists the signed-in user's favorites in insertion order.
type Favorites struct {
	*listScreen[models.Favorite]
}

// NewFavorites creates the favorites screen for the session's user.
func NewFavorites(env *Env, sess *session.Session) *Favorites {
	src := replica.Source[models.Favorite]{
		Store:      env.Store,
		Collection: models.CollectionFavorites,
		Query:      backend.Where(backend.Equal("userId", sess.UserID())),
		Decode:     models.DecodeFavorite,
	}
	return &Favorites{listScreen: newListScreen(env, sess, "favorites.list", src)}
}

// Toggle favorites game, or unfavorites it if the backend already has it.
func (s *Favorites) Toggle(ctx context.Context, game models.Game) (ToggleResult, error) {
	return toggleFavorite(ctx, s.env, s.sess, s.list(), game)
}

// Remove deletes a favorite by ID. Removing one that is already gone succeeds.
func (s *Favorites) Remove(ctx context.Context, favoriteID string) error {
	const op = "favorites.delete"

	if strings.TrimSpace(favoriteID) == "" {
		return s.env.reject(op, apperr.InvalidArgument, "favorite ID is required")
	}
	if err := s.env.requireSession(s.sess, op); err != nil {
		return err
	}
	if err := s.env.Store.DeleteDocument(ctx, models.CollectionFavorites, favoriteID); err != nil && !apperr.IsNotFound(err) {
		return s.env.fail(s.sess, op, err)
	}
	s.list().Remove(favoriteID)
	return nil
}

// toggleFavorite always asks the backend whether (user, game) is already a
// favorite; a locally cached flag can be stale, e.g. after a change from
// another device. The check and the insert are not atomic, so two devices
// toggling at once can still create a duplicate; the next toggle removes
// every match.
func toggleFavorite(ctx context.Context, env *Env, sess *session.Session, list *replica.List[models.Favorite], game models.Game) (ToggleResult, error) {
	const op = "favorites.toggle"

	if strings.TrimSpace(game.ID) == "" {
		return ToggleResult{}, env.reject(op, apperr.InvalidArgument, "game ID is required")
	}
	if err := env.requireSession(sess, op); err != nil {
		return ToggleResult{}, err
	}
	userID := sess.UserID()

	existing, err := env.Store.ListDocuments(ctx, models.CollectionFavorites,
		backend.Where(backend.Equal("userId", userID), backend.Equal("gameId", game.ID)))
	if err != nil {
		return ToggleResult{}, env.fail(sess, op, err)
	}

	if len(existing) > 0 {
		result := ToggleResult{Favorited: false}
		for _, doc := range existing {
			if err := env.Store.DeleteDocument(ctx, models.CollectionFavorites, doc.ID); err != nil && !apperr.IsNotFound(err) {
				return result, env.fail(sess, op, err)
			}
			if list != nil {
				list.Remove(doc.ID)
			}
			result.Removed = append(result.Removed, doc.ID)
		}
		return result, nil
	}

	fav := models.NewFavorite(userID, game)
	fav.ID = env.newID()
	doc, err := env.Store.CreateDocument(ctx, models.CollectionFavorites, fav.ID, fav.Fields())
	if err != nil {
		return ToggleResult{}, env.fail(sess, op, err)
	}
	if created, err := models.DecodeFavorite(doc); err == nil {
		fav = created
	} else if doc.ID != "" {
		fav.ID = doc.ID
	}

	if list != nil {
		list.Append(fav)
	}
	return ToggleResult{Favorited: true, Favorite: fav}, nil
}
