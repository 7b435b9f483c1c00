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

// GameReviews lists the reviews of one game, newest first, and lets the
// signed-in user write, edit and delete their own.
type GameReviews struct {
	*listScreen[models.Review]
	gameID string
}

// NewGameReviews creates the reviews screen for gameID.
func NewGameReviews(env *Env, sess *session.Session, gameID string) *GameReviews {
	src := replica.Source[models.Review]{
		Store:      env.Store,
		Collection: models.CollectionReviews,
		Query:      backend.Where(backend.Equal("gameId", gameID)).OrderedDesc("timestamp"),
		Decode:     models.DecodeReview,
	}
	return &GameReviews{
		listScreen: newListScreen(env, sess, "reviews.list", src),
		gameID:     gameID,
	}
}

// Create posts a new review and puts it at the top of the list.
func (s *GameReviews) Create(ctx context.Context, content string) (models.Review, error) {
	return createReview(ctx, s.env, s.sess, s.list(), s.gameID, content)
}

// Edit replaces the content of one of the user's reviews.
func (s *GameReviews) Edit(ctx context.Context, reviewID, content string) (models.Review, error) {
	return editReview(ctx, s.env, s.sess, s.list(), reviewID, content)
}

// Delete removes one of the user's reviews. Deleting a review that is
// already gone succeeds.
func (s *GameReviews) Delete(ctx context.Context, reviewID string) error {
	return deleteReview(ctx, s.env, s.sess, s.list(), reviewID)
}

// createReview validates content before any network call, creates the
// document under a client-generated ID and prepends the result. The list
// is not re-fetched.
func createReview(ctx context.Context, env *Env, sess *session.Session, list *replica.List[models.Review], gameID, content string) (models.Review, error) {
	const op = "reviews.create"

	if strings.TrimSpace(gameID) == "" {
		return models.Review{}, env.reject(op, apperr.InvalidArgument, "a game must be selected")
	}
	content, err := models.ValidateReviewContent(content)
	if err != nil {
		return models.Review{}, env.reject(op, apperr.Validation, err.Error())
	}
	if err := env.requireSession(sess, op); err != nil {
		return models.Review{}, err
	}

	user := sess.User()
	review := models.Review{
		ID:        env.newID(),
		GameID:    gameID,
		UserID:    user.ID,
		UserName:  user.Name,
		Content:   content,
		Timestamp: env.timestamp(),
	}

	doc, err := env.Store.CreateDocument(ctx, models.CollectionReviews, review.ID, review.Fields())
	if err != nil {
		return models.Review{}, env.fail(sess, op, err)
	}
	if created, err := models.DecodeReview(doc); err == nil {
		review = created
	} else if doc.ID != "" {
		review.ID = doc.ID
	}

	if list != nil {
		list.Prepend(review)
	}
	return review, nil
}

// editReview updates content and, only once the backend accepts it, patches
// the local record with the same ID.
func editReview(ctx context.Context, env *Env, sess *session.Session, list *replica.List[models.Review], reviewID, content string) (models.Review, error) {
	const op = "reviews.update"

	if strings.TrimSpace(reviewID) == "" {
		return models.Review{}, env.reject(op, apperr.InvalidArgument, "review ID is required")
	}
	content, err := models.ValidateReviewContent(content)
	if err != nil {
		return models.Review{}, env.reject(op, apperr.Validation, err.Error())
	}
	if err := env.requireSession(sess, op); err != nil {
		return models.Review{}, err
	}
	if err := checkOwner(env, sess, list, op, reviewID); err != nil {
		return models.Review{}, err
	}

	doc, err := env.Store.UpdateDocument(ctx, models.CollectionReviews, reviewID, map[string]any{"content": content})
	if err != nil {
		if apperr.IsNotFound(err) && list != nil {
			list.Remove(reviewID)
		}
		return models.Review{}, env.fail(sess, op, err)
	}

	updated, decodeErr := models.DecodeReview(doc)
	if list != nil {
		list.Patch(reviewID, func(r models.Review) models.Review {
			if decodeErr == nil {
				return updated
			}
			r.Content = content
			return r
		})
	}
	if decodeErr != nil {
		env.logf("Warning: update of review %q echoed a malformed document: %v", reviewID, decodeErr)
		if list != nil {
			if r, ok := list.Find(reviewID); ok {
				return r, nil
			}
		}
		return models.Review{ID: reviewID, Content: content}, nil
	}
	return updated, nil
}

// deleteReview removes the document and the local record. NotFound means the
// review is already gone, which is the outcome the user asked for.
func deleteReview(ctx context.Context, env *Env, sess *session.Session, list *replica.List[models.Review], reviewID string) error {
	const op = "reviews.delete"

	if strings.TrimSpace(reviewID) == "" {
		return env.reject(op, apperr.InvalidArgument, "review ID is required")
	}
	if err := env.requireSession(sess, op); err != nil {
		return err
	}
	if err := checkOwner(env, sess, list, op, reviewID); err != nil {
		return err
	}

	if err := env.Store.DeleteDocument(ctx, models.CollectionReviews, reviewID); err != nil && !apperr.IsNotFound(err) {
		return env.fail(sess, op, err)
	}
	if list != nil {
		list.Remove(reviewID)
	}
	return nil
}

// checkOwner rejects edits of reviews the local list knows belong to
// someone else. Unknown IDs are left to the backend's permission check.
func checkOwner(env *Env, sess *session.Session, list *replica.List[models.Review], op, reviewID string) error {
	if list == nil {
		return nil
	}
	if r, ok := list.Find(reviewID); ok && r.UserID != sess.UserID() {
		return env.reject(op, apperr.PermissionDenied, "you can only change your own reviews")
	}
	return nil
}
