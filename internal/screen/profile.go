package screen

import (
	"context"
	"fmt"
	"sort"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/session"
)

// RenameResult reports a display-name change.
//
// The account name is the source of truth: once it changed, the rename
// succeeded. Stale lists the reviews that still show the old name.
type RenameResult struct {
	User    backend.User
	Updated []string
	Stale   []string
	// FanoutErr is set when the reviews to rewrite could not even be listed.
	FanoutErr error
}

// Partial reports whether some reviews may still show the old name.
func (r RenameResult) Partial() bool {
	return len(r.Stale) > 0 || r.FanoutErr != nil
}

// Profile lists the signed-in user's own reviews, newest first, and
// manages the account's display name.
type Profile struct {
	*listScreen[models.Review]
}

func NewProfile(env *Env, sess *session.Session) *Profile {
	src := replica.Source[models.Review]{
		Store:      env.Store,
		Collection: models.CollectionReviews,
		Query:      backend.Where(backend.Equal("userId", sess.UserID())).OrderedDesc("timestamp"),
		Decode:     models.DecodeReview,
	}
	return &Profile{listScreen: newListScreen(env, sess, "profile.reviews", src)}
}

// User returns the signed-in account.
func (p *Profile) User() backend.User {
	return p.sess.User()
}

// Edit replaces the content of one of the user's reviews.
func (p *Profile) Edit(ctx context.Context, reviewID, content string) (models.Review, error) {
	return editReview(ctx, p.env, p.sess, p.list(), reviewID, content)
}

// Delete removes one of the user's reviews.
func (p *Profile) Delete(ctx context.Context, reviewID string) error {
	return deleteReview(ctx, p.env, p.sess, p.list(), reviewID)
}

// Rename changes the account's display name and then rewrites the userName
// copy held by each of the user's reviews.
//
// The fan-out is best-effort: when some review writes fail the rename is
// still reported as a success, with a separate warning notice. A crash
// between the account update and the end of the fan-out leaves old names in
// place until Resync or the next rename.
func (p *Profile) Rename(ctx context.Context, name string) (RenameResult, error) {
	const op = "profile.rename"

	name, err := models.ValidateDisplayName(name)
	if err != nil {
		return RenameResult{}, p.env.reject(op, apperr.Validation, err.Error())
	}
	if err := p.env.requireSession(p.sess, op); err != nil {
		return RenameResult{}, err
	}

	user, err := p.env.Auth.UpdateDisplayName(ctx, name)
	if err != nil {
		return RenameResult{}, p.env.fail(p.sess, op, err)
	}
	p.sess.SetName(user.Name)

	result := p.fanout(ctx, user.Name)
	result.User = user
	return result, nil
}

// Resync runs the userName projection again for the current name, e.g.
// after a rename that ended with a partial-update warning.
func (p *Profile) Resync(ctx context.Context) (RenameResult, error) {
	const op = "profile.resync"
	if err := p.env.requireSession(p.sess, op); err != nil {
		return RenameResult{}, err
	}
	result := p.fanout(ctx, p.sess.Name())
	result.User = p.sess.User()
	return result, nil
}

func (p *Profile) fanout(ctx context.Context, name string) RenameResult {
	var result RenameResult

	reconciled, err := ReconcileUserName(ctx, p.env.Store, p.sess.UserID(), name)
	if err != nil {
		result.FanoutErr = apperr.Wrap("profile.fanout", err)
		if apperr.IsUnauthorized(err) {
			p.sess.Invalidate()
		}
	}
	result.Updated = reconciled.Updated
	for id, ferr := range reconciled.Failed {
		result.Stale = append(result.Stale, id)
		if apperr.IsUnauthorized(ferr) {
			p.sess.Invalidate()
		}
	}
	sort.Strings(result.Stale)

	for _, id := range result.Updated {
		p.list().Patch(id, func(r models.Review) models.Review {
			r.UserName = name
			return r
		})
	}

	if result.Partial() {
		msg := "Your name was changed, but some of your reviews could not be updated yet."
		if n := len(result.Stale); n > 0 {
			msg = fmt.Sprintf("Your name was changed, but %d of your reviews still show the old name.", n)
		}
		p.env.notify(Notice{Level: LevelWarning, Kind: apperr.KindOf(result.FanoutErr), Op: "profile.fanout", Message: msg})
	}
	return result
}
