package screen

import (
	"context"

	"gamescope/app/internal/replica"
	"gamescope/app/internal/session"
)

// listScreen is the fetch/render half shared by every list screen.
type listScreen[T replica.Keyed] struct {
	env   *Env
	sess  *session.Session
	op    string
	scope *replica.Scope
	sync  *replica.Synchronizer[T]
}

func newListScreen[T replica.Keyed](env *Env, sess *session.Session, op string, src replica.Source[T]) *listScreen[T] {
	if src.Logger == nil {
		src.Logger = env.Logger
	}
	scope := replica.NewScope()
	return &listScreen[T]{
		env:   env,
		sess:  sess,
		op:    op,
		scope: scope,
		sync:  replica.NewSynchronizer(op, src, scope),
	}
}

// Open mounts the screen and loads it.
func (s *listScreen[T]) Open(ctx context.Context) error {
	s.scope.Mount()
	return s.Refresh(ctx)
}

// Close unmounts the screen. In-flight fetches are cancelled and their
// results dropped.
func (s *listScreen[T]) Close() {
	s.scope.Unmount()
}

// Refresh reloads the list. On failure the current records stay in place.
// This is also the Retry action.
func (s *listScreen[T]) Refresh(ctx context.Context) error {
	if err := s.env.requireSession(s.sess, s.op); err != nil {
		return err
	}
	if err := s.sync.Refresh(ctx); err != nil {
		return s.env.fail(s.sess, s.op, err)
	}
	return nil
}

// Focus re-fetches in the background when the user returns to the screen.
// The current records stay visible until the refresh lands.
func (s *listScreen[T]) Focus(ctx context.Context) <-chan error {
	return replica.Async(func() error { return s.Refresh(ctx) })
}

// Items returns the records currently displayed.
func (s *listScreen[T]) Items() []T {
	return s.sync.List().Values()
}

// Phase reports which fallback render applies.
func (s *listScreen[T]) Phase() replica.Phase {
	return s.sync.Phase()
}

func (s *listScreen[T]) list() *replica.List[T] {
	return s.sync.List()
}
