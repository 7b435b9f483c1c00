package replica

import (
	"context"
	"errors"
	"sync"

	"gamescope/app/internal/apperr"
)

// ErrUnmounted is returned when a refresh finished after its screen went away.
// Its result was discarded; callers should ignore it.
var ErrUnmounted = errors.New("replica: screen unmounted")

// Phase is what a screen should render for its list.
type Phase int

const (
	// PhaseLoading: no fetch has completed yet.
	PhaseLoading Phase = iota
	// PhaseFailed: nothing was ever loaded and the last fetch failed.
	// Render an error with a retry control.
	PhaseFailed
	// PhaseEmpty: loaded, no records.
	PhaseEmpty
	// PhaseReady: records are available, possibly stale if LastError is set.
	PhaseReady
)

// Synchronizer binds a Source to a List and a Scope.
//
// Refresh replaces the list on success and leaves it untouched on failure:
// stale data stays visible rather than blanking the screen.
type Synchronizer[T Keyed] struct {
	op     string
	source Source[T]
	list   *List[T]
	scope  *Scope

	mu      sync.Mutex
	issued  uint64
	applied uint64
	loaded  bool
	lastErr error
}

// NewSynchronizer creates a synchronizer with an empty list. op names the
// operation in classified errors, e.g. "reviews.list".
func NewSynchronizer[T Keyed](op string, source Source[T], scope *Scope) *Synchronizer[T] {
	return &Synchronizer[T]{
		op:     op,
		source: source,
		list:   NewList[T](),
		scope:  scope,
	}
}

// List returns the in-memory records.
func (s *Synchronizer[T]) List() *List[T] { return s.list }

// Scope returns the lifecycle the synchronizer is bound to.
func (s *Synchronizer[T]) Scope() *Scope { return s.scope }

// Refresh fetches the collection and reconciles the list.
//
// On failure the list is left as it was and a classified *apperr.Error is
// returned. A refresh that completes after a newer one has already been
// applied is dropped, and so is its error. Local mutations made while the
// fetch was in flight are replayed over its result. A refresh that completes
// after Unmount returns ErrUnmounted and changes nothing.
func (s *Synchronizer[T]) Refresh(ctx context.Context) error {
	ctx, gen, done, ok := s.scope.Begin(ctx)
	defer done()
	if !ok {
		return ErrUnmounted
	}

	s.mu.Lock()
	s.issued++
	ticket := s.issued
	since := s.list.Version()
	s.mu.Unlock()

	records, err := s.source.Fetch(ctx)

	if !s.scope.Live(gen) {
		return ErrUnmounted
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stale := ticket < s.applied
	if err != nil {
		classified := apperr.Wrap(s.op, err)
		if !stale {
			s.lastErr = classified
		}
		return classified
	}
	if stale {
		return nil
	}
	s.applied = ticket
	s.loaded = true
	s.lastErr = nil
	s.list.Reconcile(records, since)
	return nil
}

// RefreshAsync runs Refresh in the background, layered over whatever is
// currently displayed. The channel receives exactly one result.
func (s *Synchronizer[T]) RefreshAsync(ctx context.Context) <-chan error {
	return Async(func() error { return s.Refresh(ctx) })
}

// Async runs fn in its own goroutine. The channel receives fn's result and
// is then closed.
func Async(fn func() error) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		result <- fn()
	}()
	return result
}

// Loaded reports whether any refresh has succeeded.
func (s *Synchronizer[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// LastError returns the error of the most recent failed refresh, cleared by
// the next successful one.
func (s *Synchronizer[T]) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Phase reports which fallback render applies.
func (s *Synchronizer[T]) Phase() Phase {
	s.mu.Lock()
	loaded, lastErr := s.loaded, s.lastErr
	s.mu.Unlock()

	switch {
	case !loaded && lastErr != nil:
		return PhaseFailed
	case !loaded:
		return PhaseLoading
	case s.list.Len() == 0:
		return PhaseEmpty
	default:
		return PhaseReady
	}
}
