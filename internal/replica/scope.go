package replica

import (
	"context"
	"sync"
)

// Scope tracks a screen's mount lifecycle. Work started while mounted is
// cancelled on Unmount, and its results are discarded even if they arrive.
type Scope struct {
	mu      sync.Mutex
	gen     uint64
	mounted bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScope returns an unmounted scope.
func NewScope() *Scope {
	return &Scope{}
}

// Mount marks the screen as visible. Mounting an already mounted scope is a no-op.
func (s *Scope) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mounted {
		return
	}
	s.gen++
	s.mounted = true
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

// Unmount cancels in-flight work and invalidates its results.
func (s *Scope) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return
	}
	s.mounted = false
	s.cancel()
}

// Active reports whether the screen is mounted.
func (s *Scope) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Generation identifies one mount of a scope.
type Generation uint64

// Begin derives a context from parent that is also cancelled on Unmount,
// and returns the mount generation the work belongs to. ok is false when
// the scope is not mounted. done must be called when the work finishes.
func (s *Scope) Begin(parent context.Context) (ctx context.Context, gen Generation, done func(), ok bool) {
	s.mu.Lock()
	mounted, mountCtx := s.mounted, s.ctx
	gen = Generation(s.gen)
	s.mu.Unlock()
	if !mounted {
		return parent, gen, func() {}, false
	}

	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(mountCtx, cancel)
	return ctx, gen, func() {
		stop()
		cancel()
	}, true
}

// Live reports whether work from mount generation gen may still touch state.
func (s *Scope) Live(gen Generation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted && Generation(s.gen) == gen
}
