// Package session holds the signed-in identity explicitly, so operations
// receive it as a parameter instead of reading global state.
package session

import (
	"sync"

	"gamescope/app/internal/backend"
)

// Session is the signed-in user for the lifetime of a set of screens.
//
// Thread-safety: all methods are safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	user     backend.User
	token    string
	onExpire func()
	expired  bool
}

// New creates a session for user. onExpire runs once, on the first
// Invalidate call, and should route the user back to sign-in.
func New(user backend.User, token string, onExpire func()) *Session {
	return &Session{user: user, token: token, onExpire: onExpire}
}

// User returns a copy of the signed-in user.
func (s *Session) User() backend.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) UserID() string { return s.User().ID }

func (s *Session) Name() string { return s.User().Name }

// Token returns the bearer token, if the transport uses one.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetName records a successful display-name change.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Name = name
}

// Valid reports whether the session has not been invalidated.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.expired
}

// Invalidate marks the session expired and fires onExpire the first time.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		return
	}
	s.expired = true
	s.token = ""
	cb := s.onExpire
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}
