package session

import (
	"sync"
	"testing"

	"gamescope/app/internal/backend"

	"github.com/stretchr/testify/assert"
)

func TestSession_InvalidateFiresOnce(t *testing.T) {
	calls := 0
	s := New(backend.User{ID: "u1", Name: "Ana"}, "tok", func() { calls++ })
	assert.True(t, s.Valid())
	assert.Equal(t, "tok", s.Token())

	s.Invalidate()
	s.Invalidate()

	assert.False(t, s.Valid())
	assert.Empty(t, s.Token())
	assert.Equal(t, 1, calls)
}

func TestSession_ConcurrentInvalidate(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	s := New(backend.User{ID: "u1"}, "", func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Invalidate()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestSession_SetName(t *testing.T) {
	s := New(backend.User{ID: "u1", Name: "A", Email: "a@example.com"}, "", nil)
	s.SetName("B")
	assert.Equal(t, backend.User{ID: "u1", Name: "B", Email: "a@example.com"}, s.User())
	assert.Equal(t, "u1", s.UserID())
	assert.Equal(t, "B", s.Name())

	// A nil callback is allowed.
	s.Invalidate()
	assert.False(t, s.Valid())
}
