package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want Kind
	}{
		{"", Unknown},
		{"   ", Unknown},
		{"something odd happened", Unknown},
		{"Network request failed", Network},
		{"dial tcp 127.0.0.1:8080: connect: connection refused", Network},
		{"read: connection reset by peer", Network},
		{"unexpected EOF", Network},
		{"context deadline: request timed out", Network},
		{"401 Unauthorized", Unauthorized},
		{"User (role: guests) missing scope (account): unauthorized", Unauthorized},
		{"session expired, please sign in again", Unauthorized},
		{"token is expired", Unauthorized},
		{"404 Not Found", NotFound},
		{"Document with the requested ID could not be found: not found", NotFound},
		{"mongo: no documents in result", NotFound},
		{"403 Forbidden", PermissionDenied},
		{"The current user is not authorized... permission denied", PermissionDenied},
		{"429 Too Many Requests", RateLimited},
		{"Rate limit for the current endpoint has been exceeded", RateLimited},
		{"422: content too long", Validation},
		{"Invalid document structure: missing required attribute", Validation},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.msg), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMessage(tt.msg))
		})
	}
}

type fakeNetErr struct{}

func (fakeNetErr) Error() string   { return "boom" }
func (fakeNetErr) Timeout() bool   { return true }
func (fakeNetErr) Temporary() bool { return true }

var _ net.Error = fakeNetErr{}

func TestClassify_TypedErrorsWin(t *testing.T) {
	// The message says "not found" but the typed kind must be used.
	typed := &Error{Kind: PermissionDenied, Message: "not found"}
	assert.Equal(t, PermissionDenied, Classify(typed))
	assert.Equal(t, PermissionDenied, Classify(fmt.Errorf("wrapped: %w", typed)))

	assert.Equal(t, Network, Classify(context.DeadlineExceeded))
	assert.Equal(t, Network, Classify(fmt.Errorf("get: %w", fakeNetErr{})))
	assert.Equal(t, Unknown, Classify(nil))
	assert.Equal(t, Unknown, Classify(errors.New("boom")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap("op", nil))

	e := Wrap("games.list", errors.New("404 not found"))
	require.NotNil(t, e)
	assert.Equal(t, NotFound, e.Kind)
	assert.Equal(t, "games.list", e.Op)

	inner := New(RateLimited, "", "slow down")
	wrapped := Wrap("reviews.create", inner)
	assert.Equal(t, RateLimited, wrapped.Kind)
	assert.Equal(t, "reviews.create", wrapped.Op)
	assert.Empty(t, inner.Op, "Wrap must not mutate the original error")

	tagged := New(NotFound, "first", "gone")
	assert.Same(t, tagged, Wrap("second", tagged))
}

func TestError_Message(t *testing.T) {
	e := Invalid("reviews.create", "content must not be empty")
	assert.True(t, e.Local)
	assert.Equal(t, "reviews.create: validation_error: content must not be empty", e.Error())

	e = &Error{Kind: Network, Err: errors.New("offline")}
	assert.Equal(t, "network_error: offline", e.Error())
	assert.True(t, IsNotFound(New(NotFound, "", "x")))
	assert.True(t, IsUnauthorized(errors.New("HTTP 401")))
	assert.Equal(t, Unknown, KindOf(nil))
}
