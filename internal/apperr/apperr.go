package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure the way the user-facing layer needs to react to it.
type Kind int

const (
	// Unknown is the fallback when nothing more specific could be determined.
	Unknown Kind = iota

	// Network covers transport failures: unreachable host, reset connection, timeout.
	Network

	// Unauthorized means the session expired or was revoked.
	// The screen must send the user back to the authentication entry point.
	Unauthorized

	// NotFound means the addressed document does not exist.
	NotFound

	// Validation means the input was rejected, either by the local
	// pre-check or by the backend.
	Validation

	// PermissionDenied means the session is valid but may not touch the document.
	PermissionDenied

	// RateLimited means the backend asked the client to slow down.
	RateLimited

	// InvalidArgument means the caller passed something unusable, such as an empty ID.
	InvalidArgument
)

var kindNames = map[Kind]string{
	Unknown:          "unknown",
	Network:          "network_error",
	Unauthorized:     "unauthorized",
	NotFound:         "not_found",
	Validation:       "validation_error",
	PermissionDenied: "permission_denied",
	RateLimited:      "rate_limited",
	InvalidArgument:  "invalid_argument",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the classified error every client operation returns.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "reviews.create"
	Message string
	// Local marks a Validation error raised by the client-side pre-check,
	// before any request was sent.
	Local bool
	Err   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Invalid creates a local validation error. It never reaches the backend.
func Invalid(op, message string) *Error {
	return &Error{Kind: Validation, Op: op, Message: message, Local: true}
}

// Wrap classifies err and returns it as an *Error tagged with op.
// An existing *Error keeps its kind; only a missing Op is filled in.
func Wrap(op string, err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Op != "" {
			return ae
		}
		cp := *ae
		cp.Op = op
		return &cp
	}
	return &Error{Kind: Classify(err), Op: op, Err: err}
}

// KindOf returns the classification of err, or Unknown for nil.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	return Classify(err)
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	return err != nil && Classify(err) == kind
}

func IsNotFound(err error) bool     { return Is(err, NotFound) }
func IsUnauthorized(err error) bool { return Is(err, Unauthorized) }
