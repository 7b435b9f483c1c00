// Package screen implements the GameScope screens as view models: each one
// fetches its documents into a local list, mutates them through the backend,
// and patches the local list once the backend acknowledges the mutation.
package screen

import (
	"errors"
	"log"
	"time"

	"gamescope/app/internal/apperr"
	"gamescope/app/internal/backend"
	"gamescope/app/internal/replica"
	"gamescope/app/internal/session"

	"github.com/google/uuid"
)

// Level is the severity of a user-facing notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message for the user: an alert, a toast or an inline hint.
type Notice struct {
	Level   Level
	Kind    apperr.Kind
	Op      string
	Message string
}

// Notifier displays notices.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Env is what every screen needs from the outside world.
type Env struct {
	Store    backend.DocumentStore
	Auth     backend.Auth
	Notifier Notifier
	Logger   *log.Logger

	// Now and NewID are replaceable for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

// NewEnv wires a collaborator into an Env with the default clock and ID source.
func NewEnv(client backend.Client, notifier Notifier, logger *log.Logger) *Env {
	return &Env{
		Store:    client,
		Auth:     client,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// isoLayout matches the millisecond ISO-8601 form used for review timestamps.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

func (e *Env) timestamp() string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return now().UTC().Format(isoLayout)
}

func (e *Env) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e *Env) notify(n Notice) {
	if e.Notifier != nil {
		e.Notifier.Notify(n)
	}
}

func (e *Env) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// fail is the single exit for backend failures: classify, tell the user,
// and send them back to sign-in when the session is gone.
func (e *Env) fail(sess *session.Session, op string, err error) error {
	if errors.Is(err, replica.ErrUnmounted) {
		return err
	}
	ae := apperr.Wrap(op, err)
	if ae.Kind == apperr.Unauthorized && sess != nil {
		sess.Invalidate()
	}
	e.notify(Notice{Level: LevelError, Kind: ae.Kind, Op: op, Message: userMessage(ae)})
	return ae
}

// reject blocks an action locally. Nothing is sent to the backend.
func (e *Env) reject(op string, kind apperr.Kind, message string) error {
	ae := apperr.New(kind, op, message)
	ae.Local = kind == apperr.Validation
	e.notify(Notice{Level: LevelError, Kind: kind, Op: op, Message: message})
	return ae
}

// requireSession fails fast when the session was already invalidated.
func (e *Env) requireSession(sess *session.Session, op string) error {
	if sess == nil || !sess.Valid() {
		return e.fail(nil, op, apperr.New(apperr.Unauthorized, op, "not signed in"))
	}
	return nil
}

func userMessage(e *apperr.Error) string {
	switch e.Kind {
	case apperr.Network:
		return "Can't reach GameScope. Check your connection and retry."
	case apperr.Unauthorized:
		return "Your session has expired. Please sign in again."
	case apperr.NotFound:
		return "That item no longer exists."
	case apperr.Validation:
		if e.Message != "" {
			return e.Message
		}
		return "The server rejected the input."
	case apperr.PermissionDenied:
		return "You are not allowed to do that."
	case apperr.RateLimited:
		return "Too many requests. Wait a moment and retry."
	case apperr.InvalidArgument:
		return e.Message
	default:
		return "Something went wrong. Please retry."
	}
}
