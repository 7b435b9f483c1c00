package apperr

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Classify maps an error to a Kind. Typed information wins; opaque errors
// fall through to ClassifyMessage.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Network
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network
	}

	return ClassifyMessage(err.Error())
}

// messageRule matches any of its needles against a lowercased message.
type messageRule struct {
	kind    Kind
	needles []string
}

// Order matters: auth failures often mention "permission" or "invalid",
// and rate limiting messages often mention "request".
var messageRules = []messageRule{
	{Unauthorized, []string{"401", "unauthorized", "unauthenticated", "session expired", "token is expired", "invalid token", "jwt"}},
	{RateLimited, []string{"429", "rate limit", "too many requests", "resource exhausted", "resource_exhausted"}},
	{PermissionDenied, []string{"403", "forbidden", "permission", "not allowed", "access denied"}},
	{NotFound, []string{"404", "not found", "no documents", "does not exist"}},
	{Network, []string{"network", "connection refused", "connection reset", "no such host", "timeout", "timed out", "dial tcp", "eof", "unreachable", "offline"}},
	{Validation, []string{"422", "400", "validation", "invalid", "too long", "required"}},
}

// ClassifyMessage is the heuristic fallback for backends that only return
// opaque error strings. It is a pure function over the message text.
func ClassifyMessage(msg string) Kind {
	lower := strings.ToLower(strings.TrimSpace(msg))
	if lower == "" {
		return Unknown
	}
	for _, rule := range messageRules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.kind
			}
		}
	}
	return Unknown
}
