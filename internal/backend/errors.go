package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind string

// Error kinds.
const (
	KindNetwork      Kind = "network"
	KindStatus       Kind = "status"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindDecode       Kind = "decode"
	KindMissingToken Kind = "missing_token"
)

// Error is returned by every Client method that fails.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("backend %s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the call may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || (e.Kind == KindStatus && e.StatusCode >= http.StatusInternalServerError)
}

// IsKind reports whether err is a backend error of kind k.
func IsKind(err error, k Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == k
}

// IsRetryable reports whether err is a retryable backend error.
func IsRetryable(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Retryable()
}

// statusKind maps a non-success HTTP status to an error kind.
func statusKind(code int) Kind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindStatus
	}
}
