// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure categories the adapters translate
// provider and input errors into.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindProviderUnconfigured
	KindProviderRejected
	KindBackendUnavailable
	KindCallbackURLRequired
	KindCallbackURLNotPublic
	KindSubmissionRejected
	KindJobFailed
	KindJobTimeout
)

// Error carries a kind plus a human-readable message, often with
// remediation text for configuration problems.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so sentinel values created with New can be compared
// against wrapped instances.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an upstream error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error to the status code the request boundary returns.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindJobTimeout:
		// only the job poller produces this kind, so 408 surfaces solely on
		// the synchronous generation route that awaits a poll
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
