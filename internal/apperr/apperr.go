// Package apperr defines the application error taxonomy. Handlers decide the
// HTTP status by switching on the error kind, never by inspecting messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInvalidInput Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a user-facing message and an optional wrapped cause. The
// message never leaks internal identifiers or driver errors.
type Error struct {
	Kind    Kind
	Message string

	// status overrides the default kind mapping. Only conflicts use it:
	// duplicate unique keys answer 400, referential conflicts 409.
	status int
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func InvalidInput(message string) *Error    { return New(KindInvalidInput, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }

// DuplicateKey marks a unique-constraint violation (username, email, SKU,
// sale number). Answered with 400.
func DuplicateKey(message string) *Error {
	return New(KindConflict, message)
}

// Referenced marks a delete blocked by existing references. Answered with 409.
func Referenced(message string) *Error {
	return &Error{Kind: KindConflict, Message: message, status: http.StatusConflict}
}

func Internal(cause error) *Error {
	return Wrap(KindInternal, "internal server error", cause)
}

// KindOf extracts the kind from any error in the chain, defaulting to internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err. Untagged errors collapse
// to a generic message so nothing internal reaches the client.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to its response status.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.status != 0 {
		return appErr.status
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
