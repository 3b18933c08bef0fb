// Package apperr defines the error kinds handlers return and the HTTP status
// each kind is rendered with.
//
//	if watch == nil {
//	    return apperr.NotFound("No watch id : %s", id)
//	}
//
// Anything that is not an *Error is treated as Unexpected.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for translation into a response.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindBadRequest
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GenericMessage is what clients see for unexpected failures.
const GenericMessage = "Something went wrong, try again later"

// Error is a classified application error.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string // per-field validation messages, if any
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg != "" {
		return e.Msg + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error { return newf(KindValidation, format, args...) }
func BadRequest(format string, args ...any) *Error { return newf(KindBadRequest, format, args...) }
func NotFound(format string, args ...any) *Error   { return newf(KindNotFound, format, args...) }
func Forbidden(format string, args ...any) *Error  { return newf(KindForbidden, format, args...) }
func Unauthenticated(format string, args ...any) *Error {
	return newf(KindUnauthenticated, format, args...)
}

// Fields builds a validation error from a field → message map. The message
// lists the failing fields in a stable order.
func Fields(errs map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: joinFields(errs), Fields: errs}
}

// Unexpected wraps err as an internal failure. The wrapped error is logged,
// never rendered.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Err: err}
}

// KindOf reports the kind of err, KindUnexpected for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool { return err != nil && KindOf(err) == k }

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnexpected && e.Msg != "" {
		return e.Msg
	}
	return GenericMessage
}
