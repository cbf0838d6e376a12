package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers (and the HTTP layer) can tell
// recoverable error categories apart without parsing messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindIllegalTransition
	KindAuthorization
	KindNotFound
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindIllegalTransition:
		return "ILLEGAL_TRANSITION"
	case KindAuthorization:
		return "AUTHORIZATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Error is a kinded error. It supports errors.Is/As so services can wrap it
// with fmt.Errorf("...: %w", err) and handlers still recover the kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kinded error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func Validationf(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func IllegalTransitionf(format string, args ...interface{}) *Error {
	return New(KindIllegalTransition, format, args...)
}

func Authorizationf(format string, args ...interface{}) *Error {
	return New(KindAuthorization, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Timeoutf(format string, args ...interface{}) *Error {
	return New(KindTimeout, format, args...)
}

// KindOf extracts the kind from an error chain. Unwrapped errors report
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether any error in the chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
