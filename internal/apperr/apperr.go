// Package apperr defines the domain conditions the services report to
// their callers. Anything that is not an *Error is an unexpected failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain condition.
type Kind int

const (
	// KindNotFound means the requested record does not exist.
	KindNotFound Kind = iota + 1
	// KindExists means a record with the same identity already exists.
	KindExists
	// KindInvalid means the request broke a business rule.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindExists:
		return "exists"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is a domain condition with a human-readable message. Err keeps the
// underlying cause, if any, inspectable through errors.Is and errors.As.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// NotFound returns a KindNotFound condition.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Exists returns a KindExists condition.
func Exists(format string, args ...any) *Error {
	return &Error{Kind: KindExists, Message: fmt.Sprintf(format, args...)}
}

// Invalid returns a KindInvalid condition.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a condition of the given kind that keeps err as its cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsDomain reports whether err carries a domain condition.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// KindOf returns the kind of the outermost domain condition in err, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err is a KindNotFound condition.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
