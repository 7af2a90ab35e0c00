package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindInvalidIdentifier Kind = "invalid_identifier"
	KindValidation        Kind = "validation"
	KindPersistence       Kind = "persistence"
	KindAuth              Kind = "auth"
	KindForbidden         Kind = "forbidden"
)

// Reason narrows a persistence failure so the HTTP layer can pick a status.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonNotFound    Reason = "not_found"
	ReasonReferential Reason = "referential"
	ReasonConflict    Reason = "conflict"
)

type Error struct {
	Kind    Kind
	Reason  Reason
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

func InvalidIdentifier(value string) *Error {
	return &Error{Kind: KindInvalidIdentifier, Message: fmt.Sprintf("invalid identifier %q", value)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Persistence wraps a store failure with a human-readable message.
func Persistence(err error, msg string) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: errors.WithStack(err)}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindPersistence, Reason: ReasonNotFound, Message: msg}
}

func Referential(err error, msg string) *Error {
	return &Error{Kind: KindPersistence, Reason: ReasonReferential, Message: msg, Err: err}
}

func Conflict(err error, msg string) *Error {
	return &Error{Kind: KindPersistence, Reason: ReasonConflict, Message: msg, Err: err}
}

// As returns the typed error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

func IsReason(err error, reason Reason) bool {
	e, ok := As(err)
	return ok && e.Reason == reason
}

func IsInvalidIdentifier(err error) bool { return Is(err, KindInvalidIdentifier) }
func IsValidation(err error) bool        { return Is(err, KindValidation) }
func IsPersistence(err error) bool       { return Is(err, KindPersistence) }
func IsAuth(err error) bool              { return Is(err, KindAuth) }
func IsForbidden(err error) bool         { return Is(err, KindForbidden) }
