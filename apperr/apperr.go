// Package apperr classifies failures so that every layer can report a stable
// kind and a human readable message without leaking infrastructure details.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation     Kind = "VALIDATION_ERROR"
	KindAuthentication Kind = "AUTHENTICATION_ERROR"
	KindAuthorization  Kind = "AUTHORIZATION_ERROR"
	KindNotFound       Kind = "NOT_FOUND"
	KindBusinessRule   Kind = "BUSINESS_RULE_VIOLATION"
	KindPayment        Kind = "PAYMENT_ERROR"
	KindDuplicate      Kind = "DUPLICATE"
	KindConflict       Kind = "CONFLICT"
	KindRateLimited    Kind = "RATE_LIMITED"
	KindInfrastructure Kind = "INFRASTRUCTURE_ERROR"
)

type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Authentication(message string) *Error { return New(KindAuthentication, message) }
func Authorization(message string) *Error  { return New(KindAuthorization, message) }
func NotFound(message string) *Error       { return New(KindNotFound, message) }
func BusinessRule(message string) *Error   { return New(KindBusinessRule, message) }
func Duplicate(message string) *Error      { return New(KindDuplicate, message) }
func Conflict(message string) *Error       { return New(KindConflict, message) }

func Payment(err error, message string) *Error {
	return Wrap(err, KindPayment, message)
}

func Infrastructure(err error, message string) *Error {
	return Wrap(err, KindInfrastructure, message)
}

// KindOf returns the kind of the first *Error in err's chain.
// Unclassified errors are infrastructure failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
