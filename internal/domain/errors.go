package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of them.
var (
	ErrNotFound         = errors.New("not found")
	ErrIllegalOperation = errors.New("illegal operation")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
)

// Error is a classified failure with a message fit for the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func IllegalOperationf(format string, args ...interface{}) error {
	return newError(ErrIllegalOperation, format, args...)
}

func Conflictf(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

func Validationf(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// Message returns the caller-facing message of err, or "" when err is not classified.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
