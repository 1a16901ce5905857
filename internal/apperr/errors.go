// Package apperr holds the error values shared by repositories, services and
// handlers. Callers wrap them with fmt.Errorf("...: %w", err) and test with
// errors.Is / errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNoAvailability = errors.New("not enough availability")
	ErrInvalidState   = errors.New("invalid state")
	ErrBadSignature   = errors.New("bad signature")
	ErrUpstream       = errors.New("upstream service failed")
	ErrRateLimited    = errors.New("rate limited")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
