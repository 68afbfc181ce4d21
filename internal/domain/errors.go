package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrNoFieldsToUpdate is returned when a partial update carries no fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrInvalidCredentials is returned for any failed login. The message is
	// shared by unknown emails and wrong passwords.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)

// ValidationError describes a single field that failed validation.
// It matches ErrValidation with errors.Is and, when set, the more
// specific rule error held in Err.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field with a client-facing message.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports ErrValidation as a match so callers can test the category.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap returns the rule error, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
