package service

import (
	"fmt"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
var (
	// ErrSessionInvalid is returned when a well-signed token has no live
	// session behind it: the session was revoked, has expired, or belongs to
	// a different token.
	ErrSessionInvalid = fmt.Errorf("%w: session is no longer valid", domain.ErrUnauthorized)
)

// ServiceError records which service operation failed. It unwraps to the
// underlying cause so callers can still test for store and domain errors.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
