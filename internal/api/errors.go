package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Client-facing messages that several error kinds share.
const (
	msgUnauthorized       = "Unauthorized"
	msgInvalidCredentials = "Invalid credentials"
	msgNotFound           = "Resource not found"
	msgNoFieldsToUpdate   = "No fields to update"
	msgUnavailable        = "Service temporarily unavailable, please retry"
	msgInternal           = "Internal server error"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// handlers never expose internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Request body problems
	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, shared.ErrMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrInvalidPayload),
		errors.Is(err, domain.ErrNoFieldsToUpdate):
		return http.StatusUnprocessableEntity

	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Retryable: pool starvation or a slow query
	case errors.Is(err, store.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. Validation
// messages are written for clients and passed through; everything else
// gets a fixed message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgInternal
	}

	var payloadErr *shared.PayloadError
	if errors.As(err, &payloadErr) {
		return payloadErr.Message
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) && validationErr.Message != "" {
		return validationErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrNoFieldsToUpdate):
		return msgNoFieldsToUpdate
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, store.ErrEmailExists), errors.Is(err, domain.ErrEmailExists):
		return "User with this email already exists"
	case errors.Is(err, store.ErrInvalidEntity), errors.Is(err, domain.ErrValidation):
		return "Invalid request data"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return msgInvalidCredentials
	case MapErrorToStatusCode(err) == http.StatusUnauthorized:
		return msgUnauthorized
	case errors.Is(err, store.ErrNotFound):
		return msgNotFound
	case MapErrorToStatusCode(err) == http.StatusServiceUnavailable:
		return msgUnavailable
	default:
		return msgInternal
	}
}

// HandleAPIError writes the error response for err. message overrides the
// safe message when non-empty. Authentication failures are logged at WARN.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
