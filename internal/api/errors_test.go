package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"empty title", domain.NewValidationError("title", "Task title cannot be empty", domain.ErrEmptyTitle), http.StatusBadRequest},
		{"invalid id", domain.NewValidationError("id", "Invalid ID format", domain.ErrInvalidID), http.StatusBadRequest},
		{"bare invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"duplicate email from store", store.ErrEmailExists, http.StatusBadRequest},
		{"constraint violation", store.ErrInvalidEntity, http.StatusBadRequest},
		{"malformed body", &shared.PayloadError{Kind: shared.ErrMalformedBody, Message: "x"}, http.StatusBadRequest},
		{"missing field", &shared.PayloadError{Kind: shared.ErrInvalidPayload, Message: "x"}, http.StatusUnprocessableEntity},
		{"no fields to update", domain.ErrNoFieldsToUpdate, http.StatusUnprocessableEntity},
		{"wrapped no fields", fmt.Errorf("update: %w", domain.ErrNoFieldsToUpdate), http.StatusUnprocessableEntity},
		{"body too large", &shared.PayloadError{Kind: shared.ErrBodyTooLarge, Message: "x"}, http.StatusRequestEntityTooLarge},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked session", service.ErrSessionInvalid, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", fmt.Errorf("validate: %w", auth.ErrExpiredToken), http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"service wrapped not found", service.NewServiceError("task", "get", "failed", store.ErrTaskNotFound), http.StatusNotFound},
		{"store timeout", service.NewServiceError("task", "list", "failed", store.ErrTimeout), http.StatusServiceUnavailable},
		{"deadline exceeded", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"transaction failed", store.ErrTransactionFailed, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "Internal server error"},
		{"validation message passes through", domain.NewValidationError("title", "Task title cannot be empty", domain.ErrEmptyTitle), "Task title cannot be empty"},
		{"payload message passes through", &shared.PayloadError{Kind: shared.ErrInvalidPayload, Message: `Missing required field "title"`}, `Missing required field "title"`},
		{"no fields", domain.ErrNoFieldsToUpdate, "No fields to update"},
		{"credentials", domain.ErrInvalidCredentials, "Invalid credentials"},
		{"session", service.ErrSessionInvalid, "Unauthorized"},
		{"token", auth.ErrExpiredToken, "Unauthorized"},
		{"not found", store.ErrTaskNotFound, "Resource not found"},
		{"timeout", store.ErrTimeout, "Service temporarily unavailable, please retry"},
		{"duplicate email", store.ErrEmailExists, "User with this email already exists"},
		{"internal detail hidden", errors.New("pq: relation \"tasks\" does not exist"), "Internal server error"},
		{"wrapped internal detail hidden", service.NewServiceError("task", "create", "insert failed", errors.New("SELECT secret FROM x")), "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	t.Run("safe message and status", func(t *testing.T) {
		logs, log := logger.NewTestLogger(t)
		req := httptest.NewRequest(http.MethodGet, "/tasks/x", nil)
		req = req.WithContext(logger.WithLogger(req.Context(), log))
		rr := httptest.NewRecorder()

		cause := service.NewServiceError("task", "get", "query failed",
			errors.New("SELECT id FROM tasks WHERE user_id = 'u' at postgres://app:pw@db:5432"))
		HandleAPIError(rr, req, cause, "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())
		assert.NotContains(t, logs.String(), "app:pw")
		logger.AssertLogContains(t, logs, `"level":"ERROR"`)
	})

	t.Run("explicit message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		HandleAPIError(rr, req, store.ErrTaskNotFound, "Task not found")

		var body shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Task not found", body.Error)
	})

	t.Run("auth failures log at warn", func(t *testing.T) {
		logs, log := logger.NewTestLogger(t)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req = req.WithContext(logger.WithLogger(req.Context(), log))
		rr := httptest.NewRecorder()
		HandleAPIError(rr, req, domain.ErrInvalidCredentials, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		logger.AssertLogContains(t, logs, `"level":"WARN"`)
	})
}
