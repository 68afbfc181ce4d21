package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	logs, log := logger.NewTestLogger(t)
	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	})

	handler := chimw.RequestID(NewTraceMiddleware(log)(next))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, traceID, 32)
	assert.Equal(t, traceID, rr.Header().Get(shared.TraceIDHeader))

	entries, err := logs.GetLogEntries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.Equal(t, traceID, entry["trace_id"])
		assert.NotEmpty(t, entry["request_id"])
	}
}

func TestTraceMiddlewareUniquePerRequest(t *testing.T) {
	t.Parallel()

	handler := NewTraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		seen[rr.Header().Get(shared.TraceIDHeader)] = struct{}{}
	}
	assert.Len(t, seen, 20)
}
