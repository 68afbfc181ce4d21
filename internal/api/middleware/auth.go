package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/redact"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// unauthorizedMessage is the only message clients see for any failed
// authentication, so malformed, expired and revoked tokens are
// indistinguishable.
const unauthorizedMessage = "Unauthorized"

// SessionResolver checks that validated token claims are backed by a live
// session. service.AuthService satisfies it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, claims *auth.Claims) (*service.Principal, error)
}

// AuthMiddleware authenticates requests with a bearer token in two steps:
// the token's signature and expiry are verified without I/O, then the
// session it names is looked up. The first failure ends the request.
// A database failure during the lookup is reported as such (503 or 500),
// never as a 401.
type AuthMiddleware struct {
	jwtService auth.JWTService
	sessions   SessionResolver
	logger     *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(jwtService auth.JWTService, sessions SessionResolver, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate rejects the request with 401 unless it carries a valid token
// for a live session, and otherwise stores the user and session IDs in the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			m.reject(w, r, auth.ErrMissingToken)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			m.reject(w, r, err)
			return
		}

		principal, err := m.sessions.ResolveSession(r.Context(), claims)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrSessionInvalid):
			m.reject(w, r, err)
			return
		case errors.Is(err, store.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"Service temporarily unavailable, please retry", err)
			return
		default:
			log.Error("session lookup failed", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}

		ctx := shared.WithPrincipal(r.Context(), principal.UserID, principal.SessionID)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", principal.UserID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, unauthorizedMessage, err,
		shared.WithElevatedLogLevel())
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme must be spelled exactly "Bearer".
func bearerToken(header string) (string, bool) {
	rest, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token := strings.TrimSpace(rest)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// GetUserID returns the authenticated user ID stored by Authenticate.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
