package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// AuthHandler handles registration, login, logout and profile requests.
type AuthHandler struct {
	authService  service.AuthService
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Request bodies larger than
// maxBodyBytes are rejected with 413; zero disables the limit.
func NewAuthHandler(authService service.AuthService, maxBodyBytes int64, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}
	return &AuthHandler{
		authService:  authService,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if !parseAndValidateRequest(w, r, &req, h.maxBodyBytes) {
		return
	}

	result, err := h.authService.Register(r.Context(), *req.Email, *req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("user registered", slog.String("user_id", result.User.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  userToResponse(result.User),
	})
}

// Login handles POST /auth/login. Unknown emails and wrong passwords get
// the same 401 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !parseAndValidateRequest(w, r, &req, h.maxBodyBytes) {
		return
	}

	result, err := h.authService.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("user logged in", slog.String("user_id", result.User.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token: result.Token,
		User:  userToResponse(result.User),
	})
}

// Logout handles POST /auth/logout. Only the session behind the request
// token is revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := shared.SessionIDFromContext(r.Context())
	if !ok {
		log.Warn("session ID not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	if err := h.authService.Logout(r.Context(), sessionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session revoked", slog.String("session_id", sessionID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserIDFromContext(w, r, log)
	if !ok {
		return
	}

	user, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}
