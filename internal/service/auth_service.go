package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// AuthService provides registration, login and session management.
type AuthService interface {
	// Register validates the credentials, creates the user and a first
	// session in one transaction, and returns a signed token for it.
	Register(ctx context.Context, email, password string) (*AuthResult, error)

	// Login verifies the credentials and opens a new session. Existing
	// sessions of the user stay valid. Unknown emails and wrong passwords
	// both fail with domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Logout revokes a single session.
	Logout(ctx context.Context, sessionID uuid.UUID) error

	// Profile returns the authenticated user's account.
	Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// ResolveSession checks that validated token claims are backed by a live
	// session row and returns the caller. It fails with ErrSessionInvalid
	// otherwise.
	ResolveSession(ctx context.Context, claims *auth.Claims) (*Principal, error)
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	db           *sql.DB
	users        store.UserStore
	sessions     store.SessionStore
	hasher       auth.PasswordHasher
	tokens       auth.JWTService
	digester     auth.SessionDigester
	queryTimeout time.Duration
	timeFunc     func() time.Time
	logger       *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

var _ AuthService = (*AuthServiceImpl)(nil)

// NewAuthService creates a new AuthService. queryTimeout bounds every
// database round trip; zero disables the bound.
func NewAuthService(
	db *sql.DB,
	users store.UserStore,
	sessions store.SessionStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	digester auth.SessionDigester,
	queryTimeout time.Duration,
	logger *slog.Logger,
) (*AuthServiceImpl, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if users == nil || sessions == nil {
		return nil, fmt.Errorf("user and session stores cannot be nil")
	}
	if hasher == nil || tokens == nil || digester == nil {
		return nil, fmt.Errorf("hasher, token service and digester cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthServiceImpl{
		db:           db,
		users:        users,
		sessions:     sessions,
		hasher:       hasher,
		tokens:       tokens,
		digester:     digester,
		queryTimeout: queryTimeout,
		timeFunc:     time.Now,
		logger:       logger.With(slog.String("component", "auth_service")),
	}, nil
}

// WithTimeFunc replaces the service clock. Used in tests.
func (s *AuthServiceImpl) WithTimeFunc(fn func() time.Time) *AuthServiceImpl {
	s.timeFunc = fn
	return s
}

func (s *AuthServiceImpl) now() time.Time {
	return s.timeFunc().UTC().Truncate(time.Microsecond)
}

// Register implements AuthService.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	// Fail fast on a taken email before paying for a bcrypt hash. The unique
	// index still decides races.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		log.Debug("registration with existing email")
		return nil, emailTaken()
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, NewServiceError("auth", "register", "failed to check email", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("auth", "register", "failed to hash password", err)
	}

	user := domain.NewUser(email, hashed, s.now())

	var token string
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		var err error
		token, err = s.openSession(ctx, s.sessions.WithTx(tx), user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration lost race for email")
			return nil, emailTaken()
		}
		log.Error("failed to register user", slog.String("error", err.Error()))
		return nil, NewServiceError("auth", "register", "failed to create account", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return &AuthResult{Token: token, User: user}, nil
}

func emailTaken() error {
	return domain.NewValidationError("email", "User with this email already exists", domain.ErrEmailExists)
}

// Login implements AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn the same bcrypt work as a real comparison.
			_ = s.hasher.Compare(s.dummyPasswordHash(), password)
			log.Debug("login failed", slog.String("reason", "unknown email"))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, NewServiceError("auth", "login", "failed to look up user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed",
			slog.String("reason", "password mismatch"),
			slog.String("user_id", user.ID.String()))
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, s.sessions, user.ID)
	if err != nil {
		log.Error("failed to open session",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, NewServiceError("auth", "login", "failed to open session", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &AuthResult{Token: token, User: user}, nil
}

// openSession stores a new session for userID and signs a token for it.
func (s *AuthServiceImpl) openSession(ctx context.Context, sessions store.SessionStore, userID uuid.UUID) (string, error) {
	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return "", err
	}

	// Token expiry is whole seconds, so the row's expiry is too.
	expiresAt := s.now().Add(s.tokens.TokenLifetime()).Truncate(time.Second)

	session, err := sessions.Create(ctx, userID, s.digester.Digest(secret), expiresAt)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueToken(ctx, session, secret)
}

func (s *AuthServiceImpl) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

// Logout implements AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return NewServiceError("auth", "logout", "failed to delete session", err)
	}

	log.Info("session revoked", slog.String("session_id", sessionID.String()))
	return nil
}

// Profile implements AuthService.
func (s *AuthServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrSessionInvalid, err)
		}
		return nil, NewServiceError("auth", "profile", "failed to load user", err)
	}
	return user, nil
}

// ResolveSession implements AuthService.
func (s *AuthServiceImpl) ResolveSession(ctx context.Context, claims *auth.Claims) (*Principal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if claims == nil || claims.SessionSecret == "" {
		return nil, ErrSessionInvalid
	}

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	session, err := s.sessions.GetByTokenHash(ctx, s.digester.Digest(claims.SessionSecret))
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			log.Debug("no live session for token", slog.String("session_id", claims.SessionID.String()))
			return nil, ErrSessionInvalid
		}
		return nil, NewServiceError("auth", "resolve_session", "failed to look up session", err)
	}

	if session.ID != claims.SessionID || session.UserID != claims.UserID {
		log.Warn("token claims do not match session",
			slog.String("session_id", claims.SessionID.String()),
			slog.String("user_id", claims.UserID.String()))
		return nil, ErrSessionInvalid
	}

	return &Principal{UserID: session.UserID, SessionID: session.ID}, nil
}
