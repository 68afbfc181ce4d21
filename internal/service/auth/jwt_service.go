package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// JWTService defines operations for managing signed session tokens.
type JWTService interface {
	// IssueToken signs a token bound to session. The token's subject is the
	// session's user, its ID is the session ID, and it expires with the session.
	// The session secret travels inside the token so the session row can be
	// found again from the token alone.
	IssueToken(ctx context.Context, session *domain.Session, sessionSecret string) (string, error)

	// ValidateToken verifies the signature and expiry of tokenString and
	// returns its claims. It performs no I/O.
	// Returns ErrExpiredToken or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime is how long issued tokens, and their sessions, stay valid.
	TokenLifetime() time.Duration
}

// Claims is the validated content of a session token.
type Claims struct {
	// UserID is the user the token was issued for (the "sub" claim).
	UserID uuid.UUID

	// SessionID identifies the backing session row (the "jti" claim).
	SessionID uuid.UUID

	// SessionSecret is the opaque secret whose digest keys the session row.
	SessionSecret string

	IssuedAt  time.Time
	ExpiresAt time.Time
}
