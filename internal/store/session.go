package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// SessionStore persists issued sessions so tokens can be revoked before
// they expire.
type SessionStore interface {
	// Create inserts a session for userID identified by tokenHash and
	// returns the stored row with its assigned ID and CreatedAt.
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error)

	// GetByTokenHash returns the live session with the given digest.
	// Returns ErrSessionNotFound when there is no match or the match has expired.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes every session whose expiry has passed and
	// returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)

	// WithTx returns a SessionStore bound to tx.
	WithTx(tx *sql.Tx) SessionStore
}
