package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record of one issued login. A bearer token is
// only honoured while its session row exists and has not expired.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session is no longer usable at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
