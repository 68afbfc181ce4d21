package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// MockSessionStore implements store.SessionStore for testing. By default it
// keeps sessions in memory and compares expiry against time.Now.
type MockSessionStore struct {
	CreateFn         func(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.Session, error)
	GetByTokenHashFn func(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	DeleteExpiredFn  func(ctx context.Context) (int64, error)

	mu       sync.Mutex
	Sessions map[uuid.UUID]*domain.Session
}

var _ store.SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates an empty in-memory session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{Sessions: make(map[uuid.UUID]*domain.Session)}
}

// Create implements the SessionStore interface
func (m *MockSessionStore) Create(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
	expiresAt time.Time,
) (*domain.Session, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, userID, tokenHash, expiresAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.Sessions {
		if s.TokenHash == tokenHash {
			return nil, store.ErrDuplicate
		}
	}
	s := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	m.Sessions[s.ID] = s
	return s, nil
}

// GetByTokenHash implements the SessionStore interface
func (m *MockSessionStore) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	if m.GetByTokenHashFn != nil {
		return m.GetByTokenHashFn(ctx, tokenHash)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, s := range m.Sessions {
		if s.TokenHash == tokenHash && !s.IsExpired(now) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrSessionNotFound
}

// Delete implements the SessionStore interface
func (m *MockSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, id)
	return nil
}

// DeleteExpired implements the SessionStore interface
func (m *MockSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFn != nil {
		return m.DeleteExpiredFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var n int64
	for id, s := range m.Sessions {
		if s.IsExpired(now) {
			delete(m.Sessions, id)
			n++
		}
	}
	return n, nil
}

// WithTx implements the SessionStore interface. The mock ignores transactions.
func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}

// Len returns the number of stored sessions.
func (m *MockSessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sessions)
}
