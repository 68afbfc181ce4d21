package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/sqlbuilder"
	"github.com/phrazzld/tasks-api/internal/store"
)

// SQLSessionStore implements store.SessionStore on database/sql.
type SQLSessionStore struct {
	db       store.DBTX
	dialect  sqlbuilder.Dialect
	logger   *slog.Logger
	timeFunc func() time.Time
}

// NewSQLSessionStore creates a SessionStore over db using dialect.
func NewSQLSessionStore(db store.DBTX, dialect sqlbuilder.Dialect, logger *slog.Logger) *SQLSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLSessionStore{
		db:       db,
		dialect:  dialect,
		logger:   logger.With(slog.String("component", "session_store")),
		timeFunc: time.Now,
	}
}

// WithTimeFunc returns a copy of the store that reads the current time from
// fn. Used in tests to control expiry.
func (s *SQLSessionStore) WithTimeFunc(fn func() time.Time) *SQLSessionStore {
	cp := *s
	cp.timeFunc = fn
	return &cp
}

var _ store.SessionStore = (*SQLSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *SQLSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	cp := *s
	cp.db = tx
	return &cp
}

func (s *SQLSessionStore) now() time.Time {
	return dbTime(s.timeFunc())
}

// Create implements store.SessionStore.Create
func (s *SQLSessionStore) Create(
	ctx context.Context,
	userID uuid.UUID,
	tokenHash string,
	expiresAt time.Time,
) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: dbTime(expiresAt),
		CreatedAt: s.now(),
	}

	query, args, err := s.dialect.Insert(sessionsTable).
		Set(colID, session.ID).
		Set(colUserID, session.UserID).
		Set(colTokenHash, session.TokenHash).
		Set(colExpiresAt, session.ExpiresAt).
		Set(colCreatedAt, session.CreatedAt).
		Build()
	if err != nil {
		return nil, err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("session", "create", "failed to insert session", MapError(err))
	}

	log.Debug("session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", userID.String()))
	return session, nil
}

// GetByTokenHash implements store.SessionStore.GetByTokenHash
func (s *SQLSessionStore) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := s.dialect.Select(sessionsTable, sessionColumns...).
		Where(sqlbuilder.Eq(colTokenHash, tokenHash)).
		Where(sqlbuilder.Gt(colExpiresAt, s.now())).
		Build()

	var sess domain.Session
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.TokenHash,
		&sess.ExpiresAt,
		&sess.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to look up session", slog.String("error", err.Error()))
		return nil, store.NewStoreError("session", "get_by_token_hash", "failed to query session", MapError(err))
	}

	sess.ExpiresAt = sess.ExpiresAt.UTC()
	sess.CreatedAt = sess.CreatedAt.UTC()
	return &sess, nil
}

// Delete implements store.SessionStore.Delete
func (s *SQLSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := s.dialect.Delete(sessionsTable).Where(sqlbuilder.Eq(colID, id)).Build()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return store.NewStoreError("session", "delete", "failed to delete session", MapError(err))
	}

	log.Debug("session deleted", slog.String("session_id", id.String()))
	return nil
}

// DeleteExpired implements store.SessionStore.DeleteExpired
func (s *SQLSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := s.dialect.Delete(sessionsTable).Where(sqlbuilder.Lte(colExpiresAt, s.now())).Build()
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to purge expired sessions", slog.String("error", err.Error()))
		return 0, store.NewStoreError("session", "delete_expired", "failed to purge sessions", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("session", "delete_expired", "failed to count purged sessions", err)
	}
	return n, nil
}
