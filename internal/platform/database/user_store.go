package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/sqlbuilder"
	"github.com/phrazzld/tasks-api/internal/store"
)

// SQLUserStore implements the store.UserStore interface on database/sql.
type SQLUserStore struct {
	db      store.DBTX
	dialect sqlbuilder.Dialect
	logger  *slog.Logger
}

// NewSQLUserStore creates a UserStore over db using dialect.
// If logger is nil, a default logger will be used.
func NewSQLUserStore(db store.DBTX, dialect sqlbuilder.Dialect, logger *slog.Logger) *SQLUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLUserStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "user_store")),
	}
}

// Ensure SQLUserStore implements store.UserStore interface
var _ store.UserStore = (*SQLUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *SQLUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &SQLUserStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *SQLUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.dialect.Insert(usersTable).
		Set(colID, user.ID).
		Set(colEmail, user.Email).
		Set(colPasswordHash, user.HashedPassword).
		Set(colCreatedAt, dbTime(user.CreatedAt)).
		Set(colUpdatedAt, dbTime(user.UpdatedAt)).
		Build()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return fmt.Errorf("%w: %w", store.ErrEmailExists, err)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "failed to insert user", mapped)
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *SQLUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query, args := s.dialect.Select(usersTable, userColumns...).Where(sqlbuilder.Eq(colID, id)).Build()
	return s.getOne(ctx, "get_by_id", query, args)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *SQLUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query, args := s.dialect.Select(usersTable, userColumns...).
		Where(sqlbuilder.Eq(colEmail, domain.NormalizeEmail(email))).
		Build()
	return s.getOne(ctx, "get_by_email", query, args)
}

func (s *SQLUserStore) getOne(ctx context.Context, op, query string, args []any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", op, "failed to query user", MapError(err))
	}
	return user, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

// dbTime normalizes a timestamp to the precision every supported engine stores.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
