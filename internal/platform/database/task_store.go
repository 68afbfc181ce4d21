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

// sortColumns is the ORDER BY whitelist.
var sortColumns = map[domain.SortField]sqlbuilder.Column{
	domain.SortByCreatedAt: colCreatedAt,
	domain.SortByUpdatedAt: colUpdatedAt,
	domain.SortByTitle:     colTitle,
	domain.SortByCompleted: colCompleted,
}

// SQLTaskStore implements store.TaskStore on database/sql.
type SQLTaskStore struct {
	db      store.DBTX
	dialect sqlbuilder.Dialect
	logger  *slog.Logger
}

// NewSQLTaskStore creates a TaskStore over db using dialect.
// If logger is nil, a default logger will be used.
func NewSQLTaskStore(db store.DBTX, dialect sqlbuilder.Dialect, logger *slog.Logger) *SQLTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLTaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// Ensure SQLTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*SQLTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *SQLTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &SQLTaskStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.TaskStore.Create
func (s *SQLTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.dialect.Insert(tasksTable).
		Set(colID, task.ID).
		Set(colTitle, task.Title).
		Set(colCompleted, task.Completed).
		Set(colUserID, task.UserID).
		Set(colCreatedAt, dbTime(task.CreatedAt)).
		Set(colUpdatedAt, dbTime(task.UpdatedAt)).
		Build()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *SQLTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	return s.get(ctx, s.byID(ownerID, id))
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
func (s *SQLTaskStore) GetByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	return s.get(ctx, s.byID(ownerID, id).ForUpdate())
}

func (s *SQLTaskStore) byID(ownerID, id uuid.UUID) sqlbuilder.SelectBuilder {
	return s.dialect.Select(tasksTable, taskColumns...).
		Where(sqlbuilder.Eq(colID, id)).
		Where(sqlbuilder.Eq(colUserID, ownerID))
}

func (s *SQLTaskStore) get(ctx context.Context, q sqlbuilder.SelectBuilder) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := q.Build()
	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}
	return task, nil
}

// filtered returns the owner-scoped predicate shared by List and Count.
func (s *SQLTaskStore) filtered(ownerID uuid.UUID, filter domain.TaskFilter) sqlbuilder.SelectBuilder {
	q := s.dialect.Select(tasksTable, taskColumns...).Where(sqlbuilder.Eq(colUserID, ownerID))
	if filter.Search != "" {
		q = q.Where(sqlbuilder.Contains(colTitle, filter.Search))
	}
	if completed := filter.Status.Completed(); completed != nil {
		q = q.Where(sqlbuilder.Eq(colCompleted, *completed))
	}
	return q
}

// List implements store.TaskStore.List
func (s *SQLTaskStore) List(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]domain.Task, error) {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = colCreatedAt
	}
	dir := sqlbuilder.Desc
	if q.SortOrder == domain.SortAsc {
		dir = sqlbuilder.Asc
	}

	query, args := s.filtered(ownerID, q.Filter).
		OrderBy(col, dir).
		OrderBy(colID, sqlbuilder.Asc).
		Limit(q.PageSize).
		Offset(q.Offset()).
		Build()
	return s.list(ctx, "list", query, args)
}

// Count implements store.TaskStore.Count
func (s *SQLTaskStore) Count(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := s.filtered(ownerID, filter).Count().Build()

	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "count", "failed to count tasks", MapError(err))
	}
	return total, nil
}

// ListAll implements store.TaskStore.ListAll
func (s *SQLTaskStore) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error) {
	query, args := s.dialect.Select(tasksTable, taskColumns...).
		Where(sqlbuilder.Eq(colUserID, ownerID)).
		OrderBy(colCreatedAt, sqlbuilder.Desc).
		OrderBy(colID, sqlbuilder.Asc).
		Build()
	return s.list(ctx, "list_all", query, args)
}

func (s *SQLTaskStore) list(ctx context.Context, op, query string, args []any) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", op, "failed to scan task", MapError(err))
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", op, "failed to iterate tasks", MapError(err))
	}
	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *SQLTaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.TaskPatch,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		return domain.ErrNoFieldsToUpdate
	}

	b := s.dialect.Update(tasksTable)
	if patch.Title != nil {
		b = b.Set(colTitle, *patch.Title)
	}
	if patch.Completed != nil {
		b = b.Set(colCompleted, *patch.Completed)
	}
	query, args, err := b.Set(colUpdatedAt, dbTime(updatedAt)).
		Where(sqlbuilder.Eq(colID, id)).
		Where(sqlbuilder.Eq(colUserID, ownerID)).
		Build()
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task updated", slog.String("task_id", id.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *SQLTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := s.dialect.Delete(tasksTable).
		Where(sqlbuilder.Eq(colID, id)).
		Where(sqlbuilder.Eq(colUserID, ownerID)).
		Build()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task deleted", slog.String("task_id", id.String()))
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
