package service

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
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskService provides task operations scoped to the owning user. A task
// owned by someone else is reported as store.ErrTaskNotFound.
type TaskService interface {
	// Create validates the title and stores a new pending task.
	Create(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error)

	// Get returns one task.
	Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// List returns one page of the user's tasks. The query is normalized
	// first, and the count and the page use the same filter.
	List(ctx context.Context, userID uuid.UUID, query domain.TaskQuery) (*domain.TaskPage, error)

	// ListAll returns every task of the user, newest first.
	ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)

	// Update applies a partial update under a row lock and returns the
	// merged task. An empty patch fails with domain.ErrNoFieldsToUpdate.
	Update(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task. Deleting a missing task fails with
	// store.ErrTaskNotFound.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	db           *sql.DB
	tasks        store.TaskStore
	queryTimeout time.Duration
	timeFunc     func() time.Time
	logger       *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService. queryTimeout bounds every
// database round trip; zero disables the bound.
func NewTaskService(db *sql.DB, tasks store.TaskStore, queryTimeout time.Duration, logger *slog.Logger) (*TaskServiceImpl, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskServiceImpl{
		db:           db,
		tasks:        tasks,
		queryTimeout: queryTimeout,
		timeFunc:     time.Now,
		logger:       logger.With(slog.String("component", "task_service")),
	}, nil
}

// WithTimeFunc replaces the service clock. Used in tests.
func (s *TaskServiceImpl) WithTimeFunc(fn func() time.Time) *TaskServiceImpl {
	s.timeFunc = fn
	return s
}

// Create implements TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, title, s.timeFunc().UTC().Truncate(time.Microsecond))
	if err != nil {
		return nil, err
	}

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, NewServiceError("task", "create", "failed to save task", err)
	}

	// The stored row is authoritative.
	created, err := s.tasks.GetByID(ctx, userID, task.ID)
	if err != nil {
		return nil, NewServiceError("task", "create", "failed to reload task", err)
	}

	log.Info("task created",
		slog.String("task_id", created.ID.String()),
		slog.String("user_id", userID.String()))
	return created, nil
}

// Get implements TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	task, err := s.tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, NewServiceError("task", "get", "failed to retrieve task", err)
	}
	return task, nil
}

// List implements TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, userID uuid.UUID, query domain.TaskQuery) (*domain.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	query = query.Normalize()

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	total, err := s.tasks.Count(ctx, userID, query.Filter)
	if err != nil {
		return nil, NewServiceError("task", "list", "failed to count tasks", err)
	}

	tasks, err := s.tasks.List(ctx, userID, query)
	if err != nil {
		return nil, NewServiceError("task", "list", "failed to list tasks", err)
	}

	log.Debug("tasks listed",
		slog.String("user_id", userID.String()),
		slog.Int("page", query.Page),
		slog.Int("page_size", query.PageSize),
		slog.Int64("total_items", total))

	return &domain.TaskPage{
		Data:       tasks,
		Pagination: domain.NewPagination(query.Page, query.PageSize, total),
	}, nil
}

// ListAll implements TaskService.
func (s *TaskServiceImpl) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	tasks, err := s.tasks.ListAll(ctx, userID)
	if err != nil {
		return nil, NewServiceError("task", "list_all", "failed to list tasks", err)
	}
	return tasks, nil
}

// Update implements TaskService.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch, err := patch.Normalize()
	if err != nil {
		return nil, err
	}

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	var updated *domain.Task
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		current, err := txTasks.GetByIDForUpdate(ctx, userID, taskID)
		if err != nil {
			return err
		}

		updatedAt := domain.NextUpdatedAt(current.UpdatedAt, s.timeFunc())
		if err := txTasks.Update(ctx, userID, taskID, patch, updatedAt); err != nil {
			return err
		}

		patch.Apply(current)
		current.UpdatedAt = updatedAt
		updated = current
		return nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID.String()))
		}
		return nil, NewServiceError("task", "update", "failed to update task", err)
	}

	log.Info("task updated", slog.String("task_id", taskID.String()))
	return updated, nil
}

// Delete implements TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := detach(ctx, s.queryTimeout)
	defer cancel()

	if err := s.tasks.Delete(ctx, userID, taskID); err != nil {
		return NewServiceError("task", "delete", "failed to delete task", err)
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	return nil
}
