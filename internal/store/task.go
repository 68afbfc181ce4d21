package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines persistence for tasks. Every method is scoped to an
// owner: a task belonging to someone else is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create inserts a task. ID, owner and timestamps are taken from task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves an owned task.
	// Returns ErrTaskNotFound if it does not exist.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// GetByIDForUpdate is GetByID with the row locked until the enclosing
	// transaction ends, where the engine supports row locks.
	GetByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns one page of owned tasks matching q.Filter in q's order.
	// q must already be normalized.
	List(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]domain.Task, error)

	// Count returns the number of owned tasks matching filter.
	Count(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) (int64, error)

	// ListAll returns every owned task, newest first.
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error)

	// Update writes only the fields supplied in patch plus updatedAt.
	// Returns ErrTaskNotFound if no owned row matched.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) error

	// Delete removes an owned task.
	// Returns ErrTaskNotFound if no row was removed.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
