package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore is a mock of store.TaskStore for use with testify/mock.
// WithTx returns the same mock so expectations cover transactional calls.
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByIDForUpdate is a mock implementation of store.TaskStore.GetByIDForUpdate
func (m *MockTaskStore) GetByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.TaskStore.List
func (m *MockTaskStore) List(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID, q)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Count is a mock implementation of store.TaskStore.Count
func (m *MockTaskStore) Count(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// ListAll is a mock implementation of store.TaskStore.ListAll
func (m *MockTaskStore) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *MockTaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.TaskPatch,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, ownerID, id, patch, updatedAt)
	return args.Error(0)
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// WithTx is a mock implementation of store.TaskStore.WithTx
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
