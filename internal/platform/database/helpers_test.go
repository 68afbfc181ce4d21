package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/database"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/require"
)

// createTestUser inserts a user with a unique email and returns it.
func createTestUser(t *testing.T, db *testdb.DB) *domain.User {
	t.Helper()

	user := domain.NewUser(
		"user-"+uuid.NewString()+"@example.com",
		"$2a$10$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ01234",
		time.Now(),
	)
	err := database.NewSQLUserStore(db.DB, db.Dialect, nil).Create(context.Background(), user)
	require.NoError(t, err, "failed to create test user")
	return user
}

// createTestTask inserts a task for userID with the given title and times.
func createTestTask(t *testing.T, db *testdb.DB, userID uuid.UUID, title string, at time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title, at)
	require.NoError(t, err)
	err = database.NewSQLTaskStore(db.DB, db.Dialect, nil).Create(context.Background(), task)
	require.NoError(t, err, "failed to create test task")
	return task
}
