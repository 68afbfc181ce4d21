package service_test

import (
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/platform/database"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	db       *testdb.DB
	svc      *service.AuthServiceImpl
	tokens   auth.JWTService
	sessions *database.SQLSessionStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := testdb.Open(t)
	cfg := auth.DefaultTestConfig()
	tokens := auth.RequireTestJWTService(t)
	sessions := database.NewSQLSessionStore(db.DB, db.Dialect, nil)

	svc, err := service.NewAuthService(
		db.DB,
		database.NewSQLUserStore(db.DB, db.Dialect, nil),
		sessions,
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		auth.NewHMACDigester([]byte(cfg.JWTSecret)),
		testdb.TestTimeout,
		nil,
	)
	require.NoError(t, err)

	return &authFixture{db: db, svc: svc, tokens: tokens, sessions: sessions}
}

func newTaskService(t *testing.T, db *testdb.DB) *service.TaskServiceImpl {
	t.Helper()

	svc, err := service.NewTaskService(db.DB, database.NewSQLTaskStore(db.DB, db.Dialect, nil), 5*time.Second, nil)
	require.NoError(t, err)
	return svc
}

func ptr[T any](v T) *T { return &v }
