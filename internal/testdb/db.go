package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/database"
	"github.com/phrazzld/tasks-api/internal/sqlbuilder"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// Environment variables selecting an external test database.
const (
	DriverEnv = "TEST_DATABASE_DRIVER"
	URLEnv    = "TEST_DATABASE_URL"
)

// DB is a migrated test database and its dialect.
type DB struct {
	*sql.DB
	Dialect sqlbuilder.Dialect
}

// IsIntegrationTestEnvironment reports whether an external database is configured.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv(DriverEnv) != "" && os.Getenv(URLEnv) != ""
}

// Config returns the database configuration tests should use.
func Config() config.DatabaseConfig {
	cfg := config.DatabaseConfig{
		Driver:                 "sqlite",
		URL:                    ":memory:",
		MaxOpenConns:           10,
		MaxIdleConns:           5,
		ConnMaxLifetimeMinutes: 5,
		ConnectTimeoutSeconds:  int(TestTimeout / time.Second),
		QueryTimeoutSeconds:    int(TestTimeout / time.Second),
		AutoMigrate:            true,
	}
	if IsIntegrationTestEnvironment() {
		cfg.Driver = os.Getenv(DriverEnv)
		cfg.URL = os.Getenv(URLEnv)
	}
	return cfg
}

// Open returns a migrated database that is closed when the test ends.
func Open(t *testing.T) *DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, dialect, err := database.Open(ctx, Config(), logger)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	err = database.Migrate(ctx, db, dialect, database.MigrateUp, logger)
	require.NoError(t, err, "failed to run migrations")

	return &DB{DB: db, Dialect: dialect}
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
