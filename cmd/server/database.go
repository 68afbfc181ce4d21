package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/database"
	"github.com/phrazzld/tasks-api/internal/sqlbuilder"
)

// setupAppDatabase opens the connection pool and, when auto_migrate is set,
// applies pending migrations before the server accepts traffic.
func setupAppDatabase(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*sql.DB, sqlbuilder.Dialect, error) {
	db, dialect, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, sqlbuilder.Dialect{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, dialect, database.MigrateUp, logger); err != nil {
			_ = db.Close()
			return nil, sqlbuilder.Dialect{}, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return db, dialect, nil
}
