package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/database"
)

// migrationCommands lists the verbs accepted by -migrate.
var migrationCommands = map[string]bool{
	database.MigrateUp:      true,
	database.MigrateDown:    true,
	database.MigrateStatus:  true,
	database.MigrateVersion: true,
	database.MigrateReset:   true,
}

// handleMigrations runs a single migration command against the configured
// database and closes the connection. auto_migrate is ignored here.
func handleMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unknown migration command %q", command)
	}

	logger.Info("executing migrations", slog.String("command", command))

	db, dialect, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()

	if err := database.Migrate(ctx, db, dialect, command, logger); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}
