// Package main implements the entry point for the tasks API server, which
// serves per-user task lists over JSON and HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		log.Printf("tasks-api: %v", err)
		os.Exit(1)
	}
}

// run loads configuration and either executes a migration command or serves
// HTTP until interrupted.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	appLogger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, appLogger, migrateCmd)
	}

	db, dialect, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger, db, dialect)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("failed to close database connection", slog.Any("error", closeErr))
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
