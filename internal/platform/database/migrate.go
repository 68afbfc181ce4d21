package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"

	"github.com/phrazzld/tasks-api/internal/sqlbuilder"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// MigrationTableName is the table goose records applied versions in.
const MigrationTableName = "schema_migrations"

// Migration commands accepted by Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
	MigrateReset   = "reset"
)

// slogGooseLogger adapts the goose logger interface to use slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger without exiting; errors are returned to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func gooseDialect(d sqlbuilder.Dialect) (goose.Dialect, error) {
	switch d {
	case sqlbuilder.Postgres:
		return goose.DialectPostgres, nil
	case sqlbuilder.MySQL:
		return goose.DialectMySQL, nil
	case sqlbuilder.SQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("no migrations for dialect %q", d.Name())
	}
}

// NewMigrator returns a goose provider over the embedded migrations for d.
func NewMigrator(db *sql.DB, d sqlbuilder.Dialect, logger *slog.Logger) (*goose.Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect, err := gooseDialect(d)
	if err != nil {
		return nil, err
	}

	fsys, err := fs.Sub(migrations, "migrations/"+d.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	versions, err := goosedb.NewStore(dialect, MigrationTableName)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration store: %w", err)
	}

	return goose.NewProvider("", db, fsys,
		goose.WithStore(versions),
		goose.WithVerbose(true),
		goose.WithLogger(&slogGooseLogger{logger: logger.With(slog.String("component", "migrations"))}),
	)
}

// Migrate runs a migration command against db.
func Migrate(ctx context.Context, db *sql.DB, d sqlbuilder.Dialect, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "migrations"), slog.String("command", command))

	provider, err := NewMigrator(db, d, logger)
	if err != nil {
		return err
	}

	switch command {
	case MigrateUp:
		results, err := provider.Up(ctx)
		logResults(log, results)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case MigrateDown:
		result, err := provider.Down(ctx)
		if err != nil {
			if errors.Is(err, goose.ErrNoNextVersion) {
				log.Info("no migrations to roll back")
				return nil
			}
			return fmt.Errorf("migrate down: %w", err)
		}
		logResults(log, []*goose.MigrationResult{result})
	case MigrateReset:
		results, err := provider.DownTo(ctx, 0)
		logResults(log, results)
		if err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
			return fmt.Errorf("migrate reset: %w", err)
		}
	case MigrateStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			log.Info("migration status",
				slog.Int64("version", s.Source.Version),
				slog.String("state", string(s.State)),
				slog.Time("applied_at", s.AppliedAt))
		}
	case MigrateVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migrate version: %w", err)
		}
		log.Info("current migration version", slog.Int64("version", version))
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	return nil
}

func logResults(log *slog.Logger, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil {
			continue
		}
		log.Info("migration applied",
			slog.String("result", r.String()),
			slog.Int64("duration_ms", r.Duration.Milliseconds()))
	}
}
