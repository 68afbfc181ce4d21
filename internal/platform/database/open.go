package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/sqlbuilder"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqliteParams are appended to every SQLite DSN. Writers take the lock at
// BEGIN, which is how read-modify-write transactions are serialised without
// row locks.
var sqliteParams = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_txlock=immediate",
	"_time_format=sqlite",
}

// Open opens and verifies a connection pool for cfg and returns it with the
// matching SQL dialect. The caller owns the pool.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, sqlbuilder.Dialect, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect, err := sqlbuilder.DialectFor(cfg.Driver)
	if err != nil {
		return nil, sqlbuilder.Dialect{}, err
	}

	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, sqlbuilder.Dialect{}, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, sqlbuilder.Dialect{}, fmt.Errorf("failed to open database connection: %w", err)
	}

	configurePool(db, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, sqlbuilder.Dialect{}, fmt.Errorf("failed to ping database: %w", MapError(err))
	}

	logger.Info("database connection established",
		slog.String("driver", cfg.Driver),
		slog.Int("max_open_conns", db.Stats().MaxOpenConnections))
	return db, dialect, nil
}

func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	if cfg.Driver == sqlbuilder.SQLite.Name() && isMemoryDSN(cfg.URL) {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
		return
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime())
}

// dataSource returns the database/sql driver name and DSN for cfg.
func dataSource(cfg config.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case sqlbuilder.Postgres.Name():
		return "pgx", cfg.URL, nil
	case sqlbuilder.MySQL.Name():
		dsn, err := mysqlDSN(cfg.URL, cfg.ConnectTimeout())
		if err != nil {
			return "", "", err
		}
		return "mysql", dsn, nil
	case sqlbuilder.SQLite.Name():
		return "sqlite", sqliteDSN(cfg.URL), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// mysqlDSN accepts a go-sql-driver DSN, optionally prefixed with mysql://,
// and forces UTC time parsing.
func mysqlDSN(raw string, connectTimeout time.Duration) (string, error) {
	raw = strings.TrimPrefix(raw, "mysql://")
	mc, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	// Report matched rather than changed rows so updates of identical values
	// are not mistaken for missing rows.
	mc.ClientFoundRows = true
	if mc.Timeout == 0 {
		mc.Timeout = connectTimeout
	}
	return mc.FormatDSN(), nil
}

func sqliteDSN(raw string) string {
	raw = strings.TrimPrefix(raw, "sqlite://")
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + strings.Join(sqliteParams, "&")
}

func isMemoryDSN(raw string) bool {
	if strings.Contains(raw, ":memory:") {
		return true
	}
	if i := strings.Index(raw, "?"); i >= 0 {
		q, err := url.ParseQuery(raw[i+1:])
		return err == nil && q.Get("mode") == "memory"
	}
	return false
}
