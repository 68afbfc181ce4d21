// Package database implements the store interfaces on database/sql.
//
// One implementation serves PostgreSQL (pgx), MySQL (go-sql-driver) and
// SQLite (modernc.org/sqlite). Statements are assembled with
// internal/sqlbuilder for the configured dialect, schema changes are
// embedded goose migrations, and driver errors are mapped to the store
// error taxonomy by MapError.
package database
