package database

import "github.com/phrazzld/tasks-api/internal/sqlbuilder"

// Tables and columns. These are the only identifiers that reach SQL text.
const (
	usersTable    sqlbuilder.Table = "users"
	sessionsTable sqlbuilder.Table = "sessions"
	tasksTable    sqlbuilder.Table = "tasks"

	colID           sqlbuilder.Column = "id"
	colEmail        sqlbuilder.Column = "email"
	colPasswordHash sqlbuilder.Column = "password_hash"
	colUserID       sqlbuilder.Column = "user_id"
	colTokenHash    sqlbuilder.Column = "token_hash"
	colExpiresAt    sqlbuilder.Column = "expires_at"
	colTitle        sqlbuilder.Column = "title"
	colCompleted    sqlbuilder.Column = "completed"
	colCreatedAt    sqlbuilder.Column = "created_at"
	colUpdatedAt    sqlbuilder.Column = "updated_at"
)

var (
	userColumns    = []sqlbuilder.Column{colID, colEmail, colPasswordHash, colCreatedAt, colUpdatedAt}
	sessionColumns = []sqlbuilder.Column{colID, colUserID, colTokenHash, colExpiresAt, colCreatedAt}
	taskColumns    = []sqlbuilder.Column{colID, colTitle, colCompleted, colUserID, colCreatedAt, colUpdatedAt}
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
