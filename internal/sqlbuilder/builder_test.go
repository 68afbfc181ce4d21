package sqlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tasks     Table  = "tasks"
	colID     Column = "id"
	colTitle  Column = "title"
	colDone   Column = "completed"
	colUserID Column = "user_id"
	colCreate Column = "created_at"
)

func TestDialectFor(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"postgres", "mysql", "sqlite"} {
		d, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}

	_, err := DialectFor("oracle")
	assert.Error(t, err)

	assert.True(t, Postgres.SupportsRowLock())
	assert.True(t, MySQL.SupportsRowLock())
	assert.False(t, SQLite.SupportsRowLock())
}

func TestSelectBuild(t *testing.T) {
	t.Parallel()

	base := func(d Dialect) SelectBuilder {
		return d.Select(tasks, colID, colTitle).
			Where(Eq(colUserID, "u1")).
			Where(Contains(colTitle, "Rust")).
			Where(Eq(colDone, false))
	}

	tests := []struct {
		name     string
		query    SelectBuilder
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "postgres page",
			query:    base(Postgres).OrderBy(colCreate, Desc).Limit(20).Offset(40),
			wantSQL:  "SELECT id, title FROM tasks WHERE user_id = $1 AND title LIKE $2 ESCAPE '!' AND completed = $3 ORDER BY created_at DESC LIMIT $4 OFFSET $5",
			wantArgs: []any{"u1", "%Rust%", false, 20, 40},
		},
		{
			name:     "mysql page",
			query:    base(MySQL).OrderBy(colTitle, Asc).Limit(5).Offset(0),
			wantSQL:  "SELECT id, title FROM tasks WHERE user_id = ? AND title LIKE ? ESCAPE '!' AND completed = ? ORDER BY title ASC LIMIT ? OFFSET ?",
			wantArgs: []any{"u1", "%Rust%", false, 5, 0},
		},
		{
			name:     "count drops order and paging",
			query:    base(Postgres).OrderBy(colCreate, Desc).Limit(20).Offset(40).ForUpdate().Count(),
			wantSQL:  "SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND title LIKE $2 ESCAPE '!' AND completed = $3",
			wantArgs: []any{"u1", "%Rust%", false},
		},
		{
			name:     "postgres row lock",
			query:    Postgres.Select(tasks, colID).Where(Eq(colID, 7)).ForUpdate(),
			wantSQL:  "SELECT id FROM tasks WHERE id = $1 FOR UPDATE",
			wantArgs: []any{7},
		},
		{
			name:     "sqlite ignores row lock",
			query:    SQLite.Select(tasks, colID).Where(Eq(colID, 7)).ForUpdate(),
			wantSQL:  "SELECT id FROM tasks WHERE id = ?",
			wantArgs: []any{7},
		},
		{
			name:    "no conditions",
			query:   SQLite.Select(tasks, colID, colTitle).OrderBy(colCreate, Desc).OrderBy(colID, Asc),
			wantSQL: "SELECT id, title FROM tasks ORDER BY created_at DESC, id ASC",
		},
		{
			name:     "offset without limit",
			query:    MySQL.Select(tasks, colID).Offset(3),
			wantSQL:  "SELECT id FROM tasks LIMIT 9223372036854775807 OFFSET ?",
			wantArgs: []any{3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sql, args := tc.query.Build()
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestSelectIsImmutable(t *testing.T) {
	t.Parallel()

	base := Postgres.Select(tasks, colID).Where(Eq(colUserID, "u1"))
	a := base.Where(Eq(colDone, true))
	b := base.Where(Contains(colTitle, "x"))

	baseSQL, baseArgs := base.Build()
	aSQL, _ := a.Build()
	bSQL, bArgs := b.Build()

	assert.Equal(t, "SELECT id FROM tasks WHERE user_id = $1", baseSQL)
	assert.Equal(t, []any{"u1"}, baseArgs)
	assert.Equal(t, "SELECT id FROM tasks WHERE user_id = $1 AND completed = $2", aSQL)
	assert.Equal(t, "SELECT id FROM tasks WHERE user_id = $1 AND title LIKE $2 ESCAPE '!'", bSQL)
	assert.Equal(t, []any{"u1", "%x%"}, bArgs)
}

func TestUserInputStaysInArguments(t *testing.T) {
	t.Parallel()

	hostile := "'; DROP TABLE tasks; --"
	sql, args := MySQL.Select(tasks, colID).Where(Contains(colTitle, hostile)).Build()

	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{"%'; DROP TABLE tasks; --%"}, args)
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"plain":    "plain",
		"50%":      "50!%",
		"snake_it": "snake!_it",
		"wow!":     "wow!!",
		"é_%!":     "é!_!%!!",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, EscapeLike(in), "input %q", in)
	}
}

func TestInsertBuild(t *testing.T) {
	t.Parallel()

	sql, args, err := Postgres.Insert(tasks).
		Set(colID, "t1").
		Set(colTitle, "Buy milk").
		Set(colDone, false).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO tasks (id, title, completed) VALUES ($1, $2, $3)", sql)
	assert.Equal(t, []any{"t1", "Buy milk", false}, args)

	_, _, err = SQLite.Insert(tasks).Build()
	assert.ErrorIs(t, err, ErrNoAssignments)
}

func TestUpdateBuild(t *testing.T) {
	t.Parallel()

	t.Run("only supplied columns", func(t *testing.T) {
		t.Parallel()

		sql, args, err := MySQL.Update(tasks).
			Set(colDone, true).
			Set("updated_at", "now").
			Where(Eq(colID, "t1")).
			Where(Eq(colUserID, "u1")).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ? AND user_id = ?", sql)
		assert.Equal(t, []any{true, "now", "t1", "u1"}, args)
	})

	t.Run("numbered placeholders continue into where", func(t *testing.T) {
		t.Parallel()

		sql, _, err := Postgres.Update(tasks).Set(colTitle, "x").Where(Eq(colID, "t1")).Build()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE tasks SET title = $1 WHERE id = $2", sql)
	})

	t.Run("no assignments", func(t *testing.T) {
		t.Parallel()

		_, _, err := Postgres.Update(tasks).Where(Eq(colID, "t1")).Build()
		assert.ErrorIs(t, err, ErrNoAssignments)
	})
}

func TestDeleteBuild(t *testing.T) {
	t.Parallel()

	sql, args := Postgres.Delete("sessions").Where(Lte("expires_at", 10)).Build()
	assert.Equal(t, "DELETE FROM sessions WHERE expires_at <= $1", sql)
	assert.Equal(t, []any{10}, args)

	sql, args = SQLite.Delete(tasks).Where(Eq(colID, "t1")).Where(Gt("created_at", 1)).Build()
	assert.Equal(t, "DELETE FROM tasks WHERE id = ? AND created_at > ?", sql)
	assert.Equal(t, []any{"t1", 1}, args)
}
