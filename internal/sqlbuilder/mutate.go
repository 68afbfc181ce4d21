package sqlbuilder

import (
	"errors"
	"slices"
)

// ErrNoAssignments is returned when an INSERT or UPDATE has no columns.
var ErrNoAssignments = errors.New("sqlbuilder: no column assignments")

type assignment struct {
	col Column
	val any
}

// InsertBuilder builds an INSERT statement.
type InsertBuilder struct {
	d     Dialect
	table Table
	sets  []assignment
}

// Insert starts an INSERT into table.
func (d Dialect) Insert(table Table) InsertBuilder {
	return InsertBuilder{d: d, table: table}
}

// Set adds a column value.
func (b InsertBuilder) Set(col Column, v any) InsertBuilder {
	b.sets = append(slices.Clip(b.sets), assignment{col: col, val: v})
	return b
}

// Build renders the statement and its arguments.
func (b InsertBuilder) Build() (string, []any, error) {
	if len(b.sets) == 0 {
		return "", nil, ErrNoAssignments
	}
	w := &writer{d: b.d}
	w.write("INSERT INTO ")
	w.write(string(b.table))
	w.write(" (")
	for i, s := range b.sets {
		if i > 0 {
			w.write(", ")
		}
		w.write(string(s.col))
	}
	w.write(") VALUES (")
	for i, s := range b.sets {
		if i > 0 {
			w.write(", ")
		}
		w.bind(s.val)
	}
	w.write(")")
	sql, args := w.result()
	return sql, args, nil
}

// UpdateBuilder builds an UPDATE statement with a dynamic SET list.
type UpdateBuilder struct {
	d     Dialect
	table Table
	sets  []assignment
	where []Condition
}

// Update starts an UPDATE of table.
func (d Dialect) Update(table Table) UpdateBuilder {
	return UpdateBuilder{d: d, table: table}
}

// Set adds a column assignment.
func (b UpdateBuilder) Set(col Column, v any) UpdateBuilder {
	b.sets = append(slices.Clip(b.sets), assignment{col: col, val: v})
	return b
}

// Where adds a condition.
func (b UpdateBuilder) Where(c Condition) UpdateBuilder {
	b.where = append(slices.Clip(b.where), c)
	return b
}

// Build renders the statement and its arguments. It fails with
// ErrNoAssignments when no column was set.
func (b UpdateBuilder) Build() (string, []any, error) {
	if len(b.sets) == 0 {
		return "", nil, ErrNoAssignments
	}
	w := &writer{d: b.d}
	w.write("UPDATE ")
	w.write(string(b.table))
	w.write(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.write(", ")
		}
		w.write(string(s.col))
		w.write(" = ")
		w.bind(s.val)
	}
	w.where(b.where)
	sql, args := w.result()
	return sql, args, nil
}

// DeleteBuilder builds a DELETE statement.
type DeleteBuilder struct {
	d     Dialect
	table Table
	where []Condition
}

// Delete starts a DELETE from table.
func (d Dialect) Delete(table Table) DeleteBuilder {
	return DeleteBuilder{d: d, table: table}
}

// Where adds a condition.
func (b DeleteBuilder) Where(c Condition) DeleteBuilder {
	b.where = append(slices.Clip(b.where), c)
	return b
}

// Build renders the statement and its arguments.
func (b DeleteBuilder) Build() (string, []any) {
	w := &writer{d: b.d}
	w.write("DELETE FROM ")
	w.write(string(b.table))
	w.where(b.where)
	return w.result()
}
