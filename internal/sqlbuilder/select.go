package sqlbuilder

import (
	"slices"
	"strconv"
)

// SelectBuilder builds a SELECT statement.
type SelectBuilder struct {
	d         Dialect
	table     Table
	cols      []Column
	where     []Condition
	order     []orderTerm
	limit     int
	offset    int
	forUpdate bool
	count     bool
}

// Select starts a SELECT of cols from table.
func (d Dialect) Select(table Table, cols ...Column) SelectBuilder {
	return SelectBuilder{d: d, table: table, cols: slices.Clone(cols), limit: -1, offset: -1}
}

// Where adds a condition.
func (b SelectBuilder) Where(c Condition) SelectBuilder {
	b.where = append(slices.Clip(b.where), c)
	return b
}

// OrderBy appends a sort term.
func (b SelectBuilder) OrderBy(col Column, dir Direction) SelectBuilder {
	b.order = append(slices.Clip(b.order), orderTerm{col: col, dir: dir})
	return b
}

// Limit sets the maximum number of rows returned.
func (b SelectBuilder) Limit(n int) SelectBuilder {
	b.limit = n
	return b
}

// Offset sets the number of rows skipped.
func (b SelectBuilder) Offset(n int) SelectBuilder {
	b.offset = n
	return b
}

// ForUpdate locks the selected rows until the transaction ends. It is a
// no-op on dialects without row locks.
func (b SelectBuilder) ForUpdate() SelectBuilder {
	b.forUpdate = b.d.rowLocks
	return b
}

// Count turns the query into SELECT COUNT(*) over the same predicate.
// Ordering, paging and locking are dropped.
func (b SelectBuilder) Count() SelectBuilder {
	b.count = true
	b.order = nil
	b.limit = -1
	b.offset = -1
	b.forUpdate = false
	return b
}

// Build renders the statement and its arguments.
func (b SelectBuilder) Build() (string, []any) {
	w := &writer{d: b.d}
	w.write("SELECT ")
	if b.count {
		w.write("COUNT(*)")
	} else {
		w.columns(b.cols)
	}
	w.write(" FROM ")
	w.write(string(b.table))
	w.where(b.where)

	for i, o := range b.order {
		if i == 0 {
			w.write(" ORDER BY ")
		} else {
			w.write(", ")
		}
		w.write(string(o.col))
		w.write(" ")
		w.write(o.dir.sql())
	}

	if b.limit >= 0 {
		w.write(" LIMIT ")
		w.bind(b.limit)
	}
	if b.offset >= 0 {
		if b.limit < 0 && b.d.name != Postgres.name {
			// MySQL and SQLite only accept OFFSET after a LIMIT.
			w.write(" LIMIT " + strconv.FormatInt(maxLimit, 10))
		}
		w.write(" OFFSET ")
		w.bind(b.offset)
	}
	if b.forUpdate {
		w.write(" FOR UPDATE")
	}
	return w.result()
}

// maxLimit stands in for "no limit" where OFFSET requires a LIMIT.
const maxLimit = int64(1<<63 - 1)
