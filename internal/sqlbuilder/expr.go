package sqlbuilder

import (
	"strings"
)

// Table is a table identifier.
type Table string

// Column is a column identifier. Never convert request input to a Column.
type Column string

// Direction is an ORDER BY direction.
type Direction int

// Sort directions.
const (
	Asc Direction = iota
	Desc
)

func (d Direction) sql() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// likeEscape is the escape character used by Contains.
const likeEscape = '!'

// Condition is a single predicate on a column. Conditions added to a
// statement are joined with AND.
type Condition struct {
	col  Column
	op   string
	val  any
	like bool
}

// Eq matches rows where col = v.
func Eq(col Column, v any) Condition { return Condition{col: col, op: "=", val: v} }

// Gt matches rows where col > v.
func Gt(col Column, v any) Condition { return Condition{col: col, op: ">", val: v} }

// Lte matches rows where col <= v.
func Lte(col Column, v any) Condition { return Condition{col: col, op: "<=", val: v} }

// Contains matches rows where col contains s as a literal substring. LIKE
// wildcards in s are escaped. Case sensitivity follows the column collation.
func Contains(col Column, s string) Condition {
	return Condition{col: col, op: "LIKE", val: "%" + EscapeLike(s) + "%", like: true}
}

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case likeEscape, '%', '_':
			b.WriteRune(likeEscape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

type orderTerm struct {
	col Column
	dir Direction
}

// writer accumulates SQL text and its bound arguments.
type writer struct {
	d    Dialect
	sb   strings.Builder
	args []any
}

func (w *writer) write(s string) {
	w.sb.WriteString(s)
}

func (w *writer) bind(v any) {
	w.args = append(w.args, v)
	w.sb.WriteString(w.d.Placeholder(len(w.args)))
}

func (w *writer) columns(cols []Column) {
	for i, c := range cols {
		if i > 0 {
			w.write(", ")
		}
		w.write(string(c))
	}
}

func (w *writer) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	w.write(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			w.write(" AND ")
		}
		w.write(string(c.col))
		w.write(" ")
		w.write(c.op)
		w.write(" ")
		w.bind(c.val)
		if c.like {
			w.write(" ESCAPE '" + string(likeEscape) + "'")
		}
	}
}

func (w *writer) result() (string, []any) {
	return w.sb.String(), w.args
}
