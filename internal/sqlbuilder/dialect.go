package sqlbuilder

import (
	"fmt"
	"strconv"
)

// Dialect captures the differences between supported SQL engines.
type Dialect struct {
	name     string
	numbered bool
	rowLocks bool
}

// Supported dialects.
var (
	Postgres = Dialect{name: "postgres", numbered: true, rowLocks: true}
	MySQL    = Dialect{name: "mysql", numbered: false, rowLocks: true}
	SQLite   = Dialect{name: "sqlite", numbered: false, rowLocks: false}
)

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case Postgres.name:
		return Postgres, nil
	case MySQL.name:
		return MySQL, nil
	case SQLite.name:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported SQL dialect %q", driver)
	}
}

// Name returns the dialect name.
func (d Dialect) Name() string { return d.name }

// SupportsRowLock reports whether SELECT ... FOR UPDATE is available.
// SQLite serialises writers instead.
func (d Dialect) SupportsRowLock() bool { return d.rowLocks }

// Placeholder renders the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
