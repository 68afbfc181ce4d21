// Package sqlbuilder assembles parameterized SQL statements.
//
// Builders are immutable values: every method returns a modified copy, so a
// base query can be shared and specialised (for example a listing and its
// COUNT). Identifiers are typed as Table and Column and are expected to come
// from package-level constants; values only ever reach the statement as bound
// parameters rendered in the placeholder style of the target Dialect.
package sqlbuilder
