// Package testdb provides migrated databases for tests.
//
// By default every call to Open returns a private in-memory SQLite database
// with the full schema applied, so store, service and router tests run
// without external services and in parallel. Setting TEST_DATABASE_DRIVER
// and TEST_DATABASE_URL points the same tests at a real PostgreSQL or MySQL
// server instead; tests then create their own users, so a shared database
// is safe.
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.Open(t)
//	    tasks := database.NewSQLTaskStore(db.DB, db.Dialect, nil)
//	    ...
//	}
package testdb
