package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// NewTestDB opens a database file in the test's temporary directory with the
// schema applied. It is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "delez-test.sqlite3"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("applying schema: %v", err)
	}
	return db
}
