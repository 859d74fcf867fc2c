package db

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	for _, table := range []string{"sessions", "checkouts", "notification_reads", "settings"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestEnsureSchemaAddsColumns(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "old.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	var old []string
	for _, line := range strings.Split(schema, "\n") {
		if !strings.Contains(line, "retryable") {
			old = append(old, line)
		}
	}
	if _, err := database.Exec(strings.Join(old, "\n")); err != nil {
		t.Fatalf("creating old schema: %v", err)
	}

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := EnsureSchema(database); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	var n int
	err = database.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('checkouts') WHERE name = 'retryable'`).Scan(&n)
	if err != nil {
		t.Fatalf("reading table info: %v", err)
	}
	if n != 1 {
		t.Errorf("expected retryable column added once, got %d", n)
	}
}
