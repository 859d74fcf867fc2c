package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    profile_pic  TEXT NOT NULL DEFAULT '',
    role         TEXT NOT NULL DEFAULT 'investor',
    sealed_token BLOB NOT NULL,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

CREATE TABLE IF NOT EXISTS checkouts (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    property_id      TEXT NOT NULL,
    property_name    TEXT NOT NULL DEFAULT '',
    price_per_share  REAL NOT NULL CHECK (price_per_share >= 0),
    available_shares INTEGER NOT NULL DEFAULT 0,
    shares           INTEGER NOT NULL CHECK (shares >= 0),
    step             INTEGER NOT NULL CHECK (step BETWEEN 1 AND 4),
    payment          TEXT,
    purchase_id      TEXT,
    last_error       TEXT,
    retryable        BOOLEAN NOT NULL DEFAULT 0,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_checkouts_user ON checkouts(user_id);

CREATE TABLE IF NOT EXISTS notification_reads (
    user_id         TEXT NOT NULL,
    notification_id TEXT NOT NULL,
    read_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, notification_id)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: Drop abandoned checkouts older than a week.
	`DELETE FROM checkouts WHERE updated_at < datetime('now', '-7 days')`,
}

// columns lists columns added after a table was first released. Databases
// created before the addition get them through ALTER TABLE.
var columns = []struct {
	table, name, def string
}{
	{"checkouts", "retryable", "BOOLEAN NOT NULL DEFAULT 0"},
}

// EnsureSchema creates all tables and indexes if they don't already exist,
// then adds missing columns and applies migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for _, c := range columns {
		var n int
		err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, c.table, c.name).Scan(&n)
		if err != nil {
			return fmt.Errorf("checking column %s.%s: %w", c.table, c.name, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.name, c.def)); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", c.table, c.name, err)
		}
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
