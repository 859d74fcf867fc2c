package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

const sessionSecretKey = "session_secret"

// GetSetting returns the value stored under key, or "" if there is none.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, nil
}

// GetSessionSecret returns the key that signs session cookies and seals
// backend tokens, generating it on first use. Concurrent first calls agree
// on one secret: the insert is ignored when a value exists and the stored
// value is always read back.
func GetSessionSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		sessionSecretKey, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing session secret: %w", err)
	}

	secret, err := GetSetting(ctx, db, sessionSecretKey)
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", errors.New("session secret missing after insert")
	}
	return secret, nil
}
