package store

import (
	"context"
	"database/sql"
	"fmt"
)

// MarkNotificationRead records that a user opened a notification.
func MarkNotificationRead(ctx context.Context, db *sql.DB, userID, notificationID string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notification_reads (user_id, notification_id) VALUES (?, ?)`,
		userID, notificationID,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

// ReadNotificationIDs returns the set of notifications a user has opened.
func ReadNotificationIDs(ctx context.Context, db *sql.DB, userID string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT notification_id FROM notification_reads WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notification reads: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning notification read: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
