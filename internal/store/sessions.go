package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRecord is a signed-in browser session. The backend bearer token is
// kept sealed; see auth.Seal.
type SessionRecord struct {
	ID          string
	UserID      string
	Name        string
	ProfilePic  string
	Role        string
	SealedToken []byte
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// CreateSession stores a new session.
func CreateSession(ctx context.Context, db *sql.DB, s *SessionRecord) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, name, profile_pic, role, sealed_token, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Name, s.ProfilePic, s.Role, s.SealedToken, s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	// Opportunistically clean up expired sessions.
	_, _ = db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())

	return nil
}

// GetSession returns an unexpired session by ID.
func GetSession(ctx context.Context, db *sql.DB, id string) (*SessionRecord, error) {
	s := &SessionRecord{}
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, name, profile_pic, role, sealed_token, created_at, expires_at
		 FROM sessions WHERE id = ? AND expires_at > ?`, id, time.Now().UTC(),
	).Scan(&s.ID, &s.UserID, &s.Name, &s.ProfilePic, &s.Role, &s.SealedToken, &s.CreatedAt, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return s, nil
}

// DeleteSession removes a session.
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
