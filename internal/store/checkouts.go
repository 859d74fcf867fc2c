package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/erazemk/delez/internal/checkout"
)

// SaveCheckout inserts or updates a checkout session.
func SaveCheckout(ctx context.Context, db *sql.DB, s *checkout.Session) error {
	var payment sql.NullString
	if s.Payment != nil {
		data, err := json.Marshal(s.Payment)
		if err != nil {
			return fmt.Errorf("encoding payment: %w", err)
		}
		payment = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO checkouts (id, user_id, property_id, property_name, price_per_share,
		                        available_shares, shares, step, payment, purchase_id, last_error,
		                        retryable, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     shares = excluded.shares,
		     step = excluded.step,
		     payment = excluded.payment,
		     purchase_id = excluded.purchase_id,
		     last_error = excluded.last_error,
		     retryable = excluded.retryable,
		     updated_at = excluded.updated_at
		 WHERE checkouts.user_id = excluded.user_id`,
		s.ID, s.UserID, s.PropertyID, s.PropertyName, s.PricePerShare,
		s.AvailableShares, s.Shares, int(s.Step), payment,
		nullString(s.PurchaseID), nullString(s.LastError),
		s.Retryable, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving checkout: %w", err)
	}
	return nil
}

// GetCheckout returns a checkout session owned by userID.
// Sessions owned by another user are reported as not found.
func GetCheckout(ctx context.Context, db *sql.DB, id, userID string) (*checkout.Session, error) {
	s := &checkout.Session{}
	var step int
	var payment, purchaseID, lastError sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, user_id, property_id, property_name, price_per_share, available_shares,
		        shares, step, payment, purchase_id, last_error, retryable, created_at, updated_at
		 FROM checkouts WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&s.ID, &s.UserID, &s.PropertyID, &s.PropertyName, &s.PricePerShare, &s.AvailableShares,
		&s.Shares, &step, &payment, &purchaseID, &lastError, &s.Retryable, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting checkout: %w", err)
	}

	s.Step = checkout.Step(step)
	s.PurchaseID = purchaseID.String
	s.LastError = lastError.String
	if payment.Valid {
		var p checkout.Payment
		if err := json.Unmarshal([]byte(payment.String), &p); err != nil {
			return nil, fmt.Errorf("decoding payment: %w", err)
		}
		s.Payment = &p
	}
	return s, nil
}

// DeleteCheckout removes a checkout session owned by userID. Sessions of
// other users are left alone.
func DeleteCheckout(ctx context.Context, db *sql.DB, id, userID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM checkouts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting checkout: %w", err)
	}
	return nil
}

// DeleteUserCheckouts removes every checkout session of a user.
func DeleteUserCheckouts(ctx context.Context, db *sql.DB, userID string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM checkouts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting user checkouts: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
