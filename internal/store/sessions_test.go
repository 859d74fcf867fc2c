package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/delez/internal/db"
)

func TestCreateGetDeleteSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	rec := &SessionRecord{
		ID:          "sess-1",
		UserID:      "u1",
		Name:        "Ana",
		ProfilePic:  "/pic.png",
		Role:        "investor",
		SealedToken: []byte("sealed"),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	if err := CreateSession(ctx, database, rec); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := GetSession(ctx, database, "sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("expected session")
	}
	if got.UserID != "u1" || got.Name != "Ana" || got.ProfilePic != "/pic.png" {
		t.Errorf("unexpected session: %+v", got)
	}
	if string(got.SealedToken) != "sealed" {
		t.Errorf("expected sealed token, got %q", got.SealedToken)
	}

	if err := DeleteSession(ctx, database, "sess-1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	got, _ = GetSession(ctx, database, "sess-1")
	if got != nil {
		t.Error("expected session to be gone after delete")
	}
}

func TestExpiredSessionNotReturned(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateSession(ctx, database, &SessionRecord{
		ID:          "old",
		UserID:      "u1",
		SealedToken: []byte("x"),
		ExpiresAt:   time.Now().Add(-time.Minute),
	})

	got, err := GetSession(ctx, database, "old")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Error("expected expired session not to be returned")
	}
}
