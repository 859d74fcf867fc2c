package auth

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealRoundTrip(t *testing.T) {
	sealed, err := Seal("secret", []byte("bearer-token"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("bearer-token")) {
		t.Fatal("sealed output contains plaintext")
	}

	plain, err := Open("secret", sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(plain) != "bearer-token" {
		t.Errorf("expected 'bearer-token', got %q", plain)
	}
}

func TestOpenWrongSecret(t *testing.T) {
	sealed, _ := Seal("secret1", []byte("bearer-token"))

	if _, err := Open("secret2", sealed); !errors.Is(err, ErrUnseal) {
		t.Errorf("expected ErrUnseal, got %v", err)
	}
}

func TestOpenTruncated(t *testing.T) {
	if _, err := Open("secret", []byte("short")); !errors.Is(err, ErrUnseal) {
		t.Errorf("expected ErrUnseal, got %v", err)
	}
}
