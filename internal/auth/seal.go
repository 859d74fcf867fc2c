package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnseal is returned when sealed data fails authentication.
var ErrUnseal = errors.New("sealed data could not be opened")

// sealKey derives the secretbox key from the application secret.
func sealKey(secret string) *[32]byte {
	key := sha256.Sum256([]byte("delez/seal:" + secret))
	return &key
}

// Seal encrypts and authenticates plaintext with a key derived from secret.
// The random nonce is prepended to the output.
func Seal(secret string, plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, sealKey(secret)), nil
}

// Open reverses Seal.
func Open(secret string, sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrUnseal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, sealKey(secret))
	if !ok {
		return nil, ErrUnseal
	}
	return plain, nil
}
