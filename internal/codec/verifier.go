package codec

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

// HashPassword returns an argon2id verifier for password.
// The verifier is safe to persist; the password is not.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidKey
	}
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword checks password against a verifier produced by HashPassword.
// It returns ErrInvalidKey on mismatch.
func VerifyPassword(password, hash string) error {
	if password == "" {
		return ErrInvalidKey
	}
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	if !match {
		return ErrInvalidKey
	}
	return nil
}
