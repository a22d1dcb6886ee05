package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey is returned when a key is empty or does not match the stored verifier
	ErrInvalidKey = errors.New("invalid key")
	// ErrMalformed is returned when a ciphertext cannot be decoded or authenticated
	ErrMalformed = errors.New("malformed ciphertext")
)

// Cipher transforms text under a password-like key
type Cipher interface {
	// Name identifies the cipher inside persisted documents
	Name() string
	// Transform turns plaintext into a text-safe ciphertext
	Transform(plaintext, key string) (string, error)
	// Invert reverses Transform
	Invert(ciphertext, key string) (string, error)
}

const (
	NameXOR  = "xor"
	NameAEAD = "aead"
)

// Lookup returns the cipher registered under name
func Lookup(name string) (Cipher, error) {
	switch name {
	case NameXOR:
		return XOR{}, nil
	case NameAEAD:
		return NewAEAD(), nil
	}
	return nil, fmt.Errorf("unknown cipher %q", name)
}
