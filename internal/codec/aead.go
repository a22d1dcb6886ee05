package codec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltLen = 16

	kdfTime    = 1
	kdfMemory  = 64 * 1024
	kdfThreads = 4

	maxCachedKeys = 32
)

// AEAD seals text with XChaCha20-Poly1305. Output layout is
// base64(salt || nonce || ciphertext+tag).
//
// One salt is drawn per AEAD value and reused for every Transform, so a
// whole document costs a single key derivation. Derived keys are cached
// by (salt, key) fingerprint.
type AEAD struct {
	mu   sync.Mutex
	salt []byte
	keys map[[sha256.Size]byte][]byte
}

// NewAEAD creates an AEAD cipher with an empty key cache
func NewAEAD() *AEAD {
	return &AEAD{keys: make(map[[sha256.Size]byte][]byte)}
}

// Name implements Cipher
func (*AEAD) Name() string { return NameAEAD }

// Transform seals plaintext under key
func (a *AEAD) Transform(plaintext, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	if plaintext == "" {
		return "", nil
	}

	salt, err := a.currentSalt()
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(a.derive(salt, key))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}

	out := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Invert opens a value produced by Transform. A wrong key or altered
// ciphertext yields ErrMalformed.
func (a *AEAD) Invert(ciphertext, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	if ciphertext == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(raw) < saltLen+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}

	salt := raw[:saltLen]
	nonce := raw[saltLen : saltLen+chacha20poly1305.NonceSizeX]
	sealed := raw[saltLen+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(a.derive(salt, key))
	if err != nil {
		return "", err
	}
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return string(plain), nil
}

func (a *AEAD) currentSalt() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.salt == nil {
		salt := make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("read salt: %w", err)
		}
		a.salt = salt
	}
	return a.salt, nil
}

func (a *AEAD) derive(salt []byte, key string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte{0})
	h.Write([]byte(key))
	var fp [sha256.Size]byte
	copy(fp[:], h.Sum(nil))

	a.mu.Lock()
	defer a.mu.Unlock()

	if k, ok := a.keys[fp]; ok {
		return k
	}
	if len(a.keys) >= maxCachedKeys {
		clear(a.keys)
	}
	k := argon2.IDKey([]byte(key), salt, kdfTime, kdfMemory, kdfThreads, chacha20poly1305.KeySize)
	a.keys[fp] = k
	return k
}
