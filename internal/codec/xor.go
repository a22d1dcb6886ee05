package codec

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// XOR is the legacy keystream cipher. It offers no confidentiality against
// anyone who tries; see the package documentation.
//
// Text whose characters all fit in one byte, and which is not plain ASCII,
// is keyed as Latin-1 code units so the output matches what the original
// browser app wrote. Anything else is keyed as UTF-8 bytes.
type XOR struct{}

// Name implements Cipher
func (XOR) Name() string { return NameXOR }

// Transform XORs plaintext with the cycled key and base64-encodes the result
func (XOR) Transform(plaintext, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	if plaintext == "" {
		return "", nil
	}
	if units, ok := latin1(plaintext); ok && !utf8.Valid(units) {
		return base64.StdEncoding.EncodeToString(xorBytes(units, legacyKey(key))), nil
	}
	return base64.StdEncoding.EncodeToString(xorBytes([]byte(plaintext), []byte(key))), nil
}

// Invert decodes base64 and re-applies the keystream. Output that is not
// valid UTF-8 is read as Latin-1 code units.
func (XOR) Invert(ciphertext, key string) (string, error) {
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
	if out := xorBytes(raw, []byte(key)); utf8.Valid(out) {
		return string(out), nil
	}
	units := xorBytes(raw, legacyKey(key))
	runes := make([]rune, len(units))
	for i, b := range units {
		runes[i] = rune(b)
	}
	return string(runes), nil
}

func xorBytes(in, key []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// latin1 returns s as one byte per character, or false when a character
// does not fit in a byte
func latin1(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

func legacyKey(key string) []byte {
	if units, ok := latin1(key); ok {
		return units
	}
	return []byte(key)
}
