package codec

import (
	"errors"
	"strings"
	"testing"
)

func ciphers() []Cipher {
	return []Cipher{XOR{}, NewAEAD()}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Buy milk",
		"",
		"a",
		"multi\nline with \"quotes\" and {json}",
		"ünïcødé ✓ 日本語",
		strings.Repeat("long ", 200),
	}
	keys := []string{"k", "secret", "a much longer passphrase than the input"}

	for _, c := range ciphers() {
		for _, key := range keys {
			for _, in := range inputs {
				out, err := c.Transform(in, key)
				if err != nil {
					t.Fatalf("%s: Transform(%q) failed: %v", c.Name(), in, err)
				}
				back, err := c.Invert(out, key)
				if err != nil {
					t.Fatalf("%s: Invert failed: %v", c.Name(), err)
				}
				if back != in {
					t.Errorf("%s: round trip = %q, want %q", c.Name(), back, in)
				}
			}
		}
	}
}

func TestEmptyPlaintextIsEmpty(t *testing.T) {
	t.Parallel()

	for _, c := range ciphers() {
		out, err := c.Transform("", "secret")
		if err != nil {
			t.Fatalf("%s: Transform failed: %v", c.Name(), err)
		}
		if out != "" {
			t.Errorf("%s: expected empty output, got %q", c.Name(), out)
		}
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	t.Parallel()

	for _, c := range ciphers() {
		if _, err := c.Transform("Buy milk", ""); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("%s: Transform with empty key: expected ErrInvalidKey, got %v", c.Name(), err)
		}
		if _, err := c.Invert("QUJD", ""); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("%s: Invert with empty key: expected ErrInvalidKey, got %v", c.Name(), err)
		}
	}
}

func TestXORMatchesLegacyEncoding(t *testing.T) {
	t.Parallel()

	// 'a' ^ 'b' = 0x03
	out, err := XOR{}.Transform("a", "b")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out != "Aw==" {
		t.Errorf("Expected Aw==, got %q", out)
	}

	out, err = XOR{}.Transform("Buy milk", "secret")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out == "Buy milk" {
		t.Error("Expected transformed output to differ from input")
	}
}

func TestXORLatin1MatchesLegacyEncoding(t *testing.T) {
	t.Parallel()

	// "café" keyed with "k" as single-byte code units
	out, err := XOR{}.Invert("CAoNgg==", "k")
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if out != "café" {
		t.Errorf("Expected café, got %q", out)
	}

	enc, err := XOR{}.Transform("café", "k")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if enc != "CAoNgg==" {
		t.Errorf("Expected CAoNgg==, got %q", enc)
	}
}

func TestXORRoundTripsWideText(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Ã©", "naïve résumé", "日本語", "mixed ü and 日"} {
		enc, err := XOR{}.Transform(in, "secret")
		if err != nil {
			t.Fatalf("Transform(%q) failed: %v", in, err)
		}
		out, err := XOR{}.Invert(enc, "secret")
		if err != nil {
			t.Fatalf("Invert(%q) failed: %v", in, err)
		}
		if out != in {
			t.Errorf("Expected %q, got %q", in, out)
		}
	}
}

func TestXORInvertRejectsBadBase64(t *testing.T) {
	t.Parallel()

	if _, err := (XOR{}).Invert("not base64!", "k"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestAEADWrongKeyFails(t *testing.T) {
	t.Parallel()

	c := NewAEAD()
	out, err := c.Transform("Buy milk", "secret")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if _, err := c.Invert(out, "wrong"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed for wrong key, got %v", err)
	}
	if _, err := c.Invert("c2hvcnQ=", "secret"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed for short input, got %v", err)
	}
}

func TestAEADIsNonDeterministic(t *testing.T) {
	t.Parallel()

	c := NewAEAD()
	a, _ := c.Transform("same", "key")
	b, _ := c.Transform("same", "key")
	if a == b {
		t.Error("Expected distinct ciphertexts for repeated input")
	}
}

func TestAEADOpensAcrossInstances(t *testing.T) {
	t.Parallel()

	out, err := NewAEAD().Transform("portable", "key")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	back, err := NewAEAD().Invert(out, "key")
	if err != nil {
		t.Fatalf("Invert failed: %v", err)
	}
	if back != "portable" {
		t.Errorf("Expected portable, got %q", back)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, name := range []string{NameXOR, NameAEAD} {
		c, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Expected %q, got %q", name, c.Name())
		}
	}
	if _, err := Lookup("rot13"); err == nil {
		t.Error("Expected error for unknown cipher")
	}
}

func TestPasswordVerifier(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if strings.Contains(hash, "secret") {
		t.Error("Expected verifier not to contain the password")
	}
	if err := VerifyPassword("secret", hash); err != nil {
		t.Errorf("Expected match, got %v", err)
	}
	if err := VerifyPassword("nope", hash); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}
	if _, err := HashPassword(""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey for empty password, got %v", err)
	}
}
