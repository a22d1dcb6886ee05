// Package transfer builds and parses portable payloads for moving a
// document between devices by QR code or file.
//
// A portable payload is base64(JSON(document)), optionally transformed
// once more with a cipher under a transfer password. Task fields inside
// the JSON are always in clear; the outer transform is the only layer.
// This differs from the store's ExportData, which hands out the persisted
// bytes with field-level encryption intact.
//
// A payload protected by any cipher other than the legacy XOR one is
// prefixed with the cipher name and a colon, e.g. "aead:<base64>". An
// untagged protected payload is legacy XOR, which is what older devices
// produce. Base64 never contains a colon, so the tag cannot be confused
// with payload text.
package transfer

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tgienger/taskvault/internal/codec"
	"github.com/tgienger/taskvault/internal/models"
	"github.com/tgienger/taskvault/internal/vault"
)

// Codec converts documents to and from portable payloads
type Codec struct {
	cipher codec.Cipher
}

// New creates a transfer codec that protects payloads with cipher
func New(cipher codec.Cipher) *Codec {
	return &Codec{cipher: cipher}
}

// ErrPlainExport is returned by PayloadPassword when an encrypted vault
// would be exported without a payload password
var ErrPlainExport = errors.New("encrypted vault needs a payload password")

const schemeSep = ":"

// PayloadPassword picks the password that protects a portable export of
// doc. An explicit password wins. An encrypted vault otherwise reuses its
// vault password, unless plain asks for a cleartext payload.
func PayloadPassword(doc *models.Document, password, vaultPassword string, plain bool) (string, error) {
	if password != "" || plain || !doc.User.EncryptionEnabled {
		return password, nil
	}
	if vaultPassword == "" {
		return "", ErrPlainExport
	}
	return vaultPassword, nil
}

// ExportPortable encodes doc. With a non-empty password the encoded text
// is transformed with the codec's cipher and, unless that is XOR, tagged
// with its name. A sealed document cannot be exported because its fields
// could not be read on the other side.
func (c *Codec) ExportPortable(doc *models.Document, password string) (string, error) {
	if doc.Sealed {
		return "", vault.ErrLocked
	}

	out := doc.Clone()
	out.Version = models.CurrentVersion
	out.User.Password = ""

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	if password == "" {
		return encoded, nil
	}
	protected, err := c.cipher.Transform(encoded, password)
	if err != nil {
		return "", err
	}
	if c.cipher.Name() == codec.NameXOR {
		return protected, nil
	}
	return c.cipher.Name() + schemeSep + protected, nil
}

// ImportPortable reverses ExportPortable. The cipher comes from the
// payload's tag, not from the codec, so payloads from devices configured
// with another scheme still open. Any failure, including a wrong password,
// comes back as a *vault.ImportError.
func (c *Codec) ImportPortable(payload, password string) (*models.Document, error) {
	if payload == "" {
		return nil, vault.NewImportError("empty payload", nil)
	}

	scheme, encoded, tagged := strings.Cut(payload, schemeSep)
	if !tagged {
		scheme, encoded = codec.NameXOR, payload
	}
	if tagged && password == "" {
		return nil, vault.NewImportError("password required", codec.ErrInvalidKey)
	}
	if password != "" {
		cipher, err := c.cipherFor(scheme)
		if err != nil {
			return nil, vault.NewImportError("unsupported scheme", err)
		}
		inner, err := cipher.Invert(encoded, password)
		if err != nil {
			return nil, vault.NewImportError("wrong password or corrupt payload", err)
		}
		encoded = inner
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		reason := "malformed payload"
		if password != "" {
			reason = "wrong password or corrupt payload"
		}
		return nil, vault.NewImportError(reason, err)
	}

	doc, err := vault.DecodeDocument(data)
	if err != nil {
		switch {
		case errors.Is(err, vault.ErrMalformedDocument) && password != "":
			return nil, vault.NewImportError("wrong password or corrupt payload", err)
		case errors.Is(err, vault.ErrMalformedDocument):
			return nil, vault.NewImportError("malformed payload", err)
		case errors.Is(err, vault.ErrUnsupportedVersion):
			return nil, vault.NewImportError("unsupported version", err)
		default:
			return nil, vault.NewImportError("schema mismatch", err)
		}
	}

	// Fields travel in clear inside the payload.
	doc.Sealed = false
	return doc, nil
}

func (c *Codec) cipherFor(scheme string) (codec.Cipher, error) {
	if c.cipher.Name() == scheme {
		return c.cipher, nil
	}
	return codec.Lookup(scheme)
}
