package vault

import (
	"encoding/json"
	"fmt"

	"github.com/tgienger/taskvault/internal/codec"
	"github.com/tgienger/taskvault/internal/models"
)

var requiredFields = []string{"tasks", "projects", "user"}

// migrations upgrade a document from the keyed version to the next one
var migrations = map[int]func(*models.Document) error{
	0: migrateV0,
}

// DecodeDocument parses raw JSON into a document, checks that the
// top-level fields are present, runs migrations and validates the result.
// The returned document is marked Sealed when its task fields are encrypted.
func DecodeDocument(raw []byte) (*models.Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	for _, field := range requiredFields {
		if v, ok := fields[field]; !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: missing %q", ErrSchemaMismatch, field)
		}
	}

	doc := &models.Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if err := migrate(doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	doc.Sealed = doc.User.EncryptionEnabled
	return doc, nil
}

func migrate(doc *models.Document) error {
	if doc.Version > models.CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	for doc.Version < models.CurrentVersion {
		m, ok := migrations[doc.Version]
		if !ok {
			return fmt.Errorf("%w: no migration from %d", ErrUnsupportedVersion, doc.Version)
		}
		if err := m(doc); err != nil {
			return fmt.Errorf("migrate from version %d: %w", doc.Version, err)
		}
		doc.Version++
	}
	return nil
}

// migrateV0 upgrades documents written before the version field existed.
// Those always used the XOR cipher and could carry the plaintext password.
func migrateV0(doc *models.Document) error {
	if doc.Tasks == nil {
		doc.Tasks = []models.Task{}
	}
	if doc.Projects == nil {
		doc.Projects = []models.Project{}
	}
	if doc.User.EncryptionEnabled && doc.Scheme == "" {
		doc.Scheme = codec.NameXOR
	}
	if doc.User.Password != "" {
		if doc.User.EncryptionEnabled && doc.User.PasswordHash == "" {
			hash, err := codec.HashPassword(doc.User.Password)
			if err != nil {
				return err
			}
			doc.User.PasswordHash = hash
		}
		doc.User.Password = ""
	}
	return nil
}
