package vault

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tgienger/taskvault/internal/codec"
	"github.com/tgienger/taskvault/internal/models"
	"github.com/tgienger/taskvault/internal/session"
)

// Slot is the single key/value cell the document lives in
type Slot interface {
	Load() ([]byte, bool, error)
	Save(data []byte) error
}

// snapshotter is implemented by slots that can keep the previous value
// before it is replaced wholesale
type snapshotter interface {
	Snapshot() error
}

// Store owns the persisted document. It decides on every read and write
// whether task fields pass through the cipher, based on the document's
// encryption flag and the session gate.
type Store struct {
	slot   Slot
	gate   *session.Gate
	cipher codec.Cipher
	logger zerolog.Logger
}

// NewStore creates a store. cipher is used for documents that get
// encrypted from now on; existing documents keep the scheme they were written with.
func NewStore(slot Slot, gate *session.Gate, cipher codec.Cipher, logger zerolog.Logger) *Store {
	return &Store{
		slot:   slot,
		gate:   gate,
		cipher: cipher,
		logger: logger,
	}
}

// Read loads the document. A missing slot yields an empty document.
//
// For an encrypted document with a valid session the task fields are
// decrypted and the session is refreshed. Without a valid session the
// document is returned with Sealed set and fields still encrypted, together
// with ErrLocked.
func (s *Store) Read() (*models.Document, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if !doc.User.EncryptionEnabled {
		return doc, nil
	}

	key, ok := s.gate.Touch()
	if !ok {
		s.logger.Debug().Msg("read encrypted document without session")
		return doc, ErrLocked
	}
	open, err := s.DecryptData(doc, key)
	if err != nil {
		return doc, err
	}
	return open, nil
}

// Write persists doc. An encrypted document that is not already sealed is
// encrypted with the session key, which requires a valid session.
// The plaintext password is never persisted.
func (s *Store) Write(doc *models.Document) error {
	out := doc.Clone()
	out.Version = models.CurrentVersion
	out.User.Password = ""

	if !out.User.EncryptionEnabled {
		out.Scheme = ""
		out.User.PasswordHash = ""
	} else if !out.Sealed {
		key, ok := s.gate.Touch()
		if !ok {
			return ErrLocked
		}
		sealed, err := s.EncryptData(out, key)
		if err != nil {
			return err
		}
		out = sealed
	}

	if err := s.save(out); err != nil {
		return err
	}
	s.logger.Debug().
		Int("tasks", len(out.Tasks)).
		Int("projects", len(out.Projects)).
		Bool("encrypted", out.User.EncryptionEnabled).
		Msg("wrote document")
	return nil
}

// SetEncryption turns field encryption on or off and persists the result.
//
// Enabling requires a non-empty password, stores an argon2id verifier
// for it, unlocks the session and writes the fields encrypted. Enabling
// on an already encrypted, unlocked document changes the password.
//
// Disabling decrypts sealed fields with the session key first, so it
// needs a valid session when doc is sealed. The session is locked afterwards.
// The returned document is the decrypted view.
func (s *Store) SetEncryption(doc *models.Document, enabled bool, password string) (*models.Document, error) {
	next := doc.Clone()

	if next.Sealed {
		key, ok := s.gate.Touch()
		if !ok {
			return nil, ErrLocked
		}
		open, err := s.DecryptData(next, key)
		if err != nil {
			return nil, err
		}
		next = open
	}

	if !enabled {
		next.User.EncryptionEnabled = false
		next.User.PasswordHash = ""
		next.User.Password = ""
		next.Scheme = ""
		if err := s.Write(next); err != nil {
			return nil, err
		}
		s.gate.Lock()
		s.logger.Info().Msg("disabled encryption")
		return next, nil
	}

	if password == "" {
		return nil, codec.ErrInvalidKey
	}
	hash, err := codec.HashPassword(password)
	if err != nil {
		return nil, err
	}
	next.User.EncryptionEnabled = true
	next.User.PasswordHash = hash
	next.User.Password = ""
	next.Scheme = s.cipher.Name()

	if err := s.openSession(password); err != nil {
		return nil, err
	}
	if err := s.Write(next); err != nil {
		s.gate.Lock()
		return nil, err
	}
	s.logger.Info().
		Str("scheme", next.Scheme).
		Msg("enabled encryption")
	return next, nil
}

// Unlock checks password against the stored verifier and opens a session.
// Documents without a verifier accept any non-empty password.
func (s *Store) Unlock(password string) error {
	if password == "" {
		return codec.ErrInvalidKey
	}
	doc, err := s.load()
	if err != nil {
		return err
	}
	if doc.User.PasswordHash != "" {
		if err := codec.VerifyPassword(password, doc.User.PasswordHash); err != nil {
			s.logger.Warn().Msg("unlock rejected")
			return err
		}
	}
	if err := s.openSession(password); err != nil {
		return err
	}
	s.logger.Debug().Msg("unlocked")
	return nil
}

func (s *Store) openSession(password string) error {
	if err := s.gate.Unlock(password); err != nil {
		return codec.ErrInvalidKey
	}
	return nil
}

// Lock ends the session
func (s *Store) Lock() {
	s.gate.Lock()
	s.logger.Debug().Msg("locked")
}

// EncryptData returns a copy of doc with every task title and description
// transformed under password. A document without a scheme gets the store's cipher.
func (s *Store) EncryptData(doc *models.Document, password string) (*models.Document, error) {
	out := doc.Clone()
	if out.Scheme == "" {
		out.Scheme = s.cipher.Name()
	}
	c, err := s.cipherFor(out.Scheme)
	if err != nil {
		return nil, err
	}
	if err := transformFields(out, func(v string) (string, error) {
		return c.Transform(v, password)
	}); err != nil {
		return nil, err
	}
	out.Sealed = true
	return out, nil
}

// DecryptData returns a copy of doc with every task title and description
// inverted under password, using the scheme recorded in the document.
// A wrong password fails for the authenticated scheme only; the legacy
// scheme decodes any input, so callers check the verifier first.
func (s *Store) DecryptData(doc *models.Document, password string) (*models.Document, error) {
	out := doc.Clone()
	scheme := out.Scheme
	if scheme == "" {
		scheme = codec.NameXOR
	}
	c, err := s.cipherFor(scheme)
	if err != nil {
		return nil, err
	}
	if err := transformFields(out, func(v string) (string, error) {
		return c.Invert(v, password)
	}); err != nil {
		return nil, err
	}
	out.Sealed = false
	return out, nil
}

// ExportData returns the document exactly as persisted, with encrypted
// fields left encrypted. It is empty when nothing has been stored.
func (s *Store) ExportData() (string, error) {
	raw, ok, err := s.slot.Load()
	if err != nil {
		return "", fmt.Errorf("load slot: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(raw), nil
}

// ImportData replaces the document with one produced by ExportData.
// Encrypted payloads need the password they were encrypted with; the
// fields are decrypted with it and re-encrypted on write under a new session.
func (s *Store) ImportData(payload, password string) error {
	doc, err := DecodeDocument([]byte(payload))
	if err != nil {
		return importReason(err)
	}
	if doc.User.EncryptionEnabled {
		if password == "" {
			return NewImportError("password required", codec.ErrInvalidKey)
		}
		open, err := s.DecryptData(doc, password)
		if err != nil {
			return NewImportError("wrong password", err)
		}
		doc = open
	}
	return s.Replace(doc, password)
}

// Replace overwrites the stored document with doc, which must not be sealed.
// For an encrypted doc, password opens the session used to encrypt it.
// The previous value is snapshotted when the slot supports it.
func (s *Store) Replace(doc *models.Document, password string) error {
	if doc.Sealed {
		return NewImportError("document is still encrypted", ErrLocked)
	}
	if doc.User.EncryptionEnabled {
		if password == "" {
			return NewImportError("password required", codec.ErrInvalidKey)
		}
		if doc.User.PasswordHash == "" {
			hash, err := codec.HashPassword(password)
			if err != nil {
				return err
			}
			doc = doc.Clone()
			doc.User.PasswordHash = hash
		} else if err := codec.VerifyPassword(password, doc.User.PasswordHash); err != nil {
			return NewImportError("wrong password", err)
		}
	}

	if snap, ok := s.slot.(snapshotter); ok {
		if err := snap.Snapshot(); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
	}
	// Write encrypts under the session key, so the session opens first and
	// closes again if the write fails.
	if doc.User.EncryptionEnabled {
		if err := s.openSession(password); err != nil {
			return err
		}
	}
	if err := s.Write(doc); err != nil {
		if doc.User.EncryptionEnabled {
			s.gate.Lock()
		}
		return err
	}
	s.logger.Info().
		Int("tasks", len(doc.Tasks)).
		Int("projects", len(doc.Projects)).
		Msg("replaced document")
	return nil
}

func (s *Store) load() (*models.Document, error) {
	raw, ok, err := s.slot.Load()
	if err != nil {
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if !ok {
		return models.NewDocument(), nil
	}

	var stored struct {
		Version int `json:"version"`
	}
	_ = json.Unmarshal(raw, &stored)

	doc, err := DecodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	if stored.Version != doc.Version {
		// Persist the migrated layout as-is; sealed fields stay sealed.
		if err := s.save(doc); err != nil {
			return nil, err
		}
		s.logger.Info().
			Int("from", stored.Version).
			Int("to", doc.Version).
			Msg("migrated stored document")
	}
	return doc, nil
}

func (s *Store) save(doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.slot.Save(data); err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return nil
}

// cipherFor reuses the store's cipher when it matches so its derived-key
// cache survives across calls
func (s *Store) cipherFor(scheme string) (codec.Cipher, error) {
	if scheme == s.cipher.Name() {
		return s.cipher, nil
	}
	return codec.Lookup(scheme)
}

func transformFields(doc *models.Document, fn func(string) (string, error)) error {
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		title, err := fn(t.Title)
		if err != nil {
			return fmt.Errorf("task %s title: %w", t.ID, err)
		}
		desc, err := fn(t.Description)
		if err != nil {
			return fmt.Errorf("task %s description: %w", t.ID, err)
		}
		t.Title, t.Description = title, desc
	}
	return nil
}

func importReason(err error) error {
	switch {
	case errors.Is(err, ErrMalformedDocument):
		return NewImportError("malformed payload", err)
	case errors.Is(err, ErrUnsupportedVersion):
		return NewImportError("unsupported version", err)
	default:
		return NewImportError("schema mismatch", err)
	}
}
