package vault

import (
	"time"

	"github.com/tgienger/taskvault/internal/models"
)

// The methods below are the names the UI layer calls. They delegate to
// Read/Write and to the session gate.

// GetData is Read
func (s *Store) GetData() (*models.Document, error) {
	return s.Read()
}

// SetData is Write
func (s *Store) SetData(doc *models.Document) error {
	return s.Write(doc)
}

// SetSessionKey unlocks the gate without checking the verifier. An empty
// password is rejected with codec.ErrInvalidKey.
func (s *Store) SetSessionKey(password string) error {
	return s.openSession(password)
}

// ClearSessionKey locks the gate
func (s *Store) ClearSessionKey() {
	s.gate.Lock()
}

// IsSessionValid reports whether the gate currently holds an unexpired key
func (s *Store) IsSessionValid() bool {
	return s.gate.IsValid()
}

// SessionRemaining returns how long the session stays open without activity
func (s *Store) SessionRemaining() time.Duration {
	return s.gate.Remaining()
}

// UpdateLastUnlockTime refreshes the session window if a key is held
func (s *Store) UpdateLastUnlockTime() {
	s.gate.Refresh()
}
