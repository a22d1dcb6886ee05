package db

import "fmt"

// DefaultBackupsKept is how many previous slot values Snapshot retains
const DefaultBackupsKept = 5

// Slot is a single settings row used as the vault's storage slot
type Slot struct {
	db   *DB
	key  string
	keep int
}

// Slot returns the storage slot bound to key
func (db *DB) Slot(key string) *Slot {
	return &Slot{db: db, key: key, keep: DefaultBackupsKept}
}

// Key returns the settings key backing the slot
func (s *Slot) Key() string {
	return s.key
}

// Load returns the stored bytes, or ok=false if nothing is stored
func (s *Slot) Load() ([]byte, bool, error) {
	value, ok, err := s.db.GetSetting(s.key)
	if err != nil || !ok {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Save replaces the stored bytes
func (s *Slot) Save(data []byte) error {
	return s.db.SetSetting(s.key, string(data))
}

// Snapshot copies the current value into the backups table and prunes old copies.
// An empty slot is not backed up.
func (s *Slot) Snapshot() error {
	value, ok, err := s.db.GetSetting(s.key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := s.db.CreateBackup(s.key, value); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	return s.db.PruneBackups(s.key, s.keep)
}

// Clear snapshots the current value and then empties the slot
func (s *Slot) Clear() error {
	if err := s.Snapshot(); err != nil {
		return err
	}
	return s.db.DeleteSetting(s.key)
}

// Backups lists previous values of the slot, newest first
func (s *Slot) Backups() ([]Backup, error) {
	return s.db.ListBackups(s.key)
}

// Restore writes a backup back into the slot, snapshotting the current value first
func (s *Slot) Restore(id int64) error {
	b, err := s.db.GetBackup(id)
	if err != nil {
		return err
	}
	if b.Key != s.key {
		return fmt.Errorf("backup %d belongs to %q", id, b.Key)
	}
	if err := s.Snapshot(); err != nil {
		return err
	}
	return s.Save([]byte(b.Value))
}
