package db

import (
	"time"
)

// Backup is a previous value of a setting, saved before it was overwritten
type Backup struct {
	ID        int64
	Key       string
	Value     string
	CreatedAt time.Time
}

// CreateBackup stores a copy of value for key
func (db *DB) CreateBackup(key, value string) (*Backup, error) {
	result, err := db.Exec("INSERT INTO backups (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetBackup(id)
}

// GetBackup retrieves a backup by ID
func (db *DB) GetBackup(id int64) (*Backup, error) {
	b := &Backup{}
	err := db.QueryRow(`
		SELECT id, key, value, created_at
		FROM backups WHERE id = ?
	`, id).Scan(&b.ID, &b.Key, &b.Value, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBackups returns backups for key, newest first
func (db *DB) ListBackups(key string) ([]Backup, error) {
	rows, err := db.Query(`
		SELECT id, key, value, created_at
		FROM backups
		WHERE key = ?
		ORDER BY id DESC
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		var b Backup
		if err := rows.Scan(&b.ID, &b.Key, &b.Value, &b.CreatedAt); err != nil {
			return nil, err
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// PruneBackups keeps only the newest keep backups for key
func (db *DB) PruneBackups(key string, keep int) error {
	_, err := db.Exec(`
		DELETE FROM backups
		WHERE key = ? AND id NOT IN (
			SELECT id FROM backups WHERE key = ? ORDER BY id DESC LIMIT ?
		)
	`, key, key, keep)
	return err
}
