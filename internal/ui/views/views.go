package views

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskvault/internal/models"
)

// Store is what the views need from the vault
type Store interface {
	Read() (*models.Document, error)
	Write(doc *models.Document) error
	Unlock(password string) error
	Lock()
	SessionRemaining() time.Duration
}

// DocumentLoaded carries a fresh read of the store
type DocumentLoaded struct {
	Doc *models.Document
}

// LoadFailed reports a read or write error. vault.ErrLocked means the
// session is gone and the password prompt should be shown.
type LoadFailed struct {
	Err error
}

// Unlocked is sent once the password prompt succeeds
type Unlocked struct{}

// ShowProjects switches to the project list
type ShowProjects struct{}

// BackToTasks returns to the task list
type BackToTasks struct{}

// LoadDocument reads the store. It never writes user changes, though the
// store may rewrite a document saved in an older layout the first time it
// is read.
func LoadDocument(store Store) tea.Cmd {
	return func() tea.Msg {
		doc, err := store.Read()
		if err != nil {
			return LoadFailed{Err: err}
		}
		return DocumentLoaded{Doc: doc}
	}
}

// save persists next and schedules a reload
func save(store Store, next *models.Document) tea.Cmd {
	if err := store.Write(next); err != nil {
		return func() tea.Msg { return LoadFailed{Err: err} }
	}
	return LoadDocument(store)
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
