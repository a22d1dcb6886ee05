package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tgienger/taskvault/internal/models"
	"github.com/tgienger/taskvault/internal/ui/views"
	"github.com/tgienger/taskvault/internal/vault"
)

type stubStore struct {
	doc    *models.Document
	locked bool
	reads  int
}

func (s *stubStore) Read() (*models.Document, error) {
	s.reads++
	if s.locked {
		return s.doc, vault.ErrLocked
	}
	return s.doc, nil
}

func (s *stubStore) Write(doc *models.Document) error { s.doc = doc; return nil }
func (s *stubStore) Unlock(string) error              { s.locked = false; return nil }
func (s *stubStore) Lock()                            { s.locked = true }
func (s *stubStore) SessionRemaining() time.Duration  { return 0 }

func newTestApp() (*App, *stubStore) {
	store := &stubStore{doc: models.NewDocument()}
	a := NewApp(store, 10*time.Second, zerolog.Nop())
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return a, store
}

func TestLockedReadShowsPrompt(t *testing.T) {
	a, _ := newTestApp()

	a.Update(views.LoadFailed{Err: vault.ErrLocked})
	if a.currentView != ViewUnlock {
		t.Fatalf("Expected unlock view, got %v", a.currentView)
	}

	a.Update(views.DocumentLoaded{Doc: models.NewDocument()})
	if a.currentView != ViewTasks {
		t.Errorf("Expected tasks view after load, got %v", a.currentView)
	}
}

func TestSessionExpiredShowsPrompt(t *testing.T) {
	a, _ := newTestApp()

	a.Update(SessionExpired{})
	if a.currentView != ViewUnlock {
		t.Fatalf("Expected unlock view, got %v", a.currentView)
	}
}

func TestPollReadsWhileUnlocked(t *testing.T) {
	a, store := newTestApp()

	_, cmd := a.Update(pollMsg{})
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("Expected a read and a reschedule, got %#v", batch)
	}
	if _, ok := batch[0]().(views.DocumentLoaded); !ok {
		t.Error("Expected the poll to reload the document")
	}
	if store.reads != 1 {
		t.Errorf("Expected one read, got %d", store.reads)
	}
}

func TestSwitchViews(t *testing.T) {
	a, _ := newTestApp()
	a.Update(views.DocumentLoaded{Doc: models.NewDocument()})

	a.Update(views.ShowProjects{})
	if a.currentView != ViewProjects {
		t.Fatalf("Expected projects view, got %v", a.currentView)
	}
	a.Update(views.BackToTasks{})
	if a.currentView != ViewTasks {
		t.Errorf("Expected tasks view, got %v", a.currentView)
	}
}
