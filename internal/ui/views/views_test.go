package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskvault/internal/codec"
	"github.com/tgienger/taskvault/internal/models"
	"github.com/tgienger/taskvault/internal/vault"
)

type fakeStore struct {
	doc      *models.Document
	writeErr error
	password string
	locked   bool
	writes   int
	left     time.Duration
}

func (f *fakeStore) Read() (*models.Document, error) {
	if f.locked {
		return f.doc.Clone(), vault.ErrLocked
	}
	return f.doc.Clone(), nil
}

func (f *fakeStore) Write(doc *models.Document) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.doc = doc.Clone()
	f.writes++
	return nil
}

func (f *fakeStore) Unlock(password string) error {
	if password != f.password {
		return codec.ErrInvalidKey
	}
	f.locked = false
	return nil
}

func (f *fakeStore) Lock() { f.locked = true }

func (f *fakeStore) SessionRemaining() time.Duration {
	if f.locked {
		return 0
	}
	return f.left
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fixtureDoc() *models.Document {
	doc := models.NewDocument()
	doc.Projects = []models.Project{
		{ID: "p1", Name: "Home", Color: "bg-blue-500"},
		{ID: "p2", Name: "Work", Color: "bg-red-500"},
	}
	doc.Tasks = []models.Task{
		{ID: "t1", Title: "Buy milk", Status: models.StatusTodo, Date: "2026-10-16T09:00"},
		{ID: "t2", Title: "Ship it", Status: models.StatusDone, Date: "2026-10-16T10:00"},
	}
	return doc
}

func newTaskView(t *testing.T) (*TaskListView, *fakeStore) {
	t.Helper()
	store := &fakeStore{doc: fixtureDoc()}
	v := NewTaskListView(store)
	v.now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local) }
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	v.SetDocument(store.doc.Clone())
	return v, store
}

func TestTaskListCyclesStatus(t *testing.T) {
	v, store := newTaskView(t)

	_, cmd := v.Update(keyPress("s"))
	if cmd == nil {
		t.Fatal("Expected a reload command")
	}
	if got := store.doc.Tasks[0].Status; got != models.StatusInProgress {
		t.Errorf("Expected in-progress, got %s", got)
	}
	if _, ok := cmd().(DocumentLoaded); !ok {
		t.Error("Expected the reload to produce DocumentLoaded")
	}
}

func TestTaskListCyclesProjectThroughUnassigned(t *testing.T) {
	v, store := newTaskView(t)

	want := []string{"p1", "p2", ""}
	for i, id := range want {
		v.Update(keyPress("p"))
		got := store.doc.Tasks[0].ProjectID
		switch {
		case id == "" && got != nil:
			t.Errorf("press %d: expected unassigned, got %s", i, *got)
		case id != "" && (got == nil || *got != id):
			t.Errorf("press %d: expected %s, got %v", i, id, got)
		}
	}
}

func TestTaskListCreatesTask(t *testing.T) {
	v, store := newTaskView(t)

	v.Update(keyPress("n"))
	v.Update(keyPress("Write report"))
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if len(store.doc.Tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(store.doc.Tasks))
	}
	task := store.doc.Tasks[2]
	if task.Title != "Write report" || task.Status != models.StatusTodo {
		t.Errorf("Unexpected task %+v", task)
	}
	if task.Date != "2026-10-16T12:00" {
		t.Errorf("Expected default date of now, got %s", task.Date)
	}
}

func TestTaskListRejectsEmptyTitle(t *testing.T) {
	v, store := newTaskView(t)

	v.Update(keyPress("n"))
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if store.writes != 0 {
		t.Error("Expected no write for an empty title")
	}
	if !v.creating || v.formErr == "" {
		t.Error("Expected the form to stay open with an error")
	}
}

func TestTaskListDeleteNeedsConfirmation(t *testing.T) {
	v, store := newTaskView(t)

	v.Update(keyPress("d"))
	v.Update(keyPress("n"))
	if len(store.doc.Tasks) != 2 {
		t.Fatal("Expected delete to be cancelled")
	}

	v.Update(keyPress("d"))
	v.Update(keyPress("y"))
	if len(store.doc.Tasks) != 1 || store.doc.Tasks[0].ID != "t2" {
		t.Errorf("Expected t1 to be deleted, got %+v", store.doc.Tasks)
	}
}

func TestTaskListFilter(t *testing.T) {
	v, _ := newTaskView(t)

	v.Update(keyPress("f"))
	if got := len(v.visible()); got != 1 {
		t.Errorf("Expected 1 todo task, got %d", got)
	}
	v.Update(keyPress("f"))
	if got := len(v.visible()); got != 0 {
		t.Errorf("Expected 0 in-progress tasks, got %d", got)
	}
	v.Update(keyPress("f"))
	v.Update(keyPress("f"))
	if v.filter != nil || len(v.visible()) != 2 {
		t.Error("Expected the filter to wrap back to all")
	}
}

func TestTaskListWriteWhileLocked(t *testing.T) {
	v, store := newTaskView(t)
	store.writeErr = vault.ErrLocked

	_, cmd := v.Update(keyPress("s"))
	msg, ok := cmd().(LoadFailed)
	if !ok || !errors.Is(msg.Err, vault.ErrLocked) {
		t.Errorf("Expected LoadFailed with ErrLocked, got %#v", msg)
	}
}

func TestTaskListLock(t *testing.T) {
	v, store := newTaskView(t)

	_, cmd := v.Update(keyPress("L"))
	if !store.locked {
		t.Fatal("Expected store to be locked")
	}
	msg, ok := cmd().(LoadFailed)
	if !ok || !errors.Is(msg.Err, vault.ErrLocked) {
		t.Errorf("Expected locked reload, got %#v", msg)
	}
}

func TestTaskListHeaderShowsSessionTime(t *testing.T) {
	v, store := newTaskView(t)
	doc := store.doc.Clone()
	doc.User.EncryptionEnabled = true
	v.SetDocument(doc)

	store.left = 42*time.Second + 300*time.Millisecond
	if !strings.Contains(v.View(), "locks in 42s") {
		t.Error("Expected header to show the time left in the session")
	}

	store.left = 0
	view := v.View()
	if strings.Contains(view, "locks in") || !strings.Contains(view, "(encrypted)") {
		t.Error("Expected plain encrypted marker once the session is gone")
	}
}

func TestUnlockView(t *testing.T) {
	store := &fakeStore{doc: fixtureDoc(), password: "secret", locked: true}
	v := NewUnlockView(store)
	v.Init()

	v.Update(keyPress("nope"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Expected no command for a wrong password")
	}
	if v.err != "Wrong password" {
		t.Errorf("Expected wrong password message, got %q", v.err)
	}

	v.Update(keyPress("secret"))
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected Unlocked command")
	}
	if _, ok := cmd().(Unlocked); !ok {
		t.Error("Expected Unlocked message")
	}
	if store.locked {
		t.Error("Expected store to be unlocked")
	}
}

func TestProjectListCreateAndDelete(t *testing.T) {
	store := &fakeStore{doc: fixtureDoc()}
	store.doc.Tasks[0].ProjectID = new(string)
	*store.doc.Tasks[0].ProjectID = "p1"

	v := NewProjectListView(store)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	v.SetDocument(store.doc.Clone())

	v.Update(keyPress("n"))
	v.Update(keyPress("Garden"))
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	if len(store.doc.Projects) != 3 {
		t.Fatalf("Expected 3 projects, got %d", len(store.doc.Projects))
	}
	if p := store.doc.Projects[2]; p.Name != "Garden" || p.Color != "bg-green-500" {
		t.Errorf("Unexpected project %+v", p)
	}

	// First item is Home, which t1 points at
	v.Update(keyPress("d"))
	v.Update(keyPress("y"))

	if len(store.doc.Projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(store.doc.Projects))
	}
	if len(store.doc.Tasks) != 2 {
		t.Error("Deleting a project must not delete tasks")
	}
	if _, ok := store.doc.ProjectIndex().Resolve(store.doc.Tasks[0]); ok {
		t.Error("Expected t1 to resolve as unassigned")
	}
}

func TestProjectListEscReturnsToTasks(t *testing.T) {
	store := &fakeStore{doc: fixtureDoc()}
	v := NewProjectListView(store)
	v.SetDocument(store.doc.Clone())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	if _, ok := cmd().(BackToTasks); !ok {
		t.Error("Expected BackToTasks")
	}
}
