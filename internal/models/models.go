package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CurrentVersion is the document layout written by this build
const CurrentVersion = 1

// DateLayout is the scheduled-date format used by tasks (minute precision, no zone)
const DateLayout = "2006-01-02T15:04"

// Status is the lifecycle state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Next returns the status that follows s, wrapping from done back to todo
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Project groups tasks. Tasks reference it by ID only.
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Task represents a single task
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ProjectID   *string `json:"projectId"`
	Status      Status  `json:"status"`
	Date        string  `json:"date"`
}

// User is the profile of the single vault owner
type User struct {
	Name              string `json:"name"`
	Avatar            string `json:"avatar"`
	EncryptionEnabled bool   `json:"encryptionEnabled"`

	// Password is only ever read from legacy documents; it is migrated
	// into PasswordHash on load and never written back.
	Password string `json:"password,omitempty"`

	// PasswordHash is an argon2id verifier for the encryption password
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Document is the aggregate persisted under the single storage slot
type Document struct {
	Version  int       `json:"version"`
	Scheme   string    `json:"scheme,omitempty"`
	Tasks    []Task    `json:"tasks"`
	Projects []Project `json:"projects"`
	User     User      `json:"user"`

	// Sealed is set when Tasks still carry transformed title/description
	Sealed bool `json:"-"`
}

// NewDocument returns the empty document used when nothing has been stored yet
func NewDocument() *Document {
	return &Document{
		Version:  CurrentVersion,
		Tasks:    []Task{},
		Projects: []Project{},
		User:     User{},
	}
}

// NewTask creates a task with a fresh ID and status todo
func NewTask(title, description string, projectID *string, date time.Time) Task {
	return Task{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       title,
		Description: description,
		ProjectID:   projectID,
		Status:      StatusTodo,
		Date:        date.Format(DateLayout),
	}
}

// NewProject creates a project with a fresh ID
func NewProject(name, color string) Project {
	return Project{
		ID:    uuid.Must(uuid.NewV7()).String(),
		Name:  name,
		Color: color,
	}
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	c := *d
	c.Tasks = make([]Task, len(d.Tasks))
	for i, t := range d.Tasks {
		if t.ProjectID != nil {
			id := *t.ProjectID
			t.ProjectID = &id
		}
		c.Tasks[i] = t
	}
	c.Projects = append([]Project{}, d.Projects...)
	return &c
}

// Validate checks the structural invariants the store relies on.
// Dangling project references are tolerated.
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.ID == "" {
			return fmt.Errorf("task with empty id")
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("duplicate task id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
		if !t.Status.Valid() {
			return fmt.Errorf("task %q: unknown status %q", t.ID, t.Status)
		}
	}

	projects := make(map[string]struct{}, len(d.Projects))
	for _, p := range d.Projects {
		if p.ID == "" {
			return fmt.Errorf("project with empty id")
		}
		if _, ok := projects[p.ID]; ok {
			return fmt.Errorf("duplicate project id %q", p.ID)
		}
		projects[p.ID] = struct{}{}
	}
	return nil
}
