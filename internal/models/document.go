package models

import (
	"errors"
	"time"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrDuplicateID     = errors.New("duplicate id")
)

// ProjectIndex maps project IDs to projects for constant-time lookup
type ProjectIndex map[string]Project

// ProjectIndex builds an index of the document's projects
func (d *Document) ProjectIndex() ProjectIndex {
	idx := make(ProjectIndex, len(d.Projects))
	for _, p := range d.Projects {
		idx[p.ID] = p
	}
	return idx
}

// Resolve returns the project a task points at. Unassigned tasks and
// tasks pointing at a deleted project both report false.
func (idx ProjectIndex) Resolve(t Task) (Project, bool) {
	if t.ProjectID == nil {
		return Project{}, false
	}
	p, ok := idx[*t.ProjectID]
	return p, ok
}

// AddTask appends a task, keeping insertion order
func (d *Document) AddTask(t Task) error {
	if _, ok := d.taskIndex(t.ID); ok {
		return ErrDuplicateID
	}
	d.Tasks = append(d.Tasks, t)
	return nil
}

// FindTask returns a pointer to the task with the given ID
func (d *Document) FindTask(id string) (*Task, error) {
	i, ok := d.taskIndex(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	return &d.Tasks[i], nil
}

// SetTaskStatus updates a task's status in place
func (d *Document) SetTaskStatus(id string, status Status) error {
	t, err := d.FindTask(id)
	if err != nil {
		return err
	}
	t.Status = status
	return nil
}

// AssignProject points a task at a project, or unassigns it when projectID is nil
func (d *Document) AssignProject(id string, projectID *string) error {
	t, err := d.FindTask(id)
	if err != nil {
		return err
	}
	if projectID != nil {
		if _, ok := d.ProjectIndex()[*projectID]; !ok {
			return ErrProjectNotFound
		}
		pid := *projectID
		projectID = &pid
	}
	t.ProjectID = projectID
	return nil
}

// DeleteTask removes a task
func (d *Document) DeleteTask(id string) error {
	i, ok := d.taskIndex(id)
	if !ok {
		return ErrTaskNotFound
	}
	d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
	return nil
}

// AddProject appends a project
func (d *Document) AddProject(p Project) error {
	if _, ok := d.ProjectIndex()[p.ID]; ok {
		return ErrDuplicateID
	}
	d.Projects = append(d.Projects, p)
	return nil
}

// DeleteProject removes a project. Tasks referring to it are left alone
// and resolve as unassigned from then on.
func (d *Document) DeleteProject(id string) error {
	for i, p := range d.Projects {
		if p.ID == id {
			d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
			return nil
		}
	}
	return ErrProjectNotFound
}

// TasksOn returns the tasks scheduled on the same calendar day as day.
// Tasks whose date cannot be parsed are skipped.
func (d *Document) TasksOn(day time.Time) []Task {
	y, m, dd := day.Date()
	var out []Task
	for _, t := range d.Tasks {
		when, err := time.ParseInLocation(DateLayout, t.Date, day.Location())
		if err != nil {
			continue
		}
		ty, tm, td := when.Date()
		if ty == y && tm == m && td == dd {
			out = append(out, t)
		}
	}
	return out
}

// Stats summarises task counts for the dashboard line
type Stats struct {
	Total         int
	ByStatus      map[Status]int
	Today         int
	TodayDone     int
	TodayProgress int // percent, 0 when nothing is scheduled today
}

// Stats computes task counts, using now to decide what "today" is
func (d *Document) Stats(now time.Time) Stats {
	s := Stats{
		Total:    len(d.Tasks),
		ByStatus: make(map[Status]int, len(Statuses)),
	}
	for _, t := range d.Tasks {
		s.ByStatus[t.Status]++
	}
	for _, t := range d.TasksOn(now) {
		s.Today++
		if t.Status == StatusDone {
			s.TodayDone++
		}
	}
	if s.Today > 0 {
		s.TodayProgress = s.TodayDone * 100 / s.Today
	}
	return s
}

func (d *Document) taskIndex(id string) (int, bool) {
	for i, t := range d.Tasks {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}
