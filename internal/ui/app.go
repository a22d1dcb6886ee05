package ui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tgienger/taskvault/internal/ui/styles"
	"github.com/tgienger/taskvault/internal/ui/views"
	"github.com/tgienger/taskvault/internal/vault"
)

// Currently active view
type View int

const (
	ViewUnlock View = iota
	ViewTasks
	ViewProjects
)

// SessionExpired is sent from outside the program when the session gate
// runs out
type SessionExpired struct{}

type pollMsg struct{}

type App struct {
	store        views.Store
	pollInterval time.Duration
	logger       zerolog.Logger
	styles       *styles.Styles
	currentView  View
	unlock       *views.UnlockView
	taskList     *views.TaskListView
	projectList  *views.ProjectListView
	lastErr      error
	width        int
	height       int
}

// Creates a new application
func NewApp(store views.Store, pollInterval time.Duration, logger zerolog.Logger) *App {
	return &App{
		store:        store,
		pollInterval: pollInterval,
		logger:       logger,
		styles:       styles.NewStyles(),
		currentView:  ViewTasks,
		unlock:       views.NewUnlockView(store),
		taskList:     views.NewTaskListView(store),
		projectList:  views.NewProjectListView(store),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		views.LoadDocument(a.store),
		a.poll(),
	)
}

// poll schedules the next background re-read
func (a *App) poll() tea.Cmd {
	return tea.Tick(a.pollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) showUnlock() tea.Cmd {
	if a.currentView == ViewUnlock {
		return nil
	}
	a.currentView = ViewUnlock
	return tea.Batch(a.unlock.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.unlock.Update(msg)
		a.taskList.Update(msg)
		a.projectList.Update(msg)
		return a, nil

	case pollMsg:
		// The prompt owns the screen while locked
		if a.currentView == ViewUnlock {
			return a, a.poll()
		}
		return a, tea.Batch(views.LoadDocument(a.store), a.poll())

	case views.DocumentLoaded:
		a.lastErr = nil
		a.taskList.SetDocument(msg.Doc)
		a.projectList.SetDocument(msg.Doc)
		if a.currentView == ViewUnlock {
			a.currentView = ViewTasks
			return a, a.resize()
		}
		return a, nil

	case views.LoadFailed:
		if errors.Is(msg.Err, vault.ErrLocked) {
			return a, a.showUnlock()
		}
		a.logger.Error().Err(msg.Err).Msg("store operation failed")
		a.lastErr = msg.Err
		return a, nil

	case SessionExpired:
		a.logger.Debug().Msg("session expired")
		a.unlock.Expired()
		return a, a.showUnlock()

	case views.Unlocked:
		return a, views.LoadDocument(a.store)

	case views.ShowProjects:
		a.currentView = ViewProjects
		return a, a.resize()

	case views.BackToTasks:
		a.currentView = ViewTasks
		return a, a.resize()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewUnlock:
		_, cmd = a.unlock.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	var out string
	switch a.currentView {
	case ViewUnlock:
		return a.unlock.View()
	case ViewProjects:
		out = a.projectList.View()
	default:
		out = a.taskList.View()
	}
	if a.lastErr != nil {
		out += "\n" + a.styles.Error.Render("Error: "+a.lastErr.Error())
	}
	return out
}
