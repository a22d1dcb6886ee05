package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskvault/internal/models"
	"github.com/tgienger/taskvault/internal/ui/keys"
	"github.com/tgienger/taskvault/internal/ui/styles"
)

var statusGlyphs = map[models.Status]string{
	models.StatusTodo:       "[ ]",
	models.StatusInProgress: "[~]",
	models.StatusDone:       "[x]",
}

// TaskListView shows every task with its project and status
type TaskListView struct {
	store  Store
	doc    *models.Document
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	width  int
	height int

	cursor  int
	scrollY int
	filter  *models.Status // nil = all statuses

	// New task form
	creating  bool
	editTitle textinput.Model
	editDesc  textarea.Model
	editDate  textinput.Model
	focusIdx  int // 0=title, 1=desc, 2=date, 3=confirm
	formErr   string

	confirmingDelete bool
	deleteTarget     models.Task
}

func NewTaskListView(store Store) *TaskListView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description (optional)"
	editDesc.CharLimit = 1000
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDate := textinput.New()
	editDate.Placeholder = models.DateLayout
	editDate.CharLimit = len(models.DateLayout)

	return &TaskListView{
		store:     store,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		now:       time.Now,
		editTitle: editTitle,
		editDesc:  editDesc,
		editDate:  editDate,
	}
}

// SetDocument replaces the shown document, keeping the cursor in range
func (v *TaskListView) SetDocument(doc *models.Document) {
	v.doc = doc
	if n := len(v.visible()); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
	v.ensureVisible()
}

func (v *TaskListView) Init() tea.Cmd {
	return nil
}

// visible returns the tasks that pass the status filter
func (v *TaskListView) visible() []models.Task {
	if v.doc == nil {
		return nil
	}
	if v.filter == nil {
		return v.doc.Tasks
	}
	var out []models.Task
	for _, t := range v.doc.Tasks {
		if t.Status == *v.filter {
			out = append(out, t)
		}
	}
	return out
}

func (v *TaskListView) selected() (models.Task, bool) {
	tasks := v.visible()
	if v.cursor < 0 || v.cursor >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[v.cursor], true
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.visible())-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Status):
		if task, ok := v.selected(); ok {
			return v, v.mutate(func(d *models.Document) error {
				return d.SetTaskStatus(task.ID, task.Status.Next())
			})
		}

	case key.Matches(msg, v.keys.Project):
		if task, ok := v.selected(); ok {
			next := v.nextProject(task)
			return v, v.mutate(func(d *models.Document) error {
				return d.AssignProject(task.ID, next)
			})
		}

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTarget = task
		}

	case key.Matches(msg, v.keys.Filter):
		v.cycleFilter()

	case key.Matches(msg, v.keys.Projects):
		return v, func() tea.Msg { return ShowProjects{} }

	case key.Matches(msg, v.keys.Lock):
		v.store.Lock()
		return v, LoadDocument(v.store)
	}
	return v, nil
}

// mutate applies fn to a copy of the document and persists it
func (v *TaskListView) mutate(fn func(*models.Document) error) tea.Cmd {
	if v.doc == nil {
		return nil
	}
	next := v.doc.Clone()
	if err := fn(next); err != nil {
		return func() tea.Msg { return LoadFailed{Err: err} }
	}
	v.SetDocument(next)
	return save(v.store, next)
}

// nextProject returns the project after the task's current one, cycling
// through unassigned. A dangling reference counts as unassigned.
func (v *TaskListView) nextProject(task models.Task) *string {
	projects := v.doc.Projects
	if len(projects) == 0 {
		return nil
	}
	current := -1
	if task.ProjectID != nil {
		for i, p := range projects {
			if p.ID == *task.ProjectID {
				current = i
				break
			}
		}
	}
	if current+1 >= len(projects) {
		return nil
	}
	id := projects[current+1].ID
	return &id
}

func (v *TaskListView) cycleFilter() {
	switch {
	case v.filter == nil:
		s := models.Statuses[0]
		v.filter = &s
	case *v.filter == models.Statuses[len(models.Statuses)-1]:
		v.filter = nil
	default:
		s := v.filter.Next()
		v.filter = &s
	}
	v.cursor = 0
	v.scrollY = 0
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTarget.ID
		return v, v.mutate(func(d *models.Document) error {
			return d.DeleteTask(id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *TaskListView) startNewTask() {
	v.creating = true
	v.focusIdx = 0
	v.formErr = ""
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDate.SetValue(v.now().Format(models.DateLayout))
	v.updateEditFocus()
}

func (v *TaskListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter) && v.focusIdx != 1:
		if v.focusIdx < 3 {
			v.focusIdx++
			v.updateEditFocus()
			return v, nil
		}
		return v, v.saveTask()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case 2:
		v.editDate, cmd = v.editDate.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDate.Blur()
	switch v.focusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	case 2:
		v.editDate.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.formErr = "Title is required"
		return nil
	}
	when, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(v.editDate.Value()), time.Local)
	if err != nil {
		v.formErr = "Date must look like " + models.DateLayout
		return nil
	}

	task := models.NewTask(title, strings.TrimSpace(v.editDesc.Value()), nil, when)
	v.creating = false
	v.filter = nil
	cmd := v.mutate(func(d *models.Document) error {
		return d.AddTask(task)
	})
	v.cursor = max(len(v.visible())-1, 0)
	v.ensureVisible()
	return cmd
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin
	availableHeight := max(v.height-10, 3)
	return max(availableHeight/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderEditForm()
	}

	if v.doc == nil {
		return v.styles.TitleMuted.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleText := "Tasks"
	if v.doc.User.Name != "" {
		titleText = v.doc.User.Name + "'s tasks"
	}
	if v.doc.User.EncryptionEnabled {
		if left := v.store.SessionRemaining(); left > 0 {
			titleText += fmt.Sprintf(" (encrypted, locks in %s)", left.Round(time.Second))
		} else {
			titleText += " (encrypted)"
		}
	}

	filterLabel := "All"
	if v.filter != nil {
		filterLabel = string(*v.filter)
	}
	filterBtn := s.Button.Render("Status: " + filterLabel)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(titleText),
		lipgloss.JoinHorizontal(lipgloss.Center,
			filterBtn, "  ", v.renderProgress(clamp(contentWidth-30, 10, 30)),
		),
	)
}

// renderProgress draws today's completion as a bar
func (v *TaskListView) renderProgress(width int) string {
	s := v.styles
	stats := v.doc.Stats(v.now())
	if stats.Today == 0 {
		return s.TitleMuted.Render("Nothing scheduled today")
	}

	filled := width * stats.TodayProgress / 100
	bar := lipgloss.NewStyle().Foreground(styles.Current.Success).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.Current.Border).Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("Today %s %d/%d", bar, stats.TodayDone, stats.Today)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles
	tasks := v.visible()

	if len(tasks) == 0 {
		if v.filter != nil {
			return s.TitleMuted.Render("No tasks with this status. Press 'f' to change the filter.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	projects := v.doc.ProjectIndex()
	endIdx := min(v.scrollY+v.visibleItems(), len(tasks))

	var items []string
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(tasks[i], projects, i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, projects models.ProjectIndex, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	glyph := lipgloss.NewStyle().Foreground(styles.StatusColor(task.Status)).Render(statusGlyphs[task.Status])
	titleLine := glyph + " " + task.Title

	var metaParts []string
	if p, ok := projects.Resolve(task); ok {
		metaParts = append(metaParts, lipgloss.NewStyle().Foreground(styles.TagColor(p.Color)).Render(p.Name))
	} else {
		metaParts = append(metaParts, s.TitleMuted.Render("unassigned"))
	}
	metaParts = append(metaParts, s.TitleMuted.Render(strings.Replace(task.Date, "T", " ", 1)))
	metaLine := "    " + strings.Join(metaParts, " · ")

	itemStyle := s.ListItem.Width(width)
	if selected {
		itemStyle = s.ListSelected.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Render(titleLine),
		itemStyle.Render(metaLine),
	) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle := s.Input
	descStyle := s.Input
	dateStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		dateStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 54)

	errLine := ""
	if v.formErr != "" {
		errLine = s.Error.Render(v.formErr)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Task"),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.editDesc.View()),
		"",
		"Scheduled:",
		dateStyle.Width(inputWidth).Render(v.editDate.View()),
		"",
		btnStyle.Render(" Create "),
		errLine,
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s new • %s status • %s project • %s del • %s filter • %s projects • %s lock • %s quit",
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("P"),
			v.styles.HelpKey.Render("L"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed.", v.deleteTarget.Title)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
