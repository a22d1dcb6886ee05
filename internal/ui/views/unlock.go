package views

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskvault/internal/codec"
	"github.com/tgienger/taskvault/internal/ui/keys"
	"github.com/tgienger/taskvault/internal/ui/styles"
)

// UnlockView prompts for the vault password
type UnlockView struct {
	store    Store
	password textinput.Model
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	err      string
}

func NewUnlockView(store Store) *UnlockView {
	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 256

	return &UnlockView{
		store:    store,
		password: password,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *UnlockView) Init() tea.Cmd {
	v.password.Reset()
	v.password.Focus()
	return textinput.Blink
}

// Expired marks the prompt as shown because the session ran out
func (v *UnlockView) Expired() {
	v.err = "Session expired"
}

func (v *UnlockView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c", key.Matches(msg, v.keys.Back):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Enter):
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	v.password, cmd = v.password.Update(msg)
	return v, cmd
}

func (v *UnlockView) submit() tea.Cmd {
	err := v.store.Unlock(v.password.Value())
	v.password.Reset()
	switch {
	case err == nil:
		v.err = ""
		return func() tea.Msg { return Unlocked{} }
	case errors.Is(err, codec.ErrInvalidKey):
		v.err = "Wrong password"
	default:
		v.err = err.Error()
	}
	return nil
}

func (v *UnlockView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	errLine := ""
	if v.err != "" {
		errLine = s.Error.Render(v.err)
	}

	form := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Vault locked"),
		"",
		s.InputFocused.Width(inputWidth).Render(v.password.View()),
		errLine,
		"",
		s.TitleMuted.Render("↵ unlock • esc quit"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
