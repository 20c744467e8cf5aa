package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "geomoments/internal/modules/auth/dto"
	"geomoments/internal/ui/theme"
)

type AccountPort interface {
	Current(ctx context.Context) (authdto.SessionOutput, error)
	Login(ctx context.Context, usernameOrEmail, password string) (authdto.SessionOutput, error)
	Register(ctx context.Context, username, email, password string) (authdto.SessionOutput, error)
	Logout(ctx context.Context) error
}

type Action string

const (
	ActionLoad     Action = "load"
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
	ActionLogout   Action = "logout"
)

// SessionMsg reports the session after an account action.
type SessionMsg struct {
	Action  Action
	Session authdto.SessionOutput
	Err     error
}

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

type Model struct {
	port     AccountPort
	session  authdto.SessionOutput
	mode     mode
	login    []textinput.Model
	register []textinput.Model
	focus    int
	editing  bool
	busy     bool
	err      string
	spinner  spinner.Model
	width    int
	height   int
}

func newField(prompt, placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func New(port AccountPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		port: port,
		login: []textinput.Model{
			newField("user     ", "username or email", false),
			newField("password ", "", true),
		},
		register: []textinput.Model{
			newField("username ", "", false),
			newField("email    ", "you@example.com", false),
			newField("password ", "", true),
		},
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.run(ActionLoad, func(ctx context.Context) (authdto.SessionOutput, error) {
		return m.port.Current(ctx)
	})
}

// Capturing reports whether a form field holds the keyboard.
func (m Model) Capturing() bool { return m.editing }

func (m Model) Session() authdto.SessionOutput { return m.session }

func (m Model) fields() []textinput.Model {
	if m.mode == modeRegister {
		return m.register
	}
	return m.login
}

func (m *Model) setField(i int, ti textinput.Model) {
	if m.mode == modeRegister {
		m.register[i] = ti
		return
	}
	m.login[i] = ti
}

func (m *Model) focusField(i int) tea.Cmd {
	fields := m.fields()
	for j := range fields {
		f := fields[j]
		f.Blur()
		m.setField(j, f)
	}
	m.focus = (i + len(fields)) % len(fields)
	f := fields[m.focus]
	cmd := f.Focus()
	m.setField(m.focus, f)
	return cmd
}

// OpenLogin starts the login form, optionally with the user filled in.
func (m *Model) OpenLogin(user string) tea.Cmd {
	m.mode = modeLogin
	m.editing = true
	m.err = ""
	if user != "" {
		m.login[0].SetValue(user)
		return m.focusField(1)
	}
	return m.focusField(0)
}

func (m *Model) OpenRegister() tea.Cmd {
	m.mode = modeRegister
	m.editing = true
	m.err = ""
	return m.focusField(0)
}

// Logout clears the session.
func (m *Model) Logout() tea.Cmd {
	m.busy = true
	return m.run(ActionLogout, func(ctx context.Context) (authdto.SessionOutput, error) {
		return authdto.SessionOutput{}, m.port.Logout(ctx)
	})
}

func (m Model) run(action Action, fn func(context.Context) (authdto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SessionMsg{Action: action, Err: errors.New("account unavailable")}
		}
		out, err := fn(context.Background())
		return SessionMsg{Action: action, Session: out, Err: err}
	}
}

func (m *Model) submit() tea.Cmd {
	values := make([]string, 0, 3)
	for _, f := range m.fields() {
		values = append(values, strings.TrimSpace(f.Value()))
	}
	for _, v := range values {
		if v == "" {
			m.err = "all fields are required"
			return nil
		}
	}
	m.busy = true
	m.err = ""
	if m.mode == modeRegister {
		return tea.Batch(m.spinner.Tick, m.run(ActionRegister, func(ctx context.Context) (authdto.SessionOutput, error) {
			return m.port.Register(ctx, values[0], values[1], values[2])
		}))
	}
	return tea.Batch(m.spinner.Tick, m.run(ActionLogin, func(ctx context.Context) (authdto.SessionOutput, error) {
		return m.port.Login(ctx, values[0], values[1])
	}))
}

func (m *Model) clearForms() {
	for i := range m.login {
		m.login[i].SetValue("")
		m.login[i].Blur()
	}
	for i := range m.register {
		m.register[i].SetValue("")
		m.register[i].Blur()
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case SessionMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			if msg.Action == ActionLoad || msg.Action == ActionLogout {
				m.session = msg.Session
			}
			return m, nil
		}
		m.err = ""
		m.session = msg.Session
		if msg.Action == ActionLogin || msg.Action == ActionRegister {
			m.editing = false
			m.clearForms()
		}

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.editing {
			return m.handleFormKey(msg)
		}
		switch msg.String() {
		case "enter", "i":
			if !m.session.Authenticated || m.session.Expired {
				return m, m.OpenLogin("")
			}
		case "r":
			if !m.session.Authenticated {
				return m, m.OpenRegister()
			}
		case "x":
			if m.session.Authenticated {
				return m, m.Logout()
			}
		}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.err = ""
		return m, m.blurAll()
	case "tab":
		if m.mode == modeLogin {
			return m, m.OpenRegister()
		}
		return m, m.OpenLogin("")
	case "down":
		return m, m.focusField(m.focus + 1)
	case "up", "shift+tab":
		return m, m.focusField(m.focus - 1)
	case "enter":
		if m.focus < len(m.fields())-1 {
			return m, m.focusField(m.focus + 1)
		}
		return m, m.submit()
	}
	f := m.fields()[m.focus]
	var cmd tea.Cmd
	f, cmd = f.Update(msg)
	m.setField(m.focus, f)
	return m, cmd
}

func (m *Model) blurAll() tea.Cmd {
	for i := range m.login {
		m.login[i].Blur()
	}
	for i := range m.register {
		m.register[i].Blur()
	}
	return nil
}

func (m Model) View() string {
	var sb strings.Builder
	switch {
	case m.busy:
		sb.WriteString(m.spinner.View() + " Working…\n")
	case m.editing:
		sb.WriteString(m.renderForm())
	case m.session.Authenticated:
		sb.WriteString(m.renderUser())
	default:
		sb.WriteString(theme.Title.Render("Not logged in") + "\n\n")
		sb.WriteString(theme.Muted.Render("enter: log in  r: register"))
	}
	if m.err != "" {
		sb.WriteString("\n\n" + theme.Bad.Render(m.err))
	}
	box := theme.Pane.Width(min(60, max(m.width-4, 20))).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderUser() string {
	s := m.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.User.Username) + "\n\n")
	sb.WriteString(theme.Muted.Render("email   ") + s.User.Email + "\n")
	sb.WriteString(theme.Muted.Render("id      ") + s.User.ID + "\n")
	if !s.ExpiresAt.IsZero() {
		line := s.ExpiresAt.Local().Format("2006-01-02 15:04")
		if s.Expired {
			line = theme.Bad.Render(line + " (expired)")
		}
		sb.WriteString(theme.Muted.Render("expires ") + line + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("x: log out"))
	if s.Expired {
		sb.WriteString(theme.Muted.Render("  enter: log in again"))
	}
	return sb.String()
}

func (m Model) renderForm() string {
	title, other := "Log in", "register"
	if m.mode == modeRegister {
		title, other = "Register", "log in"
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(title) + "\n\n")
	for _, f := range m.fields() {
		sb.WriteString(f.View() + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("enter: next/submit  tab: %s  esc: cancel", other)))
	return sb.String()
}
