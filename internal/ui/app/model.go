package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	checkindto "geomoments/internal/modules/checkin/dto"
	apperrors "geomoments/internal/platform/errors"
	"geomoments/internal/ui/components"
	"geomoments/internal/ui/theme"
	accountview "geomoments/internal/ui/views/account"
	feedview "geomoments/internal/ui/views/feed"
	"geomoments/internal/ui/views/mapview"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type checkInPort interface {
	List(ctx context.Context, offline bool, limit int) (checkindto.ListOutput, error)
	Create(ctx context.Context, caption string, imagePaths []string, lat, lng float64) (checkindto.CheckInOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabMap tabID = iota
	tabFeed
	tabAccount
	tabCount
)

var tabLabels = [tabCount]string{"Map", "Feed", "Account"}

// ─── async messages ──────────────────────────────────────────────────────────

type checkInCreatedMsg struct {
	item checkindto.CheckInOutput
	err  error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Move    key.Binding
	Pan     key.Binding
	Zoom    key.Binding
	Select  key.Binding
	CheckIn key.Binding
	Refresh key.Binding
	Logout  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Move:    key.NewBinding(key.WithKeys("h", "j", "k", "l"), key.WithHelp("hjkl", "move cursor")),
		Pan:     key.NewBinding(key.WithKeys("H", "J", "K", "L"), key.WithHelp("HJKL", "pan map")),
		Zoom:    key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		CheckIn: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "check in")),
		Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh feed")),
		Logout:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "log out")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Pan, k.Zoom, k.Select, k.CheckIn},
		{k.Tab, k.Refresh, k.Logout},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes input between the tabs,
// the command palette and the check-in form.
type Model struct {
	checkins checkInPort

	mapView     mapview.Model
	feedView    feedview.Model
	accountView accountview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	form      components.CheckInForm
	posting   bool
	status    string
	width     int
	height    int
}

func NewModel(account accountview.AccountPort, checkins checkInPort, geo mapview.MapPort) Model {
	return Model{
		checkins:    checkins,
		mapView:     mapview.New(geo),
		feedView:    feedview.New(checkins),
		accountView: accountview.New(account),
		activeTab:   tabMap,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		form:        components.NewCheckInForm(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.mapView.Init(),
		m.feedView.Init(),
		m.accountView.Init(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// overlays take all keys while open
	if _, ok := msg.(tea.KeyMsg); ok {
		if m.palette.Visible() {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
		if m.form.Visible() {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.form.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case spinner.TickMsg:
		var c1, c2, c3 tea.Cmd
		m.mapView, c1 = m.mapView.Update(msg)
		m.feedView, c2 = m.feedView.Update(msg)
		m.accountView, c3 = m.accountView.Update(msg)
		return m, tea.Batch(c1, c2, c3)

	case mapview.ReadyMsg:
		var cmd tea.Cmd
		m.mapView, cmd = m.mapView.Update(msg)
		m.mapView.SetCheckIns(m.feedView.Items())
		if msg.Err != nil {
			m.status = "map: " + msg.Err.Error()
		}
		return m, cmd

	case feedview.LoadedMsg:
		var cmd tea.Cmd
		m.feedView, cmd = m.feedView.Update(msg)
		switch {
		case msg.Err != nil:
			m.status = "feed: " + msg.Err.Error()
		case msg.Out.Stale && msg.Out.Warning != "":
			m.status = "offline, showing cached check-ins: " + msg.Out.Warning
		case msg.Out.Stale:
			m.status = fmt.Sprintf("%d cached check-ins", len(msg.Out.Items))
		default:
			m.status = fmt.Sprintf("%d check-ins", len(msg.Out.Items))
		}
		if msg.Err == nil {
			m.mapView.SetCheckIns(m.feedView.Items())
		}
		return m, cmd

	case feedview.FocusMsg:
		if err := m.mapView.Goto(msg.Lat, msg.Lng); err != nil {
			m.status = "map: " + err.Error()
			return m, nil
		}
		m.activeTab = tabMap
		return m, nil

	case mapview.SelectedMsg:
		m.feedView.SelectID(msg.MarkerID)
		if c, ok := m.feedView.Selected(); ok && c.ID == msg.MarkerID {
			m.status = "selected: " + displayCaption(c)
		}
		return m, nil

	case mapview.CheckInRequestMsg:
		return m.openCheckIn(msg.Lat, msg.Lng)

	case accountview.SessionMsg:
		var cmd tea.Cmd
		m.accountView, cmd = m.accountView.Update(msg)
		m.status = sessionStatus(msg)
		return m, cmd

	case components.CheckInSubmitMsg:
		m.posting = true
		m.status = fmt.Sprintf("posting check-in with %d image(s)…", len(msg.ImagePaths))
		return m, m.createCheckInCmd(msg)

	case components.CheckInCancelMsg:
		m.status = "check-in cancelled"
		return m, nil

	case checkInCreatedMsg:
		m.posting = false
		if msg.err != nil {
			return m.handleError("check-in", msg.err)
		}
		cmds = append(cmds, m.feedView.Prepend(msg.item))
		m.mapView.AddCheckIn(msg.item)
		m.status = "posted: " + displayCaption(msg.item)
		return m, tea.Batch(cmds...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// let the active view keep keys while it is taking text input
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "R":
			m.status = "refreshing…"
			return m, m.feedView.Refresh(false)
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabMap:
		m.mapView, tabCmd = m.mapView.Update(msg)
	case tabFeed:
		m.feedView, tabCmd = m.feedView.Update(msg)
	case tabAccount:
		m.accountView, tabCmd = m.accountView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.form.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabMap:
		return m.mapView.View()
	case tabFeed:
		return m.feedView.View()
	case tabAccount:
		return m.accountView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "geomoments  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	session := m.accountView.Session()
	switch {
	case session.Authenticated && session.Expired:
		left = theme.Bad.Render("● "+session.User.Username+" (expired)") + "  " + left
	case session.Authenticated:
		left = theme.Good.Render("● "+session.User.Username) + "  " + left
	default:
		left = theme.Muted.Render("○ anonymous") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  ::command  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "login":
		user := ""
		if len(parts) > 1 {
			user = parts[1]
		}
		m.activeTab = tabAccount
		return m, m.accountView.OpenLogin(user)

	case "register":
		m.activeTab = tabAccount
		return m, m.accountView.OpenRegister()

	case "logout":
		if !m.accountView.Session().Authenticated {
			m.status = "not logged in"
			return m, nil
		}
		return m, m.accountView.Logout()

	case "refresh":
		m.status = "refreshing…"
		return m, m.feedView.Refresh(false)

	case "offline":
		m.status = "loading cached check-ins…"
		return m, m.feedView.Refresh(true)

	case "goto":
		if len(parts) != 3 {
			m.status = "usage: goto <lat> <lng>"
			return m, nil
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSuffix(parts[1], ","), 64)
		lng, errLng := strconv.ParseFloat(parts[2], 64)
		if errLat != nil || errLng != nil {
			m.status = "goto: coordinates must be numbers"
			return m, nil
		}
		if err := m.mapView.Goto(lat, lng); err != nil {
			m.status = "goto: " + err.Error()
			return m, nil
		}
		m.activeTab = tabMap
		m.status = fmt.Sprintf("selected %.5f, %.5f", lat, lng)
		return m, nil

	case "checkin":
		if len(parts) < 2 {
			m.status = "usage: checkin <image>[,<image>...] [caption]"
			return m, nil
		}
		if !m.accountView.Session().Authenticated {
			return m.requireLogin()
		}
		pos, ok := m.mapView.Selected()
		if !ok {
			m.status = "select a position on the map first"
			m.activeTab = tabMap
			return m, nil
		}
		caption := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0]+" "+parts[1]))
		submit := components.CheckInSubmitMsg{
			ImagePaths: components.SplitPaths(parts[1]),
			Caption:    caption,
			Lat:        pos.Lat,
			Lng:        pos.Lng,
		}
		return m, func() tea.Msg { return submit }

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabFeed:
		return m.feedView.Filtering()
	case tabAccount:
		return m.accountView.Capturing()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.mapView, _ = m.mapView.Update(sz)
	m.feedView, _ = m.feedView.Update(sz)
	m.accountView, _ = m.accountView.Update(sz)
}

func (m Model) openCheckIn(lat, lng float64) (tea.Model, tea.Cmd) {
	if !m.accountView.Session().Authenticated {
		return m.requireLogin()
	}
	if m.posting {
		m.status = "a check-in is already being posted"
		return m, nil
	}
	return m, m.form.Open(lat, lng)
}

func (m Model) requireLogin() (tea.Model, tea.Cmd) {
	m.status = "log in to check in"
	m.activeTab = tabAccount
	return m, m.accountView.OpenLogin("")
}

func (m Model) handleError(what string, err error) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(err, apperrors.ErrSessionExpired):
		m.status = apperrors.ErrSessionExpired.Error()
		m.activeTab = tabAccount
		return m, m.accountView.OpenLogin("")
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return m.requireLogin()
	}
	m.status = what + ": " + err.Error()
	return m, nil
}

func sessionStatus(msg accountview.SessionMsg) string {
	if msg.Err != nil {
		return string(msg.Action) + ": " + msg.Err.Error()
	}
	switch msg.Action {
	case accountview.ActionLogin, accountview.ActionRegister:
		return "logged in as " + msg.Session.User.Username
	case accountview.ActionLogout:
		return "logged out"
	}
	if msg.Session.Authenticated && msg.Session.Expired {
		return apperrors.ErrSessionExpired.Error()
	}
	if msg.Session.Authenticated {
		return "welcome back, " + msg.Session.User.Username
	}
	return "ready"
}

func displayCaption(c checkindto.CheckInOutput) string {
	if strings.TrimSpace(c.Caption) == "" {
		return "No caption"
	}
	return c.Caption
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) createCheckInCmd(in components.CheckInSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		if m.checkins == nil {
			return checkInCreatedMsg{err: errors.New("check-ins unavailable")}
		}
		item, err := m.checkins.Create(context.Background(), in.Caption, in.ImagePaths, in.Lat, in.Lng)
		return checkInCreatedMsg{item: item, err: err}
	}
}
