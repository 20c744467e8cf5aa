package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	checkindto "geomoments/internal/modules/checkin/dto"
	"geomoments/internal/ui/theme"
)

const (
	noCaption = "No caption"
	feedLimit = 200
)

type FeedPort interface {
	List(ctx context.Context, offline bool, limit int) (checkindto.ListOutput, error)
}

// LoadedMsg is broadcast so the map can follow the feed.
type LoadedMsg struct {
	Out checkindto.ListOutput
	Err error
}

// FocusMsg asks the map to center on a check-in.
type FocusMsg struct {
	ID  string
	Lat float64
	Lng float64
}

type checkInItem struct {
	item checkindto.CheckInOutput
}

func caption(c checkindto.CheckInOutput) string {
	if strings.TrimSpace(c.Caption) == "" {
		return noCaption
	}
	return c.Caption
}

func (i checkInItem) Title() string { return caption(i.item) }
func (i checkInItem) Description() string {
	desc := i.item.CreatedAt.Local().Format("2006-01-02 15:04")
	if i.item.TypeLabel != "" {
		desc += "  " + i.item.TypeLabel
	}
	return fmt.Sprintf("%s  ♥ %d", desc, i.item.LikeCount)
}
func (i checkInItem) FilterValue() string { return i.item.Caption }

type Model struct {
	port      FeedPort
	list      list.Model
	detail    viewport.Model
	spinner   spinner.Model
	loading   bool
	stale     bool
	warning   string
	fetchedAt time.Time
	width     int
	height    int
}

func New(port FeedPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Feed"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Refresh(false), m.spinner.Tick)
}

// Refresh reloads the feed; offline reads only the local cache.
func (m Model) Refresh(offline bool) tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		out, err := m.port.List(context.Background(), offline, feedLimit)
		return LoadedMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Feed: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Feed"
		m.stale = msg.Out.Stale
		m.warning = msg.Out.Warning
		m.fetchedAt = msg.Out.FetchedAt
		items := make([]list.Item, len(msg.Out.Items))
		for i, c := range msg.Out.Items {
			items[i] = checkInItem{item: c}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if c, ok := m.Selected(); ok {
				cmds = append(cmds, func() tea.Msg { return FocusMsg{ID: c.ID, Lat: c.Lat, Lng: c.Lng} })
			}
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prev := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prev {
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

// Prepend shows a freshly created check-in at the top of the feed.
func (m *Model) Prepend(c checkindto.CheckInOutput) tea.Cmd {
	items := []list.Item{checkInItem{item: c}}
	for _, it := range m.list.Items() {
		if ci, ok := it.(checkInItem); ok && ci.item.ID == c.ID {
			continue
		}
		items = append(items, it)
	}
	m.loading = false
	cmd := m.list.SetItems(items)
	m.list.Select(0)
	m.detail.SetContent(m.renderDetail())
	return cmd
}

// Items returns the check-ins currently listed, newest first.
func (m Model) Items() []checkindto.CheckInOutput {
	out := make([]checkindto.CheckInOutput, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if ci, ok := it.(checkInItem); ok {
			out = append(out, ci.item)
		}
	}
	return out
}

func (m Model) Selected() (checkindto.CheckInOutput, bool) {
	if item, ok := m.list.SelectedItem().(checkInItem); ok {
		return item.item, true
	}
	return checkindto.CheckInOutput{}, false
}

// SelectID moves the list cursor to the check-in with id.
func (m *Model) SelectID(id string) {
	for i, it := range m.list.Items() {
		if ci, ok := it.(checkInItem); ok && ci.item.ID == id {
			m.list.Select(i)
			m.detail.SetContent(m.renderDetail())
			return
		}
	}
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading check-ins…")
	}

	listW := m.width * 45 / 100
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m *Model) resize() {
	listW := m.width * 45 / 100
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	var sb strings.Builder
	if m.stale {
		note := "offline copy"
		if !m.fetchedAt.IsZero() {
			note += " from " + m.fetchedAt.Local().Format("2006-01-02 15:04")
		}
		sb.WriteString(theme.Hot.Render(note) + "\n")
		if m.warning != "" {
			sb.WriteString(theme.Muted.Render(m.warning) + "\n")
		}
		sb.WriteString("\n")
	}
	c, ok := m.Selected()
	if !ok {
		sb.WriteString(theme.Muted.Render("No check-ins yet"))
		return sb.String()
	}
	sb.WriteString(theme.Title.Render(caption(c)) + "\n\n")
	sb.WriteString(theme.Muted.Render("when:   ") + c.CreatedAt.Local().Format("Mon 2 Jan 2006 15:04") + "\n")
	sb.WriteString(theme.Muted.Render("where:  ") + fmt.Sprintf("%.5f, %.5f", c.Lat, c.Lng) + "\n")
	sb.WriteString(theme.Muted.Render("likes:  ") + fmt.Sprintf("%d", c.LikeCount) + "\n")
	if c.TypeLabel != "" {
		sb.WriteString(theme.Muted.Render("type:   ") + c.TypeLabel + "\n")
	}
	if c.StatusLabel != "" {
		sb.WriteString(theme.Muted.Render("status: ") + c.StatusLabel + "\n")
	}
	if len(c.ImageURLs) > 0 {
		sb.WriteString("\n" + theme.Muted.Render("images:") + "\n")
		for _, u := range c.ImageURLs {
			sb.WriteString("  " + u + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: show on map"))
	return sb.String()
}
