package mapview

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	checkindto "geomoments/internal/modules/checkin/dto"
	geodto "geomoments/internal/modules/geo/dto"
	"geomoments/internal/ui/theme"
)

const (
	glyphEmpty    = "·"
	glyphMarker   = "◉"
	glyphSelected = "✚"
	infoWidth     = 34
)

type MapPort interface {
	Viewport(ctx context.Context, cols, rows int) (geodto.Viewport, error)
	Grid(ctx context.Context, viewport geodto.Viewport, markers []geodto.MarkerInput, selected *geodto.Position) (geodto.GridOutput, error)
	Pick(ctx context.Context, viewport geodto.Viewport, markers []geodto.MarkerInput, col, row int) (geodto.PickOutput, error)
	Move(ctx context.Context, viewport geodto.Viewport, dCol, dRow, dZoom int) (geodto.Viewport, error)
	Recenter(ctx context.Context, viewport geodto.Viewport, lat, lng float64) (geodto.Viewport, error)
}

type ReadyMsg struct {
	Viewport geodto.Viewport
	Err      error
}

// CheckInRequestMsg asks the app to open the check-in form at a position.
type CheckInRequestMsg struct {
	Lat float64
	Lng float64
}

// SelectedMsg reports a marker picked on the map.
type SelectedMsg struct {
	MarkerID string
}

type Model struct {
	port     MapPort
	spinner  spinner.Model
	ready    bool
	viewport geodto.Viewport
	grid     geodto.GridOutput
	markers  []geodto.MarkerInput
	captions map[string]string
	cursor   geodto.Cell
	selected *geodto.Position
	markerID string
	err      string
	width    int
	height   int
}

func New(port MapPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Globe
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)
	return Model{port: port, spinner: sp, captions: map[string]string{}}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if m.port == nil {
			return ReadyMsg{Err: fmt.Errorf("map unavailable")}
		}
		v, err := m.port.Viewport(context.Background(), 1, 1)
		return ReadyMsg{Viewport: v, Err: err}
	})
}

func (m Model) gridSize() (int, int) {
	cols := m.width - infoWidth - 4
	rows := m.height - 2
	return max(cols, 1), max(rows, 1)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.ready {
			unsized := m.viewport.Cols <= 1
			m.viewport.Cols, m.viewport.Rows = m.gridSize()
			if unsized {
				m.cursor = geodto.Cell{Col: m.viewport.Cols / 2, Row: m.viewport.Rows / 2}
			}
			m.clampCursor()
			m.refresh()
		}

	case ReadyMsg:
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return m, nil
		}
		m.ready = true
		m.viewport = msg.Viewport
		m.viewport.Cols, m.viewport.Rows = m.gridSize()
		m.cursor = geodto.Cell{Col: m.viewport.Cols / 2, Row: m.viewport.Rows / 2}
		m.refresh()

	case spinner.TickMsg:
		if !m.ready && m.err == "" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if !m.ready {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.cursor.Col--
	case "right", "l":
		m.cursor.Col++
	case "up", "k":
		m.cursor.Row--
	case "down", "j":
		m.cursor.Row++
	case "H":
		m.move(-m.viewport.Cols/4, 0, 0)
	case "L":
		m.move(m.viewport.Cols/4, 0, 0)
	case "K":
		m.move(0, -m.viewport.Rows/4, 0)
	case "J":
		m.move(0, m.viewport.Rows/4, 0)
	case "+", "=":
		m.move(0, 0, 1)
	case "-", "_":
		m.move(0, 0, -1)
	case "enter":
		return m, m.selectCursor()
	case "c":
		pos, ok := m.Selected()
		if !ok {
			pick, err := m.port.Pick(context.Background(), m.viewport, nil, m.cursor.Col, m.cursor.Row)
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			pos = pick.Position
		}
		return m, func() tea.Msg { return CheckInRequestMsg{Lat: pos.Lat, Lng: pos.Lng} }
	default:
		return m, nil
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) move(dCol, dRow, dZoom int) {
	v, err := m.port.Move(context.Background(), m.viewport, dCol, dRow, dZoom)
	if err != nil {
		m.err = err.Error()
		return
	}
	m.viewport = v
	m.refresh()
}

func (m *Model) selectCursor() tea.Cmd {
	pick, err := m.port.Pick(context.Background(), m.viewport, m.markers, m.cursor.Col, m.cursor.Row)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	pos := pick.Position
	m.selected = &pos
	m.markerID = pick.MarkerID
	m.refresh()
	if pick.MarkerID == "" {
		return nil
	}
	id := pick.MarkerID
	return func() tea.Msg { return SelectedMsg{MarkerID: id} }
}

func (m *Model) clampCursor() {
	m.cursor.Col = min(max(m.cursor.Col, 0), m.viewport.Cols-1)
	m.cursor.Row = min(max(m.cursor.Row, 0), m.viewport.Rows-1)
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	grid, err := m.port.Grid(context.Background(), m.viewport, m.markers, m.selected)
	if err != nil {
		m.err = err.Error()
		return
	}
	m.err = ""
	m.grid = grid
}

// SetCheckIns replaces the markers with the given check-ins.
func (m *Model) SetCheckIns(items []checkindto.CheckInOutput) {
	m.markers = make([]geodto.MarkerInput, 0, len(items))
	m.captions = make(map[string]string, len(items))
	for _, c := range items {
		m.markers = append(m.markers, geodto.MarkerInput{ID: c.ID, Lat: c.Lat, Lng: c.Lng})
		m.captions[c.ID] = c.Caption
	}
	m.refresh()
}

// AddCheckIn pins one new check-in without reloading the rest.
func (m *Model) AddCheckIn(c checkindto.CheckInOutput) {
	for _, mk := range m.markers {
		if mk.ID == c.ID {
			return
		}
	}
	markers := make([]geodto.MarkerInput, 0, len(m.markers)+1)
	markers = append(markers, m.markers...)
	m.markers = append(markers, geodto.MarkerInput{ID: c.ID, Lat: c.Lat, Lng: c.Lng})
	m.captions[c.ID] = c.Caption
	m.refresh()
}

// Goto recenters on a position and selects it.
func (m *Model) Goto(lat, lng float64) error {
	if !m.ready {
		return fmt.Errorf("map not ready")
	}
	v, err := m.port.Recenter(context.Background(), m.viewport, lat, lng)
	if err != nil {
		return err
	}
	m.viewport = v
	m.cursor = geodto.Cell{Col: v.Cols / 2, Row: v.Rows / 2}
	pos := geodto.Position{Lat: lat, Lng: lng}
	m.selected = &pos
	m.markerID = ""
	m.refresh()
	return nil
}

// Selected is the position last chosen with enter or goto.
func (m Model) Selected() (geodto.Position, bool) {
	if m.selected == nil {
		return geodto.Position{}, false
	}
	return *m.selected, true
}

func (m Model) View() string {
	if m.err != "" && !m.ready {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Bad.Render(m.err))
	}
	if !m.ready {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Locating…")
	}
	gridPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Render(m.renderGrid())
	infoPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(infoWidth).
		Height(max(m.height-2, 1)).
		Render(m.renderInfo())
	return lipgloss.JoinHorizontal(lipgloss.Top, gridPane, infoPane)
}

func (m Model) renderGrid() string {
	cells := make([][]string, m.viewport.Rows)
	for r := range cells {
		cells[r] = make([]string, m.viewport.Cols)
		for c := range cells[r] {
			cells[r][c] = theme.GridDot.Render(glyphEmpty)
		}
	}
	put := func(cell geodto.Cell, s string) {
		if cell.Row >= 0 && cell.Row < len(cells) && cell.Col >= 0 && cell.Col < len(cells[cell.Row]) {
			cells[cell.Row][cell.Col] = s
		}
	}
	for _, mk := range m.grid.Markers {
		put(mk.Cell, theme.Marker.Render(glyphMarker))
	}
	if m.grid.SelectedCell != nil {
		put(*m.grid.SelectedCell, theme.Selected.Render(glyphSelected))
	}
	if m.cursor.Row >= 0 && m.cursor.Row < len(cells) && m.cursor.Col >= 0 && m.cursor.Col < m.viewport.Cols {
		glyph := glyphEmpty
		for _, mk := range m.grid.Markers {
			if mk.Cell == m.cursor {
				glyph = glyphMarker
			}
		}
		if m.grid.SelectedCell != nil && *m.grid.SelectedCell == m.cursor {
			glyph = glyphSelected
		}
		cells[m.cursor.Row][m.cursor.Col] = theme.Cursor.Render(glyph)
	}
	lines := make([]string, len(cells))
	for r, row := range cells {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderInfo() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Map") + "\n\n")
	sb.WriteString(theme.Muted.Render("center ") + fmt.Sprintf("%.4f, %.4f", m.grid.Center.Lat, m.grid.Center.Lng) + "\n")
	sb.WriteString(theme.Muted.Render("zoom   ") + fmt.Sprintf("%d", m.viewport.Zoom) + "\n")
	sb.WriteString(theme.Muted.Render("pins   ") + fmt.Sprintf("%d visible / %d", len(m.grid.Markers), len(m.markers)) + "\n\n")
	if pos, ok := m.Selected(); ok {
		sb.WriteString(theme.Selected.Render(glyphSelected+" selected") + "\n")
		sb.WriteString(fmt.Sprintf("  %.5f, %.5f\n", pos.Lat, pos.Lng))
		if m.markerID != "" {
			caption := m.captions[m.markerID]
			if strings.TrimSpace(caption) == "" {
				caption = "No caption"
			}
			sb.WriteString("  " + theme.Marker.Render(glyphMarker) + " " + caption + "\n")
		}
		sb.WriteString("\n")
	}
	if m.err != "" {
		sb.WriteString(theme.Bad.Render(m.err) + "\n\n")
	}
	sb.WriteString(theme.Muted.Render("hjkl/arrows  cursor\nHJKL         pan\n+/-          zoom\nenter        select\nc            check in here"))
	return sb.String()
}
