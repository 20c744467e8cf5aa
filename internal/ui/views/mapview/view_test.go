package mapview

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	checkindto "geomoments/internal/modules/checkin/dto"
	geoinadapter "geomoments/internal/modules/geo/adapter/in"
	geooutadapter "geomoments/internal/modules/geo/adapter/out"
	geoservice "geomoments/internal/modules/geo/service"
	geousecase "geomoments/internal/modules/geo/usecase"
)

const centerLat, centerLng = 21.0285, 105.8542

func readyModel(t *testing.T) Model {
	t.Helper()
	port := geoinadapter.NewTUIHandler(geousecase.NewInteractor(geoservice.NewGeoService(geooutadapter.NewStaticLocator(centerLat, centerLng), 14, nil)))
	m := New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	v, err := port.Viewport(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("viewport: %v", err)
	}
	m, _ = m.Update(ReadyMsg{Viewport: v})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestEnterOnMarkerSelectsIt(t *testing.T) {
	t.Parallel()
	m := readyModel(t)
	m.SetCheckIns([]checkindto.CheckInOutput{
		{ID: "here", Caption: "pho", Lat: centerLat, Lng: centerLng},
		{ID: "far", Lat: -33.86, Lng: 151.21},
	})

	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatalf("expected a selection message")
	}
	sel, ok := cmd().(SelectedMsg)
	if !ok || sel.MarkerID != "here" {
		t.Fatalf("expected marker here, got %#v", sel)
	}
	pos, ok := m.Selected()
	if !ok || pos.Lat != centerLat || pos.Lng != centerLng {
		t.Fatalf("selection should snap to the marker, got %+v", pos)
	}
	view := m.View()
	if !strings.Contains(view, "1 visible / 2") || !strings.Contains(view, "pho") {
		t.Fatalf("info pane missing marker details:\n%s", view)
	}
}

func TestCheckInRequestUsesCursorWhenNothingSelected(t *testing.T) {
	t.Parallel()
	m := readyModel(t)
	m, cmd := m.Update(key("c"))
	if cmd == nil {
		t.Fatalf("expected a check-in request")
	}
	req, ok := cmd().(CheckInRequestMsg)
	if !ok {
		t.Fatalf("unexpected message %#v", req)
	}
	if diff := req.Lat - centerLat; diff > 0.01 || diff < -0.01 {
		t.Fatalf("request should be near the center, got %+v", req)
	}
	if _, ok := m.Selected(); ok {
		t.Fatalf("requesting a check-in must not change the selection")
	}
}

func TestZoomAndGoto(t *testing.T) {
	t.Parallel()
	m := readyModel(t)
	m, _ = m.Update(key("+"))
	if m.viewport.Zoom != 15 {
		t.Fatalf("expected zoom 15, got %d", m.viewport.Zoom)
	}
	m, _ = m.Update(key("-"))
	m, _ = m.Update(key("-"))
	if m.viewport.Zoom != 13 {
		t.Fatalf("expected zoom 13, got %d", m.viewport.Zoom)
	}

	if err := m.Goto(120, 0); err == nil {
		t.Fatalf("expected invalid latitude to fail")
	}
	if err := m.Goto(10.7769, 106.7009); err != nil {
		t.Fatalf("goto: %v", err)
	}
	pos, ok := m.Selected()
	if !ok || pos.Lat != 10.7769 {
		t.Fatalf("goto should select the target, got %+v", pos)
	}
	if m.grid.SelectedCell == nil || *m.grid.SelectedCell != m.cursor {
		t.Fatalf("selected cell should sit under the recentered cursor")
	}
}

func TestKeysIgnoredUntilReady(t *testing.T) {
	t.Parallel()
	m := New(nil)
	if _, cmd := m.Update(key("c")); cmd != nil {
		t.Fatalf("keys before the map is ready must be ignored")
	}
	if err := m.Goto(1, 1); err == nil {
		t.Fatalf("goto before ready should fail")
	}
}
