package domain

import "testing"

func TestSelectSnapsToNearbyMarker(t *testing.T) {
	t.Parallel()
	v := NewViewport(DefaultCenter, 14, 80, 24)
	markerPos := v.Unproject(Cell{Col: 50, Row: 10})
	markers := []Marker{
		{ID: "far", Position: v.Unproject(Cell{Col: 5, Row: 5})},
		{ID: "near", Position: markerPos},
	}

	pos, id := Select(v, markers, Cell{Col: 51, Row: 11})
	if id != "near" || pos != markerPos {
		t.Fatalf("expected snap to marker, got %q at %v", id, pos)
	}

	pos, id = Select(v, markers, Cell{Col: 40, Row: 10})
	if id != "" {
		t.Fatalf("no marker within one cell, got %q", id)
	}
	if want := v.Unproject(Cell{Col: 40, Row: 10}); pos != want {
		t.Fatalf("expected cell position %v, got %v", want, pos)
	}
}

func TestNearestMarkerPrefersClosestThenEarliest(t *testing.T) {
	t.Parallel()
	v := NewViewport(DefaultCenter, 14, 80, 24)
	markers := []Marker{
		{ID: "a", Position: v.Unproject(Cell{Col: 12, Row: 10})},
		{ID: "b", Position: v.Unproject(Cell{Col: 8, Row: 10})},
		{ID: "c", Position: v.Unproject(Cell{Col: 11, Row: 10})},
	}
	m, ok := NearestMarker(v, markers, Cell{Col: 10, Row: 10}, 2)
	if !ok || m.ID != "c" {
		t.Fatalf("expected c, got %+v ok=%v", m, ok)
	}
	m, ok = NearestMarker(v, markers[:2], Cell{Col: 10, Row: 10}, 2)
	if !ok || m.ID != "a" {
		t.Fatalf("expected a on tie, got %+v", m)
	}
	if _, ok := NearestMarker(v, markers, Cell{Col: 30, Row: 3}, 1); ok {
		t.Fatalf("expected no marker in range")
	}
}
