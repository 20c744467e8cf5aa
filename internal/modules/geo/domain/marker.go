package domain

// Marker is a check-in pinned to the map.
type Marker struct {
	ID       string
	Position Position
}

// NearestMarker finds the visible marker closest to cell within radius
// cells (Chebyshev distance). Earlier markers win ties.
func NearestMarker(v Viewport, markers []Marker, cell Cell, radius int) (Marker, bool) {
	best := -1
	bestDist := radius + 1
	for i, m := range markers {
		mc, ok := v.Project(m.Position)
		if !ok {
			continue
		}
		d := max(abs(mc.Col-cell.Col), abs(mc.Row-cell.Row))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Marker{}, false
	}
	return markers[best], true
}

// Select resolves a click on cell: a marker within one cell is taken at
// its exact position, otherwise the cell's own position is used.
func Select(v Viewport, markers []Marker, cell Cell) (Position, string) {
	if m, ok := NearestMarker(v, markers, cell, 1); ok {
		return m.Position, m.ID
	}
	return v.Unproject(cell), ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
