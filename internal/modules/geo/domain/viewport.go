package domain

import "math"

const (
	MinZoom = 1
	MaxZoom = 18

	tileSize = 256.0
	// terminal cells are roughly twice as tall as they are wide
	cellWidth  = 8.0
	cellHeight = 16.0

	maxMercatorLat = 85.05112878
)

// Cell is a character position on the rendered grid, origin top-left.
type Cell struct {
	Col int
	Row int
}

// Viewport is a Web-Mercator window onto the world drawn as Cols x Rows
// character cells around Center.
type Viewport struct {
	Center Position
	Zoom   int
	Cols   int
	Rows   int
}

func NewViewport(center Position, zoom, cols, rows int) Viewport {
	return Viewport{Center: center, Zoom: clampZoom(zoom), Cols: cols, Rows: rows}
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func (v Viewport) scale() float64 {
	return tileSize * math.Pow(2, float64(clampZoom(v.Zoom)))
}

func worldXY(p Position, scale float64) (float64, float64) {
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, p.Lat))
	x := (p.Lng + 180) / 360 * scale
	rad := lat * math.Pi / 180
	y := (1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2 * scale
	return x, y
}

func worldPosition(x, y, scale float64) Position {
	lng := x/scale*360 - 180
	n := math.Pi - 2*math.Pi*y/scale
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	for lng < -180 {
		lng += 360
	}
	for lng > 180 {
		lng -= 360
	}
	return Position{Lat: lat, Lng: lng}
}

func (v Viewport) CenterCell() Cell {
	return Cell{Col: v.Cols / 2, Row: v.Rows / 2}
}

// Project maps p to a grid cell. ok is false when the cell falls outside
// the viewport.
func (v Viewport) Project(p Position) (Cell, bool) {
	scale := v.scale()
	cx, cy := worldXY(v.Center, scale)
	x, y := worldXY(p, scale)
	dx := x - cx
	// take the short way around the antimeridian
	if dx > scale/2 {
		dx -= scale
	} else if dx < -scale/2 {
		dx += scale
	}
	center := v.CenterCell()
	cell := Cell{
		Col: center.Col + int(math.Floor(dx/cellWidth+0.5)),
		Row: center.Row + int(math.Floor((y-cy)/cellHeight+0.5)),
	}
	return cell, v.Contains(cell)
}

// Unproject returns the position at the middle of cell.
func (v Viewport) Unproject(cell Cell) Position {
	scale := v.scale()
	cx, cy := worldXY(v.Center, scale)
	center := v.CenterCell()
	x := cx + float64(cell.Col-center.Col)*cellWidth
	y := cy + float64(cell.Row-center.Row)*cellHeight
	y = math.Max(0, math.Min(scale, y))
	return worldPosition(x, y, scale)
}

func (v Viewport) Contains(c Cell) bool {
	return c.Col >= 0 && c.Row >= 0 && c.Col < v.Cols && c.Row < v.Rows
}

// Pan moves the center by whole cells.
func (v Viewport) Pan(dCol, dRow int) Viewport {
	center := v.CenterCell()
	v.Center = v.Unproject(Cell{Col: center.Col + dCol, Row: center.Row + dRow})
	return v
}

func (v Viewport) ZoomIn() Viewport {
	v.Zoom = clampZoom(v.Zoom + 1)
	return v
}

func (v Viewport) ZoomOut() Viewport {
	v.Zoom = clampZoom(v.Zoom - 1)
	return v
}

// Resize keeps the center and zoom while changing the grid dimensions.
func (v Viewport) Resize(cols, rows int) Viewport {
	v.Cols, v.Rows = cols, rows
	return v
}
