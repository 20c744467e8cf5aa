package dto

type Position struct {
	Lat float64
	Lng float64
}

type Viewport struct {
	CenterLat float64
	CenterLng float64
	Zoom      int
	Cols      int
	Rows      int
}

type Cell struct {
	Col int
	Row int
}

type MarkerInput struct {
	ID  string
	Lat float64
	Lng float64
}

type LocateOutput struct {
	Position Position
	Source   string
}

type GridInput struct {
	Viewport Viewport
	Markers  []MarkerInput
	Selected *Position
}

// MarkerCell is a marker that falls inside the viewport.
type MarkerCell struct {
	ID   string
	Cell Cell
}

type GridOutput struct {
	Markers      []MarkerCell
	SelectedCell *Cell
	Center       Position
}

type PickInput struct {
	Viewport Viewport
	Markers  []MarkerInput
	Cell     Cell
}

type PickOutput struct {
	Position Position
	MarkerID string
}

type MoveInput struct {
	Viewport Viewport
	DCol     int
	DRow     int
	DZoom    int
}
