package in

import (
	"context"

	"geomoments/internal/modules/geo/dto"
	geoin "geomoments/internal/modules/geo/port/in"
)

// TUIHandler serves the map view, which works in grid cells.
type TUIHandler struct {
	usecase geoin.Usecase
}

func NewTUIHandler(usecase geoin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Viewport(ctx context.Context, cols, rows int) (dto.Viewport, error) {
	return h.usecase.Viewport(ctx, cols, rows)
}

func (h TUIHandler) Grid(ctx context.Context, viewport dto.Viewport, markers []dto.MarkerInput, selected *dto.Position) (dto.GridOutput, error) {
	return h.usecase.Grid(ctx, dto.GridInput{Viewport: viewport, Markers: markers, Selected: selected})
}

func (h TUIHandler) Pick(ctx context.Context, viewport dto.Viewport, markers []dto.MarkerInput, col, row int) (dto.PickOutput, error) {
	return h.usecase.Pick(ctx, dto.PickInput{Viewport: viewport, Markers: markers, Cell: dto.Cell{Col: col, Row: row}})
}

func (h TUIHandler) Move(ctx context.Context, viewport dto.Viewport, dCol, dRow, dZoom int) (dto.Viewport, error) {
	return h.usecase.Move(ctx, dto.MoveInput{Viewport: viewport, DCol: dCol, DRow: dRow, DZoom: dZoom})
}

func (h TUIHandler) Recenter(ctx context.Context, viewport dto.Viewport, lat, lng float64) (dto.Viewport, error) {
	return h.usecase.Recenter(ctx, viewport, lat, lng)
}
