package in

import (
	"context"

	"geomoments/internal/modules/geo/dto"
)

type Usecase interface {
	Locate(ctx context.Context) (dto.LocateOutput, error)
	Viewport(ctx context.Context, cols, rows int) (dto.Viewport, error)
	Grid(ctx context.Context, input dto.GridInput) (dto.GridOutput, error)
	Pick(ctx context.Context, input dto.PickInput) (dto.PickOutput, error)
	Move(ctx context.Context, input dto.MoveInput) (dto.Viewport, error)
	Recenter(ctx context.Context, viewport dto.Viewport, lat, lng float64) (dto.Viewport, error)
}
