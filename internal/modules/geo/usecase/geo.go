package usecase

import (
	"context"

	"geomoments/internal/modules/geo/domain"
	"geomoments/internal/modules/geo/dto"
	geoin "geomoments/internal/modules/geo/port/in"
	"geomoments/internal/modules/geo/service"
)

type Interactor struct {
	svc *service.GeoService
}

func NewInteractor(svc *service.GeoService) geoin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Locate(ctx context.Context) (dto.LocateOutput, error) {
	pos, source := i.svc.Locate(ctx)
	return dto.LocateOutput{Position: toPosition(pos), Source: source}, nil
}

func (i *Interactor) Viewport(ctx context.Context, cols, rows int) (dto.Viewport, error) {
	return toViewport(i.svc.Viewport(ctx, cols, rows)), nil
}

func (i *Interactor) Grid(_ context.Context, input dto.GridInput) (dto.GridOutput, error) {
	v := fromViewport(input.Viewport)
	out := dto.GridOutput{Center: toPosition(v.Center)}
	for _, m := range input.Markers {
		cell, ok := v.Project(domain.Position{Lat: m.Lat, Lng: m.Lng})
		if !ok {
			continue
		}
		out.Markers = append(out.Markers, dto.MarkerCell{ID: m.ID, Cell: dto.Cell{Col: cell.Col, Row: cell.Row}})
	}
	if input.Selected != nil {
		if cell, ok := v.Project(domain.Position{Lat: input.Selected.Lat, Lng: input.Selected.Lng}); ok {
			out.SelectedCell = &dto.Cell{Col: cell.Col, Row: cell.Row}
		}
	}
	return out, nil
}

func (i *Interactor) Pick(_ context.Context, input dto.PickInput) (dto.PickOutput, error) {
	pos, id := domain.Select(fromViewport(input.Viewport), fromMarkers(input.Markers), domain.Cell{Col: input.Cell.Col, Row: input.Cell.Row})
	return dto.PickOutput{Position: toPosition(pos), MarkerID: id}, nil
}

func (i *Interactor) Move(_ context.Context, input dto.MoveInput) (dto.Viewport, error) {
	return toViewport(i.svc.Move(fromViewport(input.Viewport), input.DCol, input.DRow, input.DZoom)), nil
}

func (i *Interactor) Recenter(_ context.Context, viewport dto.Viewport, lat, lng float64) (dto.Viewport, error) {
	v, err := i.svc.Recenter(fromViewport(viewport), domain.Position{Lat: lat, Lng: lng})
	if err != nil {
		return viewport, err
	}
	return toViewport(v), nil
}

func fromViewport(v dto.Viewport) domain.Viewport {
	return domain.NewViewport(domain.Position{Lat: v.CenterLat, Lng: v.CenterLng}, v.Zoom, v.Cols, v.Rows)
}

func toViewport(v domain.Viewport) dto.Viewport {
	return dto.Viewport{CenterLat: v.Center.Lat, CenterLng: v.Center.Lng, Zoom: v.Zoom, Cols: v.Cols, Rows: v.Rows}
}

func toPosition(p domain.Position) dto.Position {
	return dto.Position{Lat: p.Lat, Lng: p.Lng}
}

func fromMarkers(in []dto.MarkerInput) []domain.Marker {
	out := make([]domain.Marker, 0, len(in))
	for _, m := range in {
		out = append(out, domain.Marker{ID: m.ID, Position: domain.Position{Lat: m.Lat, Lng: m.Lng}})
	}
	return out
}
