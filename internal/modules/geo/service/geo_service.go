package service

import (
	"context"
	"fmt"
	"log/slog"

	"geomoments/internal/modules/geo/domain"
	geoout "geomoments/internal/modules/geo/port/out"
	apperrors "geomoments/internal/platform/errors"
	"geomoments/internal/platform/logging"
)

const SourceDefault = "default"

type GeoService struct {
	locator geoout.Locator
	zoom    int
	logger  *slog.Logger
}

func NewGeoService(locator geoout.Locator, zoom int, logger *slog.Logger) *GeoService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &GeoService{locator: locator, zoom: zoom, logger: logger}
}

// Locate never fails: a locator error falls back to DefaultCenter.
func (s *GeoService) Locate(ctx context.Context) (domain.Position, string) {
	if s.locator == nil {
		return domain.DefaultCenter, SourceDefault
	}
	pos, err := s.locator.Locate(ctx)
	if err != nil {
		s.logger.Debug("locate failed, using default center", "locator", s.locator.Name(), "error", err)
		return domain.DefaultCenter, SourceDefault
	}
	return pos, s.locator.Name()
}

func (s *GeoService) Viewport(ctx context.Context, cols, rows int) domain.Viewport {
	center, _ := s.Locate(ctx)
	return domain.NewViewport(center, s.zoom, cols, rows)
}

func (s *GeoService) Recenter(v domain.Viewport, p domain.Position) (domain.Viewport, error) {
	if err := p.Validate(); err != nil {
		return v, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	v.Center = p
	return v, nil
}

func (s *GeoService) Move(v domain.Viewport, dCol, dRow, dZoom int) domain.Viewport {
	if dCol != 0 || dRow != 0 {
		v = v.Pan(dCol, dRow)
	}
	for ; dZoom > 0; dZoom-- {
		v = v.ZoomIn()
	}
	for ; dZoom < 0; dZoom++ {
		v = v.ZoomOut()
	}
	return v
}
