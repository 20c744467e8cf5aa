package out

import (
	"context"
	"fmt"

	"geomoments/internal/modules/geo/domain"
	geoout "geomoments/internal/modules/geo/port/out"
)

// StaticLocator answers with a configured position.
type StaticLocator struct {
	position domain.Position
}

func NewStaticLocator(lat, lng float64) geoout.Locator {
	return StaticLocator{position: domain.Position{Lat: lat, Lng: lng}}
}

func (l StaticLocator) Locate(context.Context) (domain.Position, error) {
	if l.position.IsZero() {
		return domain.Position{}, fmt.Errorf("no map center configured")
	}
	if err := l.position.Validate(); err != nil {
		return domain.Position{}, err
	}
	return l.position, nil
}

func (StaticLocator) Name() string { return "config" }
