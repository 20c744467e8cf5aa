package out

import (
	"context"

	"geomoments/internal/modules/geo/domain"
)

// Locator reports where the user is, or where the map should open.
type Locator interface {
	Locate(ctx context.Context) (domain.Position, error)
	Name() string
}
