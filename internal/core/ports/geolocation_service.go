package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// GeolocationService records a courier position as a side effect of another
// command, e.g. the pickup spot when a package is picked up.
type GeolocationService interface {
	UpdateLocation(ctx context.Context, courierID kernel.UUID, location kernel.Location) error
}
