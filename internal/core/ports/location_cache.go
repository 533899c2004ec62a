package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// LocationCache keeps the latest position of each courier with a TTL and
// tracks which couriers have a live position.
type LocationCache interface {
	// Set stores the position and refreshes its TTL.
	Set(ctx context.Context, location tracking.CourierLocation) error

	// Get returns the cached position; found is false on a miss.
	Get(ctx context.Context, courierID kernel.UUID) (location tracking.CourierLocation, found bool, err error)

	// GetMany returns the hits among courierIDs. Misses are simply absent.
	GetMany(ctx context.Context, courierIDs []kernel.UUID) ([]tracking.CourierLocation, error)

	Delete(ctx context.Context, courierID kernel.UUID) error

	// ActiveCourierIDs lists couriers registered as having a live position.
	ActiveCourierIDs(ctx context.Context) ([]kernel.UUID, error)

	// PruneInactive drops active-set members whose position expired and
	// returns how many were dropped.
	PruneInactive(ctx context.Context) (int, error)
}
