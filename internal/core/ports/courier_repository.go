// Package ports defines the contracts between the dispatch core and its
// infrastructure: durable repositories, the unit of work, hot-state caches,
// the event stream and the outbound notification and geolocation services.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierFilter narrows List results. Empty fields do not filter.
type CourierFilter struct {
	WorkZone        string
	TransportType   courier.TransportType
	IncludeArchived bool
	Limit           int
	Offset          int
}

// CourierRepository defines the persistence contract for courier profiles.
// Only the durable part of the aggregate is stored; runtime state lives in
// the CourierStateCache.
type CourierRepository interface {
	// Add persists a newly registered courier.
	// Returns ErrObjectAlreadyExists when the phone or email is taken.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update saves the profile if the stored version still equals the
	// aggregate's PersistedVersion, otherwise it returns a VersionConflictError.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier profile. Archived couriers are returned too.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetByIDs returns the profiles that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*courier.Courier, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)

	// FindByWorkZone returns the non-archived couriers of a zone.
	FindByWorkZone(ctx context.Context, zone string) ([]*courier.Courier, error)

	// Archive soft-deletes the courier by stamping archived_at.
	Archive(ctx context.Context, id kernel.UUID) error

	// List pages through profiles ordered by creation time.
	List(ctx context.Context, filter CourierFilter) ([]*courier.Courier, error)
}
