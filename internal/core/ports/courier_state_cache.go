package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierStateCache keeps the runtime state of couriers in the hot store
// together with the global and per-zone free-courier sets.
//
// The store is not multi-version. Load and delivery counters are changed
// with atomic operations so concurrent assign and deliver flows on the same
// courier do not lose updates. Free-set membership always follows the status
// written by SetStatus.
type CourierStateCache interface {
	// InitState writes the full runtime state and syncs free-set membership.
	InitState(ctx context.Context, id kernel.UUID, state courier.RuntimeState) error

	// GetState returns the runtime state. found is false when the courier has
	// no hot state; callers then use courier.DefaultRuntimeState.
	GetState(ctx context.Context, id kernel.UUID) (state courier.RuntimeState, found bool, err error)

	// SetStatus writes the status and adds the courier to, or removes it
	// from, the global and zone free sets in the same transaction.
	SetStatus(ctx context.Context, id kernel.UUID, status courier.Status, zone string) error

	// UpdateLoad adds delta to the current load, clamped to [0, max_load],
	// and returns the new load.
	UpdateLoad(ctx context.Context, id kernel.UUID, delta int) (int, error)

	SetMaxLoad(ctx context.Context, id kernel.UUID, maxLoad int) error

	// RecordDelivery increments the success or failure counter and
	// recomputes the rating.
	RecordDelivery(ctx context.Context, id kernel.UUID, success bool) error

	// MoveZone moves a free courier from one zone set to another and updates
	// the stored work zone.
	MoveZone(ctx context.Context, id kernel.UUID, from, to string) error

	GetFreeCouriers(ctx context.Context, zone string) ([]kernel.UUID, error)
	GetAllFree(ctx context.Context) ([]kernel.UUID, error)

	// Remove deletes the hot state and the free-set memberships.
	Remove(ctx context.Context, id kernel.UUID, zone string) error
}
