package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// LocationRepository is the durable store of courier positions: one current
// row per courier and an append-only history.
type LocationRepository interface {
	// SaveCurrent upserts the courier's current position.
	SaveCurrent(ctx context.Context, location tracking.CourierLocation) error

	// GetCurrent returns the stored current positions of the given couriers.
	// Couriers without a row are absent from the result.
	GetCurrent(ctx context.Context, courierIDs []kernel.UUID) ([]tracking.CourierLocation, error)

	AppendHistory(ctx context.Context, entry tracking.HistoryEntry) error
	AppendHistoryBatch(ctx context.Context, entries []tracking.HistoryEntry) error

	// GetHistory returns every entry inside the range, oldest first.
	GetHistory(ctx context.Context, courierID kernel.UUID, period kernel.TimeRange) ([]tracking.HistoryEntry, error)

	// GetHistoryPage returns entries inside the range, newest first.
	GetHistoryPage(
		ctx context.Context,
		courierID kernel.UUID,
		period kernel.TimeRange,
		limit, offset int,
	) ([]tracking.HistoryEntry, error)

	CountHistory(ctx context.Context, courierID kernel.UUID, period kernel.TimeRange) (int64, error)

	// DeleteHistoryOlderThan removes history recorded before cutoff and
	// returns the number of deleted rows.
	DeleteHistoryOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
