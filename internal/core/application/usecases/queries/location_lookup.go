package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// locationLookup reads current positions from the location cache and falls
// back to the durable store for misses. Positions found only in the durable
// store are written back to the cache.
type locationLookup struct {
	cache ports.LocationCache
	repo  ports.LocationRepository
	log   *logger.Logger
}

func (l locationLookup) find(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]tracking.CourierLocation, error) {
	hits, err := l.cache.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[kernel.UUID]tracking.CourierLocation, len(ids))
	for _, hit := range hits {
		found[hit.CourierID()] = hit
	}

	misses := make([]kernel.UUID, 0, len(ids)-len(found))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			misses = append(misses, id)
		}
	}
	if len(misses) == 0 {
		return found, nil
	}

	stored, err := l.repo.GetCurrent(ctx, misses)
	if err != nil {
		return nil, err
	}
	for _, current := range stored {
		found[current.CourierID()] = current
		if err = l.cache.Set(ctx, current); err != nil {
			l.log.Warn("failed to backfill location cache",
				"courier_id", current.CourierID().String(),
				"error", err,
			)
		}
	}
	return found, nil
}

// dedupe keeps the first occurrence of every id.
func dedupe(ids []kernel.UUID) []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(ids))
	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nopIfNil(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.NewNop()
	}
	return log
}
