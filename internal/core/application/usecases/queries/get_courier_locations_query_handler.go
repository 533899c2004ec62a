package queries

import (
	"context"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// GetCourierLocationsQueryHandler answers a batch lookup. Cache misses are
// read from the durable store in one call and written back to the cache.
type GetCourierLocationsQueryHandler struct {
	lookup locationLookup
}

func NewGetCourierLocationsQueryHandler(
	locationCache ports.LocationCache,
	locationRepo ports.LocationRepository,
	log *logger.Logger,
) GetCourierLocationsQueryHandler {
	return GetCourierLocationsQueryHandler{lookup: locationLookup{
		cache: locationCache,
		repo:  locationRepo,
		log:   nopIfNil(log).With("component", "get_courier_locations"),
	}}
}

// Handle returns one view per requested courier, in request order.
func (h GetCourierLocationsQueryHandler) Handle(
	ctx context.Context,
	query GetCourierLocationsQuery,
) ([]LocationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ids := query.CourierIDs()
	found, err := h.lookup.find(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]LocationView, 0, len(ids))
	for _, id := range ids {
		current, ok := found[id]
		views = append(views, newLocationView(id, current, ok))
	}
	return views, nil
}
