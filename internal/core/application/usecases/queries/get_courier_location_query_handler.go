package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// GetCourierLocationQueryHandler returns the latest known position of one
// courier. An unknown position is not an error: the view has Found=false.
type GetCourierLocationQueryHandler struct {
	lookup locationLookup
}

func NewGetCourierLocationQueryHandler(
	locationCache ports.LocationCache,
	locationRepo ports.LocationRepository,
	log *logger.Logger,
) GetCourierLocationQueryHandler {
	return GetCourierLocationQueryHandler{lookup: locationLookup{
		cache: locationCache,
		repo:  locationRepo,
		log:   nopIfNil(log).With("component", "get_courier_location"),
	}}
}

func (h GetCourierLocationQueryHandler) Handle(ctx context.Context, query GetCourierLocationQuery) (LocationView, error) {
	if err := query.Validate(); err != nil {
		return LocationView{}, err
	}

	found, err := h.lookup.find(ctx, []kernel.UUID{query.CourierID()})
	if err != nil {
		return LocationView{}, err
	}

	current, ok := found[query.CourierID()]
	return newLocationView(query.CourierID(), current, ok), nil
}
