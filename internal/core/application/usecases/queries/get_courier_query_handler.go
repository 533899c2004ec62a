package queries

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GetCourierQueryHandler returns the profile of one courier, archived ones
// included, merged with its runtime state.
type GetCourierQueryHandler struct {
	courierRepo ports.CourierRepository
	stateCache  ports.CourierStateCache
}

func NewGetCourierQueryHandler(
	courierRepo ports.CourierRepository,
	stateCache ports.CourierStateCache,
) GetCourierQueryHandler {
	return GetCourierQueryHandler{courierRepo: courierRepo, stateCache: stateCache}
}

func (h GetCourierQueryHandler) Handle(ctx context.Context, query GetCourierQuery) (CourierView, error) {
	if err := query.Validate(); err != nil {
		return CourierView{}, err
	}

	aggregate, err := h.courierRepo.Get(ctx, query.CourierID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return CourierView{}, fmt.Errorf("%w: %w", ErrCourierNotFound, err)
	}
	if err != nil {
		return CourierView{}, err
	}

	if err = attachRuntimeState(ctx, h.stateCache, aggregate); err != nil {
		return CourierView{}, err
	}

	return newCourierView(aggregate), nil
}

func attachRuntimeState(ctx context.Context, stateCache ports.CourierStateCache, aggregate *courier.Courier) error {
	state, found, err := stateCache.GetState(ctx, aggregate.ID())
	if err != nil {
		return err
	}
	if !found {
		state = courier.DefaultRuntimeState(aggregate.TransportType(), aggregate.WorkZone())
	}
	return aggregate.RestoreRuntimeState(state)
}
