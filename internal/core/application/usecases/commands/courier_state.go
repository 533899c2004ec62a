package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// loadCourier reads the durable profile and attaches the hot state. A
// courier without hot state gets courier.DefaultRuntimeState and hotState is
// false.
func loadCourier(
	ctx context.Context,
	repo ports.CourierRepository,
	stateCache ports.CourierStateCache,
	id kernel.UUID,
) (aggregate *courier.Courier, hotState bool, err error) {
	aggregate, err = repo.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, fmt.Errorf("%w: %w", ErrCourierNotFound, err)
	}
	if err != nil {
		return nil, false, err
	}

	state, found, err := stateCache.GetState(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !found {
		state = courier.DefaultRuntimeState(aggregate.TransportType(), aggregate.WorkZone())
	}
	if err = aggregate.RestoreRuntimeState(state); err != nil {
		return nil, false, err
	}
	return aggregate, found, nil
}

// storeStatus writes the courier's status to hot state. Without an existing
// hash the whole runtime state is written, so load updates see max_load.
func storeStatus(
	ctx context.Context,
	stateCache ports.CourierStateCache,
	aggregate *courier.Courier,
	hotState bool,
) error {
	if !hotState {
		return stateCache.InitState(ctx, aggregate.ID(), aggregate.RuntimeState())
	}
	return stateCache.SetStatus(ctx, aggregate.ID(), aggregate.Status(), aggregate.WorkZone())
}
