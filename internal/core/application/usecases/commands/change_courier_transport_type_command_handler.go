package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// ChangeCourierTransportTypeCommandHandler switches the transport of an
// empty courier and writes the re-derived max load to hot state.
type ChangeCourierTransportTypeCommandHandler struct {
	uowFactory CourierUoWFactory
	stateCache ports.CourierStateCache
}

func NewChangeCourierTransportTypeCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
) ChangeCourierTransportTypeCommandHandler {
	return ChangeCourierTransportTypeCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
	}
}

func (h ChangeCourierTransportTypeCommandHandler) Handle(ctx context.Context, cmd ChangeCourierTransportTypeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	aggregate, hotState, err := loadCourier(ctx, courierRepo, h.stateCache, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = aggregate.ChangeTransportType(cmd.TransportType()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if !hotState {
		return h.stateCache.InitState(ctx, aggregate.ID(), aggregate.RuntimeState())
	}
	return h.stateCache.SetMaxLoad(ctx, aggregate.ID(), aggregate.MaxLoad())
}
