package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// ActivateCourierCommandHandler puts an Unavailable courier online. A courier
// that is already Free or Busy is left untouched.
type ActivateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
	stateCache ports.CourierStateCache
	publisher  ports.EventPublisher
	log        *logger.Logger
	now        Clock
}

func NewActivateCourierCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) ActivateCourierCommandHandler {
	return ActivateCourierCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
		publisher:  publisher,
		log:        nopIfNil(log).With("component", "activate_courier"),
		now:        systemClock,
	}
}

func (h ActivateCourierCommandHandler) Handle(ctx context.Context, cmd ActivateCourierCommand) error {
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

	aggregate, hotState, err := loadCourier(ctx, uow.CourierRepository(), h.stateCache, cmd.CourierID())
	if err != nil {
		return err
	}

	from := aggregate.Status()
	switch from {
	case courier.Archived:
		return courier.ErrCourierArchived
	case courier.Free, courier.Busy:
		return nil
	}

	if err = aggregate.GoOnline(); err != nil {
		return err
	}

	if err = storeStatus(ctx, h.stateCache, aggregate, hotState); err != nil {
		return err
	}

	if event, changed := events.NewCourierStatusChanged(aggregate.ID(), from, aggregate.Status(), h.now()); changed {
		publish(ctx, h.publisher, h.log, event)
	}

	return nil
}
