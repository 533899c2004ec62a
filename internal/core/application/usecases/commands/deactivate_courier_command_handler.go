package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// DeactivateCourierCommandHandler takes a courier offline. It is rejected
// while the courier carries packages.
type DeactivateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
	stateCache ports.CourierStateCache
	publisher  ports.EventPublisher
	log        *logger.Logger
	now        Clock
}

func NewDeactivateCourierCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) DeactivateCourierCommandHandler {
	return DeactivateCourierCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
		publisher:  publisher,
		log:        nopIfNil(log).With("component", "deactivate_courier"),
		now:        systemClock,
	}
}

func (h DeactivateCourierCommandHandler) Handle(ctx context.Context, cmd DeactivateCourierCommand) error {
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
	if from == courier.Archived {
		return courier.ErrCourierArchived
	}
	if aggregate.CurrentLoad() > 0 {
		return courier.ErrCourierHasActivePackages
	}

	if err = aggregate.GoOffline(); err != nil {
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
