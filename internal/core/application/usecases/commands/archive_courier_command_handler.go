package commands

import (
	"context"

	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// ArchiveCourierCommandHandler soft-deletes a courier: the hot status becomes
// Archived, which also removes it from the free sets, then the durable
// profile is stamped as archived.
type ArchiveCourierCommandHandler struct {
	uowFactory CourierUoWFactory
	stateCache ports.CourierStateCache
	publisher  ports.EventPublisher
	log        *logger.Logger
	now        Clock
}

func NewArchiveCourierCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) ArchiveCourierCommandHandler {
	return ArchiveCourierCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
		publisher:  publisher,
		log:        nopIfNil(log).With("component", "archive_courier"),
		now:        systemClock,
	}
}

// Handle returns courier.ErrCourierArchived for an archived courier and
// courier.ErrCourierHasActivePackages while the courier carries packages.
func (h ArchiveCourierCommandHandler) Handle(ctx context.Context, cmd ArchiveCourierCommand) error {
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

	from := aggregate.Status()
	if err = aggregate.Archive(); err != nil {
		return err
	}

	if err = storeStatus(ctx, h.stateCache, aggregate, hotState); err != nil {
		return err
	}

	if err = courierRepo.Archive(ctx, aggregate.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if event, changed := events.NewCourierStatusChanged(aggregate.ID(), from, aggregate.Status(), h.now()); changed {
		publish(ctx, h.publisher, h.log, event)
	}

	return nil
}
