package commands

import (
	"context"

	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// ReturnToPoolCommandHandler clears the failed assignment of a package and
// makes it dispatchable again. PackageRequiresHandling carries the previous
// courier and the failure reason.
type ReturnToPoolCommandHandler struct {
	uowFactory PackageUoWFactory
	publisher  ports.EventPublisher
	log        *logger.Logger
	now        Clock
}

func NewReturnToPoolCommandHandler(
	uowFactory PackageUoWFactory,
	publisher ports.EventPublisher,
	log *logger.Logger,
) ReturnToPoolCommandHandler {
	return ReturnToPoolCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        nopIfNil(log).With("component", "return_to_pool"),
		now:        systemClock,
	}
}

func (h ReturnToPoolCommandHandler) Handle(ctx context.Context, cmd ReturnToPoolCommand) error {
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

	packageRepo := uow.PackageRepository()
	pkg, err := packageRepo.Get(ctx, cmd.PackageID())
	if err != nil {
		return err
	}

	previousCourier := pkg.CourierID()
	var reason string
	if r := pkg.NotDeliveredReason(); r != nil {
		reason = *r
	}

	if err = pkg.ReturnToPool(); err != nil {
		return err
	}

	if err = packageRepo.Update(ctx, pkg); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.log, events.PackageRequiresHandling{
		PackageID:         pkg.ID(),
		OrderID:           pkg.OrderID(),
		PreviousCourierID: previousCourier,
		Reason:            reason,
		OccurredAt:        h.now(),
	})

	return nil
}
