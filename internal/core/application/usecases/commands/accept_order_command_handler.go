package commands

import (
	"context"

	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// AcceptOrderCommandHandler creates the package, moves it to the pool and
// announces it with PackageAccepted.
type AcceptOrderCommandHandler struct {
	uowFactory PackageUoWFactory
	publisher  ports.EventPublisher
	log        *logger.Logger
	now        Clock
}

func NewAcceptOrderCommandHandler(
	uowFactory PackageUoWFactory,
	publisher ports.EventPublisher,
	log *logger.Logger,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        nopIfNil(log).With("component", "accept_order"),
		now:        systemClock,
	}
}

func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	details := cmd.Details()
	pkg, err := parcel.NewPackage(
		cmd.PackageID(),
		details.OrderID,
		details.CustomerID,
		details.Contact,
		details.Pickup,
		details.Delivery,
		details.DeliveryPeriod,
		details.WeightKg,
		details.Priority,
		details.Zone,
	)
	if err != nil {
		return err
	}

	if err = pkg.MoveToPool(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PackageRepository().Add(ctx, pkg); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publish(ctx, h.publisher, h.log, events.NewPackageAccepted(pkg, h.now()))

	return nil
}
