package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// PickUpOrderCommandHandler moves an Assigned package to InTransit. The
// pickup point is then recorded as the courier's position, best effort.
type PickUpOrderCommandHandler struct {
	uowFactory  PackageUoWFactory
	publisher   ports.EventPublisher
	geolocation ports.GeolocationService
	log         *logger.Logger
	now         Clock
}

func NewPickUpOrderCommandHandler(
	uowFactory PackageUoWFactory,
	publisher ports.EventPublisher,
	geolocation ports.GeolocationService,
	log *logger.Logger,
) PickUpOrderCommandHandler {
	return PickUpOrderCommandHandler{
		uowFactory:  uowFactory,
		publisher:   publisher,
		geolocation: geolocation,
		log:         nopIfNil(log).With("component", "pick_up_order"),
		now:         systemClock,
	}
}

// Handle returns ErrCourierNotAssigned for a foreign courier and
// ErrAlreadyPickedUp when the package is InTransit already.
func (h PickUpOrderCommandHandler) Handle(ctx context.Context, cmd PickUpOrderCommand) error {
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

	if !pkg.IsAssignedTo(cmd.CourierID()) {
		return fmt.Errorf("%w: courier %s, package %s", ErrCourierNotAssigned, cmd.CourierID(), pkg.ID())
	}
	if pkg.Status() == parcel.InTransit {
		return ErrAlreadyPickedUp
	}

	if err = pkg.StartTransit(); err != nil {
		return err
	}

	if err = packageRepo.Update(ctx, pkg); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	now := h.now()
	pickup := pkg.Pickup().Coordinates()
	var courierLocation *kernel.Location
	location, err := kernel.LocationFromStored(
		pickup.Latitude(), pickup.Longitude(), kernel.DefaultAccuracyMeters, now, nil, nil)
	if err == nil {
		courierLocation = &location
	}

	publish(ctx, h.publisher, h.log, events.PackageInTransit{
		PackageID:       pkg.ID(),
		OrderID:         pkg.OrderID(),
		CourierID:       cmd.CourierID(),
		CourierLocation: courierLocation,
		OccurredAt:      now,
	})

	if courierLocation != nil && h.geolocation != nil {
		if err = h.geolocation.UpdateLocation(ctx, cmd.CourierID(), *courierLocation); err != nil {
			h.log.Warn("failed to record pickup location",
				"package_id", pkg.ID().String(),
				"courier_id", cmd.CourierID().String(),
				"error", err,
			)
		}
	}

	return nil
}
