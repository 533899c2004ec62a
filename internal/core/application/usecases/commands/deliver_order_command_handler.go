package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// DeliverOrderCommandHandler closes a delivery attempt.
//
// An Assigned package passes through InTransit first. After the package is
// saved the courier's delivery counters are updated, its load drops by one
// and a Busy courier that regained room becomes Free again.
type DeliverOrderCommandHandler struct {
	uowFactory PackageUoWFactory
	stateCache ports.CourierStateCache
	publisher  ports.EventPublisher
	log        *logger.Logger
	now        Clock
}

func NewDeliverOrderCommandHandler(
	uowFactory PackageUoWFactory,
	stateCache ports.CourierStateCache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
		publisher:  publisher,
		log:        nopIfNil(log).With("component", "deliver_order"),
		now:        systemClock,
	}
}

func (h DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
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

	switch pkg.Status() {
	case parcel.Delivered:
		return ErrAlreadyDelivered
	case parcel.Assigned:
		if err = pkg.StartTransit(); err != nil {
			return err
		}
	}

	success := cmd.Outcome() == OutcomeDelivered
	if success {
		err = pkg.MarkDelivered()
	} else {
		err = pkg.MarkNotDelivered(cmd.Reason())
	}
	if err != nil {
		return err
	}

	if err = packageRepo.Update(ctx, pkg); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.releaseCourier(ctx, cmd, success); err != nil {
		return err
	}

	now := h.now()
	if success {
		publish(ctx, h.publisher, h.log, events.PackageDelivered{
			PackageID:   pkg.ID(),
			OrderID:     pkg.OrderID(),
			CourierID:   cmd.CourierID(),
			DeliveredAt: *pkg.DeliveredAt(),
			OccurredAt:  now,
		})
	} else {
		publish(ctx, h.publisher, h.log, events.PackageNotDelivered{
			PackageID:  pkg.ID(),
			OrderID:    pkg.OrderID(),
			CourierID:  cmd.CourierID(),
			Reason:     cmd.Reason(),
			OccurredAt: now,
		})
	}

	return nil
}

func (h DeliverOrderCommandHandler) releaseCourier(ctx context.Context, cmd DeliverOrderCommand, success bool) error {
	courierID := cmd.CourierID()

	prior, found, err := h.stateCache.GetState(ctx, courierID)
	if err != nil {
		return err
	}

	if err = h.stateCache.RecordDelivery(ctx, courierID, success); err != nil {
		return fmt.Errorf("record delivery of courier %s: %w", courierID, err)
	}

	load, err := h.stateCache.UpdateLoad(ctx, courierID, -1)
	if err != nil {
		return fmt.Errorf("update load of courier %s: %w", courierID, err)
	}

	if !found || prior.Status != courier.Busy || load >= prior.MaxLoad {
		return nil
	}

	if err = h.stateCache.SetStatus(ctx, courierID, courier.Free, prior.WorkZone); err != nil {
		return fmt.Errorf("mark courier %s free: %w", courierID, err)
	}
	if event, changed := events.NewCourierStatusChanged(courierID, courier.Busy, courier.Free, h.now()); changed {
		publish(ctx, h.publisher, h.log, event)
	}
	return nil
}
