package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/ports"
)

// UpdateCourierWorkScheduleCommandHandler applies work hours, work zone and
// max distance changes. After a zone change the courier's free-set
// membership follows it to the new zone.
type UpdateCourierWorkScheduleCommandHandler struct {
	uowFactory CourierUoWFactory
	stateCache ports.CourierStateCache
}

func NewUpdateCourierWorkScheduleCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
) UpdateCourierWorkScheduleCommandHandler {
	return UpdateCourierWorkScheduleCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
	}
}

func (h UpdateCourierWorkScheduleCommandHandler) Handle(ctx context.Context, cmd UpdateCourierWorkScheduleCommand) error {
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
	if aggregate.Status() == courier.Archived {
		return courier.ErrCourierArchived
	}

	if hours := cmd.WorkHours(); hours != nil {
		if err = aggregate.UpdateWorkSchedule(*hours); err != nil {
			return err
		}
	}

	previousZone := aggregate.WorkZone()
	if zone := cmd.WorkZone(); zone != nil && *zone != previousZone {
		if _, err = aggregate.ChangeWorkZone(*zone); err != nil {
			return err
		}
	}

	if distance := cmd.MaxDistanceKm(); distance != nil {
		if err = aggregate.UpdateMaxDistance(*distance); err != nil {
			return err
		}
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
	// MoveZone only moves free-set members, so it is safe for any status.
	if aggregate.WorkZone() != previousZone {
		return h.stateCache.MoveZone(ctx, aggregate.ID(), previousZone, aggregate.WorkZone())
	}

	return nil
}
