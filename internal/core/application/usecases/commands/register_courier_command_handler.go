package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/logger"
)

// RegisterCourierCommandHandler stores a new courier profile and initializes
// its hot state as Unavailable with an empty load.
//
// If the hot-state write fails the profile stays stored; readers treat the
// missing hot state as courier.DefaultRuntimeState and the reconcile job
// repairs it.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
	stateCache ports.CourierStateCache
	publisher  ports.EventPublisher
	log        *logger.Logger
	now        Clock
}

func NewRegisterCourierCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
		publisher:  publisher,
		log:        nopIfNil(log).With("component", "register_courier"),
		now:        systemClock,
	}
}

// Handle returns an ObjectAlreadyExistsError wrapping ErrEmailAlreadyTaken or
// ErrPhoneAlreadyTaken when a contact is registered already.
func (h RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) error {
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

	emailTaken, err := courierRepo.EmailExists(ctx, cmd.Email())
	if err != nil {
		return err
	}
	if emailTaken {
		return errs.NewObjectAlreadyExistsErrorWithCause("email", cmd.Email(), ErrEmailAlreadyTaken)
	}

	phoneTaken, err := courierRepo.PhoneExists(ctx, cmd.Phone())
	if err != nil {
		return err
	}
	if phoneTaken {
		return errs.NewObjectAlreadyExistsErrorWithCause("phone", cmd.Phone(), ErrPhoneAlreadyTaken)
	}

	aggregate, err := courier.NewCourier(
		cmd.CourierID(),
		cmd.Name(),
		cmd.Phone(),
		cmd.Email(),
		cmd.TransportType(),
		cmd.MaxDistanceKm(),
		cmd.WorkZone(),
		cmd.WorkHours(),
		cmd.PushToken(),
	)
	if err != nil {
		return err
	}

	if err = courierRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.stateCache.InitState(ctx, aggregate.ID(), aggregate.RuntimeState()); err != nil {
		return fmt.Errorf("initialize hot state of courier %s: %w", aggregate.ID(), err)
	}

	publish(ctx, h.publisher, h.log, events.CourierRegistered{
		CourierID:     aggregate.ID(),
		CourierName:   aggregate.Name(),
		TransportType: aggregate.TransportType(),
		WorkZone:      aggregate.WorkZone(),
		OccurredAt:    h.now(),
	})

	return nil
}
