package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// UpdateCourierContactInfoCommandHandler changes phone, email or push token.
// A new phone or email must not belong to another courier.
type UpdateCourierContactInfoCommandHandler struct {
	uowFactory CourierUoWFactory
	stateCache ports.CourierStateCache
}

func NewUpdateCourierContactInfoCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
) UpdateCourierContactInfoCommandHandler {
	return UpdateCourierContactInfoCommandHandler{
		uowFactory: uowFactory,
		stateCache: stateCache,
	}
}

func (h UpdateCourierContactInfoCommandHandler) Handle(ctx context.Context, cmd UpdateCourierContactInfoCommand) error {
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
	aggregate, _, err := loadCourier(ctx, courierRepo, h.stateCache, cmd.CourierID())
	if err != nil {
		return err
	}
	if aggregate.Status() == courier.Archived {
		return courier.ErrCourierArchived
	}

	if email := cmd.Email(); email != nil && *email != aggregate.Email() {
		taken, existsErr := courierRepo.EmailExists(ctx, *email)
		if existsErr != nil {
			return existsErr
		}
		if taken {
			return errs.NewObjectAlreadyExistsErrorWithCause("email", *email, ErrEmailAlreadyTaken)
		}
	}

	if phone := cmd.Phone(); phone != nil && *phone != aggregate.Phone() {
		taken, existsErr := courierRepo.PhoneExists(ctx, *phone)
		if existsErr != nil {
			return existsErr
		}
		if taken {
			return errs.NewObjectAlreadyExistsErrorWithCause("phone", *phone, ErrPhoneAlreadyTaken)
		}
	}

	if err = aggregate.UpdateContactInfo(cmd.Phone(), cmd.Email(), cmd.PushToken()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
