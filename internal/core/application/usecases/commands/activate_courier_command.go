package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrActivateCourierCommandIsNotConstructed = errors.New(
	"ActivateCourierCommand must be created via NewActivateCourierCommand constructor",
)

// ActivateCourierCommand requests that a courier goes online and joins the free sets of its zone.
type ActivateCourierCommand struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewActivateCourierCommand(courierID kernel.UUID) (ActivateCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return ActivateCourierCommand{}, err
	}
	return ActivateCourierCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ActivateCourierCommand) Validate() error {
	return c.guard.Validate(ErrActivateCourierCommandIsNotConstructed)
}

func (c ActivateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
