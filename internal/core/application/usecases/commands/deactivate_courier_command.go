package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeactivateCourierCommandIsNotConstructed = errors.New(
	"DeactivateCourierCommand must be created via NewDeactivateCourierCommand constructor",
)

// DeactivateCourierCommand requests that a courier goes offline and leaves the free sets.
type DeactivateCourierCommand struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDeactivateCourierCommand(courierID kernel.UUID) (DeactivateCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return DeactivateCourierCommand{}, err
	}
	return DeactivateCourierCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DeactivateCourierCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateCourierCommandIsNotConstructed)
}

func (c DeactivateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
