package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrPickUpOrderCommandIsNotConstructed = errors.New(
	"PickUpOrderCommand must be created via NewPickUpOrderCommand constructor",
)

// PickUpOrderCommand is sent by the assigned courier at the pickup point.
type PickUpOrderCommand struct {
	packageID kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewPickUpOrderCommand(packageID, courierID kernel.UUID) (PickUpOrderCommand, error) {
	if err := errors.Join(packageID.Validate(), courierID.Validate()); err != nil {
		return PickUpOrderCommand{}, err
	}
	return PickUpOrderCommand{
		packageID: packageID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PickUpOrderCommand) Validate() error {
	return c.guard.Validate(ErrPickUpOrderCommandIsNotConstructed)
}

func (c PickUpOrderCommand) PackageID() kernel.UUID { return c.packageID }
func (c PickUpOrderCommand) CourierID() kernel.UUID { return c.courierID }
