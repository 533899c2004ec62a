package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReturnToPoolCommandIsNotConstructed = errors.New(
	"ReturnToPoolCommand must be created via NewReturnToPoolCommand constructor",
)

// ReturnToPoolCommand puts a NotDelivered or RequiresHandling package back
// up for dispatch.
type ReturnToPoolCommand struct {
	packageID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReturnToPoolCommand(packageID kernel.UUID) (ReturnToPoolCommand, error) {
	if err := packageID.Validate(); err != nil {
		return ReturnToPoolCommand{}, err
	}
	return ReturnToPoolCommand{
		packageID: packageID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReturnToPoolCommand) Validate() error {
	return c.guard.Validate(ErrReturnToPoolCommandIsNotConstructed)
}

func (c ReturnToPoolCommand) PackageID() kernel.UUID {
	return c.packageID
}
