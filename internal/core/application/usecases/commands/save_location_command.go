package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSaveLocationCommandIsNotConstructed = errors.New(
	"SaveLocationCommand must be created via NewSaveLocationCommand constructor",
)

// SaveLocationCommand records a live courier position. Build the location
// with kernel.NewLocation so stale and future readings are rejected.
type SaveLocationCommand struct {
	courierID kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

func NewSaveLocationCommand(courierID kernel.UUID, location kernel.Location) (SaveLocationCommand, error) {
	if err := errors.Join(courierID.Validate(), location.Validate()); err != nil {
		return SaveLocationCommand{}, err
	}
	return SaveLocationCommand{
		courierID: courierID,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SaveLocationCommand) Validate() error {
	return c.guard.Validate(ErrSaveLocationCommandIsNotConstructed)
}

func (c SaveLocationCommand) CourierID() kernel.UUID    { return c.courierID }
func (c SaveLocationCommand) Location() kernel.Location { return c.location }
