package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrArchiveCourierCommandIsNotConstructed = errors.New(
	"ArchiveCourierCommand must be created via NewArchiveCourierCommand constructor",
)

// ArchiveCourierCommand requests that a courier is soft-deleted.
type ArchiveCourierCommand struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewArchiveCourierCommand(courierID kernel.UUID) (ArchiveCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return ArchiveCourierCommand{}, err
	}
	return ArchiveCourierCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ArchiveCourierCommand) Validate() error {
	return c.guard.Validate(ErrArchiveCourierCommandIsNotConstructed)
}

func (c ArchiveCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
