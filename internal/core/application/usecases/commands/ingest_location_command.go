package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrIngestLocationCommandIsNotConstructed = errors.New(
	"IngestLocationCommand must be created via NewIngestLocationCommand constructor",
)

// IngestLocationCommand carries a position read from the location stream.
// Its location may predate receipt, so build it with kernel.LocationFromStored.
type IngestLocationCommand struct {
	courierID kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

func NewIngestLocationCommand(courierID kernel.UUID, location kernel.Location) (IngestLocationCommand, error) {
	if err := errors.Join(courierID.Validate(), location.Validate()); err != nil {
		return IngestLocationCommand{}, err
	}
	return IngestLocationCommand{
		courierID: courierID,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c IngestLocationCommand) Validate() error {
	return c.guard.Validate(ErrIngestLocationCommandIsNotConstructed)
}

func (c IngestLocationCommand) CourierID() kernel.UUID    { return c.courierID }
func (c IngestLocationCommand) Location() kernel.Location { return c.location }
