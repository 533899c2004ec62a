package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeCourierTransportTypeCommandIsNotConstructed = errors.New(
	"ChangeCourierTransportTypeCommand must be created via NewChangeCourierTransportTypeCommand constructor",
)

type ChangeCourierTransportTypeCommand struct {
	courierID     kernel.UUID
	transportType courier.TransportType

	guard guard.ConstructorGuard
}

func NewChangeCourierTransportTypeCommand(
	courierID kernel.UUID,
	transportType courier.TransportType,
) (ChangeCourierTransportTypeCommand, error) {
	if err := errors.Join(courierID.Validate(), transportType.Validate()); err != nil {
		return ChangeCourierTransportTypeCommand{}, err
	}
	return ChangeCourierTransportTypeCommand{
		courierID:     courierID,
		transportType: transportType,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeCourierTransportTypeCommand) Validate() error {
	return c.guard.Validate(ErrChangeCourierTransportTypeCommandIsNotConstructed)
}

func (c ChangeCourierTransportTypeCommand) CourierID() kernel.UUID              { return c.courierID }
func (c ChangeCourierTransportTypeCommand) TransportType() courier.TransportType { return c.transportType }
