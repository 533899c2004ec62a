package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAcceptOrderCommandIsNotConstructed = errors.New(
		"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
	)
	ErrWeightIsInvalid = errors.New("weight must be greater than 0")
)

// AcceptOrderDetails is the order data a package is created from.
type AcceptOrderDetails struct {
	OrderID        kernel.UUID
	CustomerID     kernel.UUID
	Contact        parcel.Contact
	Pickup         parcel.Address
	Delivery       parcel.Address
	DeliveryPeriod parcel.DeliveryPeriod
	WeightKg       float64
	Priority       parcel.Priority
	Zone           string
}

// AcceptOrderCommand turns an order into a package waiting in the pool of
// its zone.
//
// Example:
//
//	cmd, err := NewAcceptOrderCommand(AcceptOrderDetails{
//	    OrderID:        orderID,
//	    CustomerID:     customerID,
//	    Pickup:         pickup,
//	    Delivery:       delivery,
//	    DeliveryPeriod: period,
//	    WeightKg:       1.2,
//	    Priority:       parcel.Urgent,
//	    Zone:           "Berlin-Mitte",
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	fmt.Printf("Package %s is in the pool", cmd.PackageID())
type AcceptOrderCommand struct {
	packageID kernel.UUID
	details   AcceptOrderDetails

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand generates the package id. Address and period
// validity are checked here; the rest by the Package aggregate.
func NewAcceptOrderCommand(details AcceptOrderDetails) (AcceptOrderCommand, error) {
	details.Zone = strings.TrimSpace(details.Zone)

	var errWeight, errZone error
	if !(details.WeightKg > 0) {
		errWeight = errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%w: %v", ErrWeightIsInvalid, details.WeightKg))
	}
	if details.Zone == "" {
		errZone = errs.NewValueIsRequiredError("zone")
	}

	if err := errors.Join(
		details.OrderID.Validate(),
		details.CustomerID.Validate(),
		details.Pickup.Validate(),
		details.Delivery.Validate(),
		details.DeliveryPeriod.Validate(),
		details.Priority.Validate(),
		errWeight,
		errZone,
	); err != nil {
		return AcceptOrderCommand{}, err
	}

	return AcceptOrderCommand{
		packageID: kernel.NewUUID(),
		details:   details,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

func (c AcceptOrderCommand) PackageID() kernel.UUID       { return c.packageID }
func (c AcceptOrderCommand) Details() AcceptOrderDetails { return c.details }
