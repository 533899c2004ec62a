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

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// DeliveryOutcome is the result a courier reports at the drop-off.
type DeliveryOutcome int

const (
	UnknownOutcome DeliveryOutcome = iota
	OutcomeDelivered
	OutcomeNotDelivered
)

func (o DeliveryOutcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeNotDelivered:
		return "not_delivered"
	default:
		return "unknown"
	}
}

func ParseDeliveryOutcome(s string) (DeliveryOutcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "delivered":
		return OutcomeDelivered, nil
	case "not_delivered":
		return OutcomeNotDelivered, nil
	default:
		return UnknownOutcome, errs.NewValueIsInvalidErrorWithCause("outcome",
			fmt.Errorf("%q is not a delivery outcome", s))
	}
}

// DeliverOrderCommand reports the outcome of a delivery. A failed delivery
// needs a reason.
type DeliverOrderCommand struct {
	packageID kernel.UUID
	courierID kernel.UUID
	outcome   DeliveryOutcome
	reason    string

	guard guard.ConstructorGuard
}

func NewDeliverOrderCommand(
	packageID, courierID kernel.UUID,
	outcome DeliveryOutcome,
	reason string,
) (DeliverOrderCommand, error) {
	reason = strings.TrimSpace(reason)

	var errOutcome error
	switch outcome {
	case OutcomeDelivered:
	case OutcomeNotDelivered:
		if reason == "" {
			errOutcome = parcel.ErrReasonIsRequired
		}
	default:
		errOutcome = errs.NewValueIsInvalidError("outcome")
	}

	if err := errors.Join(packageID.Validate(), courierID.Validate(), errOutcome); err != nil {
		return DeliverOrderCommand{}, err
	}

	return DeliverOrderCommand{
		packageID: packageID,
		courierID: courierID,
		outcome:   outcome,
		reason:    reason,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

func (c DeliverOrderCommand) PackageID() kernel.UUID   { return c.packageID }
func (c DeliverOrderCommand) CourierID() kernel.UUID   { return c.courierID }
func (c DeliverOrderCommand) Outcome() DeliveryOutcome { return c.outcome }
func (c DeliverOrderCommand) Reason() string           { return c.reason }
