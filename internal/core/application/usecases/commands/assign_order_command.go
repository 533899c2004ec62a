package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand or NewManualAssignOrderCommand constructor",
)

// Assignment modes, also used as metric labels.
const (
	AssignModeAuto   = "auto"
	AssignModeManual = "manual"
)

// AssignOrderCommand assigns a pooled package to a courier. Without a
// courier id the nearest qualifying courier of the package's zone is picked;
// with one, that courier is validated against the assignment rules.
//
// Example:
//
//	cmd, _ := NewAssignOrderCommand(packageID)
//	result, err := handler.Handle(ctx, cmd)
//	var noCourier *NoAvailableCourierError
//	if errors.As(err, &noCourier) {
//	    for _, r := range noCourier.Rejections {
//	        log.Printf("%s rejected: %s", r.CourierID, r.Reason)
//	    }
//	}
type AssignOrderCommand struct {
	packageID kernel.UUID
	courierID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates an automatic assignment.
func NewAssignOrderCommand(packageID kernel.UUID) (AssignOrderCommand, error) {
	if err := packageID.Validate(); err != nil {
		return AssignOrderCommand{}, err
	}
	return AssignOrderCommand{
		packageID: packageID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewManualAssignOrderCommand creates an assignment to a given courier.
func NewManualAssignOrderCommand(packageID, courierID kernel.UUID) (AssignOrderCommand, error) {
	if err := errors.Join(packageID.Validate(), courierID.Validate()); err != nil {
		return AssignOrderCommand{}, err
	}
	return AssignOrderCommand{
		packageID: packageID,
		courierID: &courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

func (c AssignOrderCommand) PackageID() kernel.UUID {
	return c.packageID
}

// CourierID returns the requested courier for a manual assignment.
func (c AssignOrderCommand) CourierID() (kernel.UUID, bool) {
	if c.courierID == nil {
		return kernel.UUID{}, false
	}
	return *c.courierID, true
}

func (c AssignOrderCommand) Mode() string {
	if c.courierID == nil {
		return AssignModeAuto
	}
	return AssignModeManual
}
