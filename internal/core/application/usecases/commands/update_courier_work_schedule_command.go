package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateCourierWorkScheduleCommandIsNotConstructed = errors.New(
	"UpdateCourierWorkScheduleCommand must be created via NewUpdateCourierWorkScheduleCommand constructor",
)

// UpdateCourierWorkScheduleCommand changes where and when a courier works.
// Nil fields are left unchanged; at least one must be set.
//
// Example:
//
//	zone := "Berlin-Kreuzberg"
//	cmd, err := NewUpdateCourierWorkScheduleCommand(courierID, nil, &zone, nil)
type UpdateCourierWorkScheduleCommand struct {
	courierID     kernel.UUID
	workHours     *courier.WorkHours
	workZone      *string
	maxDistanceKm *float64

	guard guard.ConstructorGuard
}

func NewUpdateCourierWorkScheduleCommand(
	courierID kernel.UUID,
	workHours *courier.WorkHours,
	workZone *string,
	maxDistanceKm *float64,
) (UpdateCourierWorkScheduleCommand, error) {
	if err := courierID.Validate(); err != nil {
		return UpdateCourierWorkScheduleCommand{}, err
	}
	if workHours == nil && workZone == nil && maxDistanceKm == nil {
		return UpdateCourierWorkScheduleCommand{}, errs.NewValueIsRequiredError("work schedule")
	}

	command := UpdateCourierWorkScheduleCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}
	if workHours != nil {
		if err := workHours.Validate(); err != nil {
			return UpdateCourierWorkScheduleCommand{}, err
		}
		hours := *workHours
		command.workHours = &hours
	}
	if workZone != nil {
		zone := strings.TrimSpace(*workZone)
		if zone == "" {
			return UpdateCourierWorkScheduleCommand{}, errs.NewValueIsRequiredError("work zone")
		}
		command.workZone = &zone
	}
	if maxDistanceKm != nil {
		distance := *maxDistanceKm
		command.maxDistanceKm = &distance
	}

	return command, nil
}

func (c UpdateCourierWorkScheduleCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierWorkScheduleCommandIsNotConstructed)
}

func (c UpdateCourierWorkScheduleCommand) CourierID() kernel.UUID        { return c.courierID }
func (c UpdateCourierWorkScheduleCommand) WorkHours() *courier.WorkHours { return c.workHours }
func (c UpdateCourierWorkScheduleCommand) WorkZone() *string             { return c.workZone }
func (c UpdateCourierWorkScheduleCommand) MaxDistanceKm() *float64       { return c.maxDistanceKm }
