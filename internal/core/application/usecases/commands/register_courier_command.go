package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterCourierCommandIsNotConstructed = errors.New(
	"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
)

// RegisterCourierCommand represents a request to register a new courier.
// Contact formats and the max distance are validated by the Courier aggregate;
// the command only rejects missing values.
//
// Example:
//
//	start, _ := courier.NewTimeOfDay(9, 0, 0)
//	end, _ := courier.NewTimeOfDay(18, 0, 0)
//	hours, _ := courier.NewWorkHours(start, end, []int{1, 2, 3, 4, 5})
//	cmd, err := NewRegisterCourierCommand("Jane Roe", "+491701234567", "jane@example.com",
//	    courier.Bicycle, 8, "Berlin-Mitte", hours, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register courier: %w", err)
//	}
//	fmt.Printf("Registered courier %s", cmd.CourierID())
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	courierID     kernel.UUID
	name          string
	phone         string
	email         string
	transportType courier.TransportType
	maxDistanceKm float64
	workZone      string
	workHours     courier.WorkHours
	pushToken     *string

	guard guard.ConstructorGuard
}

// NewRegisterCourierCommand generates the id of the new courier.
func NewRegisterCourierCommand(
	name, phone, email string,
	transportType courier.TransportType,
	maxDistanceKm float64,
	workZone string,
	workHours courier.WorkHours,
	pushToken *string,
) (RegisterCourierCommand, error) {
	command := RegisterCourierCommand{
		courierID:     kernel.NewUUID(),
		maxDistanceKm: maxDistanceKm,
		guard:         guard.NewConstructorGuard(),
	}
	if pushToken != nil {
		token := *pushToken
		command.pushToken = &token
	}

	if err := errors.Join(
		command.setName(name),
		command.setContacts(phone, email),
		command.setTransportType(transportType),
		command.setWorkZone(workZone),
		command.setWorkHours(workHours),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	return command, nil
}

func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

func (c RegisterCourierCommand) CourierID() kernel.UUID              { return c.courierID }
func (c RegisterCourierCommand) Name() string                        { return c.name }
func (c RegisterCourierCommand) Phone() string                       { return c.phone }
func (c RegisterCourierCommand) Email() string                       { return c.email }
func (c RegisterCourierCommand) TransportType() courier.TransportType { return c.transportType }
func (c RegisterCourierCommand) MaxDistanceKm() float64              { return c.maxDistanceKm }
func (c RegisterCourierCommand) WorkZone() string                    { return c.workZone }
func (c RegisterCourierCommand) WorkHours() courier.WorkHours        { return c.workHours }
func (c RegisterCourierCommand) PushToken() *string                  { return c.pushToken }

func (c *RegisterCourierCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *RegisterCourierCommand) setContacts(phone, email string) error {
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)

	var errPhone, errEmail error
	if phone == "" {
		errPhone = errs.NewValueIsRequiredError("phone")
	}
	if email == "" {
		errEmail = errs.NewValueIsRequiredError("email")
	}
	c.phone = phone
	c.email = email
	return errors.Join(errPhone, errEmail)
}

func (c *RegisterCourierCommand) setTransportType(transportType courier.TransportType) error {
	if err := transportType.Validate(); err != nil {
		return err
	}
	c.transportType = transportType
	return nil
}

func (c *RegisterCourierCommand) setWorkZone(workZone string) error {
	workZone = strings.TrimSpace(workZone)
	if workZone == "" {
		return errs.NewValueIsRequiredError("work zone")
	}
	c.workZone = workZone
	return nil
}

func (c *RegisterCourierCommand) setWorkHours(workHours courier.WorkHours) error {
	if err := workHours.Validate(); err != nil {
		return err
	}
	c.workHours = workHours
	return nil
}
