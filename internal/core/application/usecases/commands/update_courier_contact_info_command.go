package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateCourierContactInfoCommandIsNotConstructed = errors.New(
	"UpdateCourierContactInfoCommand must be created via NewUpdateCourierContactInfoCommand constructor",
)

// UpdateCourierContactInfoCommand changes the non-nil contact fields of a courier.
type UpdateCourierContactInfoCommand struct {
	courierID kernel.UUID
	phone     *string
	email     *string
	pushToken *string

	guard guard.ConstructorGuard
}

func NewUpdateCourierContactInfoCommand(
	courierID kernel.UUID,
	phone, email, pushToken *string,
) (UpdateCourierContactInfoCommand, error) {
	if err := courierID.Validate(); err != nil {
		return UpdateCourierContactInfoCommand{}, err
	}
	if phone == nil && email == nil && pushToken == nil {
		return UpdateCourierContactInfoCommand{}, errs.NewValueIsRequiredError("contact info")
	}

	return UpdateCourierContactInfoCommand{
		courierID: courierID,
		phone:     copyString(phone),
		email:     copyString(email),
		pushToken: copyString(pushToken),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCourierContactInfoCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierContactInfoCommandIsNotConstructed)
}

func (c UpdateCourierContactInfoCommand) CourierID() kernel.UUID { return c.courierID }
func (c UpdateCourierContactInfoCommand) Phone() *string         { return copyString(c.phone) }
func (c UpdateCourierContactInfoCommand) Email() *string         { return copyString(c.email) }
func (c UpdateCourierContactInfoCommand) PushToken() *string     { return copyString(c.pushToken) }

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
