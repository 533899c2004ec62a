package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierLocationQueryIsNotConstructed = errors.New(
	"GetCourierLocationQuery must be created via NewGetCourierLocationQuery constructor",
)

type GetCourierLocationQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierLocationQuery(courierID kernel.UUID) (GetCourierLocationQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierLocationQuery{}, err
	}
	return GetCourierLocationQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierLocationQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierLocationQueryIsNotConstructed)
}

func (q GetCourierLocationQuery) CourierID() kernel.UUID { return q.courierID }
