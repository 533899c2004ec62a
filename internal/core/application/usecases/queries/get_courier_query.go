// Package queries contains the read use cases. Handlers read the durable
// store through the repository ports and merge in hot state; a courier
// without hot state is reported with courier.DefaultRuntimeState.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierQueryIsNotConstructed = errors.New(
	"GetCourierQuery must be created via NewGetCourierQuery constructor",
)

type GetCourierQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierQuery(courierID kernel.UUID) (GetCourierQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierQuery{}, err
	}
	return GetCourierQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierQueryIsNotConstructed)
}

func (q GetCourierQuery) CourierID() kernel.UUID { return q.courierID }
