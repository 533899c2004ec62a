package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierLocationsQueryIsNotConstructed = errors.New(
	"GetCourierLocationsQuery must be created via NewGetCourierLocationsQuery constructor",
)

// GetCourierLocationsQuery looks up the positions of up to
// tracking.MaxBatchSize distinct couriers. Duplicate ids are collapsed.
type GetCourierLocationsQuery struct {
	courierIDs []kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCourierLocationsQuery(courierIDs []kernel.UUID) (GetCourierLocationsQuery, error) {
	ids := dedupe(courierIDs)
	if len(ids) == 0 {
		return GetCourierLocationsQuery{}, ErrEmptyBatch
	}
	if len(ids) > tracking.MaxBatchSize {
		return GetCourierLocationsQuery{}, ErrBatchTooLarge
	}

	errList := make([]error, 0)
	for _, id := range ids {
		errList = append(errList, id.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return GetCourierLocationsQuery{}, err
	}

	return GetCourierLocationsQuery{courierIDs: ids, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCourierLocationsQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierLocationsQueryIsNotConstructed)
}

func (q GetCourierLocationsQuery) CourierIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), q.courierIDs...)
}
