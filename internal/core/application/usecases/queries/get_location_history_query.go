package queries

import (
	"errors"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetLocationHistoryQueryIsNotConstructed = errors.New(
	"GetLocationHistoryQuery must be created via NewGetLocationHistoryQuery constructor",
)

// GetLocationHistoryQuery reads the position history of a courier inside a
// time range.
//
// With a limit or an offset the query is paginated and returns entries
// newest first. Without both it returns the range oldest first, truncated
// to tracking.MaxHistoryLimit.
type GetLocationHistoryQuery struct {
	courierID kernel.UUID
	period    kernel.TimeRange
	limit     int
	offset    int
	paginated bool

	guard guard.ConstructorGuard
}

func NewGetLocationHistoryQuery(
	courierID kernel.UUID,
	period kernel.TimeRange,
	limit, offset *int,
) (GetLocationHistoryQuery, error) {
	if err := errors.Join(courierID.Validate(), period.Validate()); err != nil {
		return GetLocationHistoryQuery{}, err
	}

	q := GetLocationHistoryQuery{
		courierID: courierID,
		period:    period,
		limit:     tracking.MaxHistoryLimit,
		paginated: limit != nil || offset != nil,
		guard:     guard.NewConstructorGuard(),
	}
	if q.paginated {
		q.limit = tracking.ClampHistoryLimit(limit)
	}
	if offset != nil {
		if *offset < 0 {
			return GetLocationHistoryQuery{}, errs.NewValueIsOutOfRangeError("offset", *offset, 0, math.MaxInt)
		}
		q.offset = *offset
	}
	return q, nil
}

func (q GetLocationHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetLocationHistoryQueryIsNotConstructed)
}

func (q GetLocationHistoryQuery) CourierID() kernel.UUID   { return q.courierID }
func (q GetLocationHistoryQuery) Period() kernel.TimeRange { return q.period }
func (q GetLocationHistoryQuery) Limit() int               { return q.limit }
func (q GetLocationHistoryQuery) Offset() int              { return q.offset }
func (q GetLocationHistoryQuery) Paginated() bool          { return q.paginated }
