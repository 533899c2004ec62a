package kernel

import (
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrTimeRangeIsNotConstructed is returned when a zero-value TimeRange is used.
var ErrTimeRangeIsNotConstructed = errs.NewValueIsRequiredError(
	"time range must be created via NewTimeRange")

// TimeRange is a closed interval [start, end] with start strictly before end.
type TimeRange struct {
	start time.Time
	end   time.Time
	guard guard.ConstructorGuard
}

// NewTimeRange returns an error unless start is before end.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, errs.NewValueIsInvalidErrorWithCause(
			"time range",
			fmt.Errorf("start %s is not before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339)),
		)
	}

	return TimeRange{
		start: start.UTC(),
		end:   end.UTC(),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (r TimeRange) Validate() error {
	return r.guard.Validate(ErrTimeRangeIsNotConstructed)
}

func (r TimeRange) Start() time.Time {
	return r.start
}

func (r TimeRange) End() time.Time {
	return r.end
}

// Contains reports whether t lies within the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}
