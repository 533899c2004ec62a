package courier

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrWorkHoursIsNotConstructed is returned when a zero-value WorkHours is used.
	ErrWorkHoursIsNotConstructed = errs.NewValueIsRequiredError("work hours must be created via NewWorkHours")
	// ErrInvalidWorkHours is the cause attached to every WorkHours validation failure.
	ErrInvalidWorkHours = errors.New("invalid work hours")
)

// TimeOfDay is a wall-clock time without a date, with second precision.
type TimeOfDay struct {
	seconds int
}

// NewTimeOfDay validates hour in [0, 23], minute and second in [0, 59].
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("hour", hour, 0, 23)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("minute", minute, 0, 59)
	}
	if second < 0 || second > 59 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("second", second, 0, 59)
	}
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}, nil
}

// timeOfDayLayouts are tried in order by ParseTimeOfDay. Postgres TIME columns
// come back either as "15:04:05" or, through some drivers, as a full timestamp.
var timeOfDayLayouts = []string{
	"15:04:05",
	"15:04",
	"15:04:05.999999",
	time.RFC3339Nano,
}

// ParseTimeOfDay accepts "HH:MM", "HH:MM:SS", fractional seconds or an RFC3339
// timestamp whose clock part is used.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayFromTime(t), nil
		}
	}
	return TimeOfDay{}, errs.NewValueIsInvalidErrorWithCause(
		"time of day",
		fmt.Errorf("%q is not a valid time of day", s),
	)
}

// TimeOfDayFromTime takes the clock part of t in t's location.
func TimeOfDayFromTime(t time.Time) TimeOfDay {
	return TimeOfDay{seconds: t.Hour()*3600 + t.Minute()*60 + t.Second()}
}

func (t TimeOfDay) Hour() int {
	return t.seconds / 3600
}

func (t TimeOfDay) Minute() int {
	return t.seconds % 3600 / 60
}

func (t TimeOfDay) Second() int {
	return t.seconds % 60
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.seconds < other.seconds
}

func (t TimeOfDay) IsEqual(other TimeOfDay) bool {
	return t.seconds == other.seconds
}

// String returns "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// WorkHours is a courier's weekly schedule: a daily shift and the ISO
// weekdays (1 = Monday ... 7 = Sunday) on which it applies.
//
// A shift whose end is before its start runs overnight: 22:00–06:00 on
// Monday covers Monday 22:00 to Tuesday 06:00.
//
// Example:
//
//	start, _ := courier.NewTimeOfDay(9, 0, 0)
//	end, _ := courier.NewTimeOfDay(18, 0, 0)
//	wh, err := courier.NewWorkHours(start, end, []int{1, 2, 3, 4, 5})
type WorkHours struct {
	start TimeOfDay
	end   TimeOfDay
	days  []int
	guard guard.ConstructorGuard
}

// NewWorkHours validates the schedule.
//
// Business rules:
//   - start and end must differ
//   - at least one day is required
//   - every day must be within 1..7; duplicates are collapsed
func NewWorkHours(start, end TimeOfDay, days []int) (WorkHours, error) {
	if start.IsEqual(end) {
		return WorkHours{}, errs.NewValueIsInvalidErrorWithCause(
			"work hours",
			fmt.Errorf("%w: start %s equals end", ErrInvalidWorkHours, start),
		)
	}
	if len(days) == 0 {
		return WorkHours{}, errs.NewValueIsInvalidErrorWithCause(
			"work hours",
			fmt.Errorf("%w: at least one work day required", ErrInvalidWorkHours),
		)
	}

	normalized := make([]int, 0, len(days))
	for _, day := range days {
		if day < 1 || day > 7 {
			return WorkHours{}, errs.NewValueIsInvalidErrorWithCause(
				"work hours",
				fmt.Errorf("%w: day %d must be 1-7", ErrInvalidWorkHours, day),
			)
		}
		if !slices.Contains(normalized, day) {
			normalized = append(normalized, day)
		}
	}
	slices.Sort(normalized)

	return WorkHours{
		start: start,
		end:   end,
		days:  normalized,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (w WorkHours) Validate() error {
	return w.guard.Validate(ErrWorkHoursIsNotConstructed)
}

func (w WorkHours) Start() TimeOfDay {
	return w.start
}

func (w WorkHours) End() TimeOfDay {
	return w.end
}

// StartHour drops minutes and seconds.
func (w WorkHours) StartHour() int {
	return w.start.Hour()
}

// EndHour drops minutes and seconds.
func (w WorkHours) EndHour() int {
	return w.end.Hour()
}

// Days returns a sorted copy of the ISO weekdays.
func (w WorkHours) Days() []int {
	return slices.Clone(w.days)
}

func (w WorkHours) IsOvernight() bool {
	return w.end.Before(w.start)
}

// IsWorkingAt reports whether instant falls inside a shift. Both bounds are
// inclusive. For overnight shifts the part after midnight belongs to the
// previous day's shift.
func (w WorkHours) IsWorkingAt(instant time.Time) bool {
	day := isoWeekday(instant)
	tod := TimeOfDayFromTime(instant)

	if !w.IsOvernight() {
		return w.hasDay(day) && !tod.Before(w.start) && !w.end.Before(tod)
	}

	if w.hasDay(day) && !tod.Before(w.start) {
		return true
	}
	previous := day - 1
	if previous == 0 {
		previous = 7
	}
	return w.hasDay(previous) && !w.end.Before(tod)
}

func (w WorkHours) IsEqual(other WorkHours) bool {
	return w.start.IsEqual(other.start) && w.end.IsEqual(other.end) && slices.Equal(w.days, other.days)
}

func (w WorkHours) String() string {
	return fmt.Sprintf("%s-%s %v", w.start, w.end, w.days)
}

func (w WorkHours) hasDay(day int) bool {
	return slices.Contains(w.days, day)
}

// isoWeekday maps time.Sunday (0) to 7 so Monday is 1.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
