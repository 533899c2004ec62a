package kernel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MaxAccuracyMeters is the largest accepted GPS accuracy radius.
	MaxAccuracyMeters = 1000.0
	// DefaultAccuracyMeters is assumed when a producer omits accuracy.
	DefaultAccuracyMeters = 10.0
	// MaxSpeedKmh is the upper bound for a reported speed.
	MaxSpeedKmh = 200.0
	// MaxHeadingDegrees is the upper bound for a reported heading.
	MaxHeadingDegrees = 360.0

	// MaxFutureOffset is how far ahead of now a strict Location timestamp may be.
	MaxFutureOffset = 60 * time.Second
	// MaxPastOffset is how far behind now a strict Location timestamp may be.
	MaxPastOffset = 300 * time.Second
)

var (
	// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
	ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
		"location must be created via NewLocation or LocationFromStored")

	// ErrTimestampInFuture is returned by NewLocation for readings more than
	// MaxFutureOffset ahead of the current time.
	ErrTimestampInFuture = errors.New("timestamp is too far in the future")

	// ErrTimestampTooOld is returned by NewLocation for readings more than
	// MaxPastOffset behind the current time.
	ErrTimestampTooOld = errors.New("timestamp is too old")
)

// Location is a single GPS reading: a point plus accuracy, the time it was
// taken and optional speed and heading.
//
// There are two constructors:
//   - NewLocation is strict and rejects readings whose timestamp is more than
//     60 s in the future or 300 s in the past. Use it for live input.
//   - LocationFromStored skips the timestamp window. Use it to rehydrate
//     readings from storage or from a stream where events may predate receipt.
//
// Example:
//
//	speed := 18.5
//	loc, err := kernel.NewLocation(52.52, 13.405, 8, time.Now(), &speed, nil)
//	if err != nil {
//	    // reject the reading
//	}
type Location struct { //nolint:recvcheck //setters need pointer receivers
	coordinates Coordinates
	accuracy    float64
	timestamp   time.Time
	speed       *float64
	heading     *float64
	guard       guard.ConstructorGuard
}

// NewLocation creates a live reading and enforces the timestamp window
// relative to time.Now().
//
// Parameters:
//   - latitude, longitude: the position in degrees
//   - accuracy: radius in metres, 0 < accuracy <= MaxAccuracyMeters
//   - timestamp: when the reading was taken
//   - speed: optional km/h in [0, MaxSpeedKmh]
//   - heading: optional degrees in [0, MaxHeadingDegrees]
//
// Returns:
//   - Location: the validated reading
//   - error: every violated rule joined together
func NewLocation(
	latitude, longitude, accuracy float64,
	timestamp time.Time,
	speed, heading *float64,
) (Location, error) {
	return newLocation(latitude, longitude, accuracy, timestamp, speed, heading, time.Now())
}

// LocationFromStored rehydrates a reading without the timestamp window.
// All other rules of NewLocation still apply.
func LocationFromStored(
	latitude, longitude, accuracy float64,
	timestamp time.Time,
	speed, heading *float64,
) (Location, error) {
	return newLocation(latitude, longitude, accuracy, timestamp, speed, heading, time.Time{})
}

func newLocation(
	latitude, longitude, accuracy float64,
	timestamp time.Time,
	speed, heading *float64,
	now time.Time,
) (Location, error) {
	coordinates, coordErr := NewCoordinates(latitude, longitude)

	l := Location{
		coordinates: coordinates,
		timestamp:   timestamp.UTC(),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		coordErr,
		l.setAccuracy(accuracy),
		l.setSpeed(speed),
		l.setHeading(heading),
		validateTimestamp(timestamp, now),
	); err != nil {
		return Location{}, err
	}

	return l, nil
}

// Validate reports whether the reading was built by one of the constructors.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Coordinates returns the position of the reading.
func (l Location) Coordinates() Coordinates {
	return l.coordinates
}

// Latitude returns the latitude in degrees.
func (l Location) Latitude() float64 {
	return l.coordinates.Latitude()
}

// Longitude returns the longitude in degrees.
func (l Location) Longitude() float64 {
	return l.coordinates.Longitude()
}

// Accuracy returns the accuracy radius in metres.
func (l Location) Accuracy() float64 {
	return l.accuracy
}

// Timestamp returns when the reading was taken, in UTC.
func (l Location) Timestamp() time.Time {
	return l.timestamp
}

// Speed returns the reported speed in km/h, or nil when none was reported.
func (l Location) Speed() *float64 {
	return copyFloat(l.speed)
}

// Heading returns the reported heading in degrees, or nil when none was reported.
func (l Location) Heading() *float64 {
	return copyFloat(l.heading)
}

// DistanceTo returns the Haversine distance in kilometres between two readings.
func (l Location) DistanceTo(other Location) float64 {
	return l.coordinates.DistanceTo(other.coordinates)
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("%s ±%.0fm @ %s", l.coordinates, l.accuracy, l.timestamp.Format(time.RFC3339))
}

func (l *Location) setAccuracy(accuracy float64) error {
	if math.IsNaN(accuracy) || accuracy <= 0 || accuracy > MaxAccuracyMeters {
		return errs.NewValueIsOutOfRangeError("accuracy", accuracy, 0, MaxAccuracyMeters)
	}
	l.accuracy = accuracy
	return nil
}

func (l *Location) setSpeed(speed *float64) error {
	if speed == nil {
		return nil
	}
	if math.IsNaN(*speed) || *speed < 0 || *speed > MaxSpeedKmh {
		return errs.NewValueIsOutOfRangeError("speed", *speed, 0, MaxSpeedKmh)
	}
	l.speed = copyFloat(speed)
	return nil
}

func (l *Location) setHeading(heading *float64) error {
	if heading == nil {
		return nil
	}
	if math.IsNaN(*heading) || *heading < 0 || *heading > MaxHeadingDegrees {
		return errs.NewValueIsOutOfRangeError("heading", *heading, 0, MaxHeadingDegrees)
	}
	l.heading = copyFloat(heading)
	return nil
}

// validateTimestamp enforces the live-reading window. A zero now disables it.
func validateTimestamp(timestamp, now time.Time) error {
	if timestamp.IsZero() {
		return errs.NewValueIsRequiredError("timestamp")
	}
	if now.IsZero() {
		return nil
	}

	diff := timestamp.Sub(now)
	if diff > MaxFutureOffset {
		return errs.NewValueIsInvalidErrorWithCause("timestamp", ErrTimestampInFuture)
	}
	if diff < -MaxPastOffset {
		return errs.NewValueIsInvalidErrorWithCause("timestamp", ErrTimestampTooOld)
	}
	return nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
