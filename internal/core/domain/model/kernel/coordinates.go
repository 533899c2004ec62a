package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MinLatitude is the southernmost valid latitude in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the northernmost valid latitude in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the westernmost valid longitude in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the easternmost valid longitude in degrees.
	MaxLongitude = 180.0

	// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
	EarthRadiusKm = 6371.0
)

// ErrCoordinatesIsNotConstructed is returned when a zero-value Coordinates is used.
var ErrCoordinatesIsNotConstructed = errs.NewValueIsRequiredError(
	"coordinates must be created via NewCoordinates")

// Coordinates is an immutable WGS84 point.
//
// Two Coordinates are equal when both latitude and longitude are equal.
// The zero value is invalid and fails Validate; use NewCoordinates.
//
// Example:
//
//	berlin, _ := kernel.NewCoordinates(52.5200, 13.4050)
//	potsdam, _ := kernel.NewCoordinates(52.3906, 13.0645)
//	km := berlin.DistanceTo(potsdam) // ~26.5
type Coordinates struct { //nolint:recvcheck //setters need pointer receivers
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewCoordinates creates a point after checking both axes.
//
// Parameters:
//   - latitude: degrees in [MinLatitude, MaxLatitude]
//   - longitude: degrees in [MinLongitude, MaxLongitude]
//
// Returns:
//   - Coordinates: the validated point
//   - error: joined range errors for every invalid axis
func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	c := Coordinates{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setLatitude(latitude),
		c.setLongitude(longitude),
	); err != nil {
		return Coordinates{}, err
	}

	return c, nil
}

// Validate reports whether the point was built by NewCoordinates.
func (c Coordinates) Validate() error {
	return c.guard.Validate(ErrCoordinatesIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (c Coordinates) Latitude() float64 {
	return c.latitude
}

// Longitude returns the longitude in degrees.
func (c Coordinates) Longitude() float64 {
	return c.longitude
}

// IsEqual compares both axes exactly.
func (c Coordinates) IsEqual(other Coordinates) bool {
	return c.latitude == other.latitude && c.longitude == other.longitude
}

// DistanceTo returns the great-circle distance in kilometres using the
// Haversine formula. It is symmetric and a point's distance to itself is 0.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	lat1 := toRadians(c.latitude)
	lat2 := toRadians(other.latitude)
	deltaLat := toRadians(other.latitude - c.latitude)
	deltaLon := toRadians(other.longitude - c.longitude)

	sinLat := math.Sin(deltaLat / 2)
	sinLon := math.Sin(deltaLon / 2)

	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return EarthRadiusKm * 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

// String implements fmt.Stringer.
func (c Coordinates) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.latitude, c.longitude)
}

func (c *Coordinates) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	c.latitude = latitude
	return nil
}

func (c *Coordinates) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}
	c.longitude = longitude
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
