package courier

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// TransportType is how a courier moves. It determines average speed, the
// recommended delivery radius and how many packages the courier can carry.
type TransportType int

const (
	// UnknownTransport is the zero value and is never valid.
	UnknownTransport TransportType = iota
	Walking
	Bicycle
	Motorcycle
	Car
)

type transportProfile struct {
	name                     string
	averageSpeedKmh          float64
	maxRecommendedDistanceKm float64
	maxLoad                  int
}

func getTransportProfiles() map[TransportType]transportProfile {
	return map[TransportType]transportProfile{
		Walking:    {name: "walking", averageSpeedKmh: 5, maxRecommendedDistanceKm: 3, maxLoad: 1},
		Bicycle:    {name: "bicycle", averageSpeedKmh: 15, maxRecommendedDistanceKm: 10, maxLoad: 2},
		Motorcycle: {name: "motorcycle", averageSpeedKmh: 40, maxRecommendedDistanceKm: 30, maxLoad: 3},
		Car:        {name: "car", averageSpeedKmh: 30, maxRecommendedDistanceKm: 50, maxLoad: 5},
	}
}

// ParseTransportType reads the persisted lowercase form, case-insensitively.
func ParseTransportType(s string) (TransportType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for t, p := range getTransportProfiles() {
		if p.name == normalized {
			return t, nil
		}
	}
	return UnknownTransport, errs.NewValueIsInvalidErrorWithCause(
		"transport type",
		fmt.Errorf("%q is not a valid transport type", s),
	)
}

func (t TransportType) Validate() error {
	if _, ok := getTransportProfiles()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"transport type",
			fmt.Errorf("%d is not a valid transport type", t),
		)
	}
	return nil
}

func (t TransportType) String() string {
	if p, ok := getTransportProfiles()[t]; ok {
		return p.name
	}
	return "unknown"
}

// AverageSpeedKmh is used to estimate arrival times.
func (t TransportType) AverageSpeedKmh() float64 {
	return getTransportProfiles()[t].averageSpeedKmh
}

func (t TransportType) MaxRecommendedDistanceKm() float64 {
	return getTransportProfiles()[t].maxRecommendedDistanceKm
}

// MaxLoad is the number of packages a courier with this transport can carry at once.
func (t TransportType) MaxLoad() int {
	return getTransportProfiles()[t].maxLoad
}

// EstimatedMinutes converts a distance into travel time at the average speed.
// Unknown transport yields 0.
func (t TransportType) EstimatedMinutes(distanceKm float64) float64 {
	speed := t.AverageSpeedKmh()
	if speed <= 0 {
		return 0
	}
	return distanceKm / speed * 60
}
