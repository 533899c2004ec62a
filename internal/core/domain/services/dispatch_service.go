package services

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrNoSuitableCourier is the sentinel behind DispatchFailure.
var ErrNoSuitableCourier = errors.New("no suitable courier")

// RejectionReason explains why a candidate courier was not selected.
type RejectionReason int

const (
	// NoRejection means the candidate passed every check.
	NoRejection RejectionReason = iota
	// NotAvailable means the courier is not Free.
	NotAvailable
	// AtFullCapacity means the courier carries max load already.
	AtFullCapacity
	// WrongZone means the courier works in another zone than the package is delivered to.
	WrongZone
	// NoLocationData means the courier has no cached location.
	NoLocationData
	// TooFarFromPickup means the pickup is beyond the courier's max distance.
	TooFarFromPickup
)

func (r RejectionReason) String() string {
	switch r {
	case NoRejection:
		return "none"
	case NotAvailable:
		return "not_available"
	case AtFullCapacity:
		return "at_full_capacity"
	case WrongZone:
		return "wrong_zone"
	case NoLocationData:
		return "no_location_data"
	case TooFarFromPickup:
		return "too_far_from_pickup"
	default:
		return "unknown"
	}
}

// CourierForDispatch is the dispatch view of a candidate courier.
// CurrentLocation is nil when the hot store has no location.
type CourierForDispatch struct {
	ID              kernel.UUID
	Status          courier.Status
	TransportType   courier.TransportType
	MaxDistanceKm   float64
	Capacity        courier.Capacity
	CurrentLocation *kernel.Location
	Rating          float64
	WorkZone        string
}

// PackageForDispatch is the dispatch view of a pooled package.
type PackageForDispatch struct {
	ID             kernel.UUID
	PickupLocation kernel.Coordinates
	DeliveryZone   string
	IsUrgent       bool
}

type DispatchResult struct {
	CourierID               kernel.UUID
	DistanceToPickupKm      float64
	EstimatedArrivalMinutes float64
}

type Rejection struct {
	CourierID kernel.UUID
	Reason    RejectionReason
}

// DispatchFailure lists the rejection of every candidate. It is empty when
// there were no candidates at all.
type DispatchFailure struct {
	Rejections []Rejection
}

func (e *DispatchFailure) Error() string {
	if len(e.Rejections) == 0 {
		return fmt.Sprintf("%s: no candidates", ErrNoSuitableCourier)
	}
	parts := make([]string, 0, len(e.Rejections))
	for _, r := range e.Rejections {
		parts = append(parts, fmt.Sprintf("%s=%s", r.CourierID, r.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrNoSuitableCourier, strings.Join(parts, ", "))
}

func (e *DispatchFailure) Unwrap() error {
	return ErrNoSuitableCourier
}

// ReasonFor returns the rejection reason recorded for courierID.
func (e *DispatchFailure) ReasonFor(courierID kernel.UUID) (RejectionReason, bool) {
	for _, r := range e.Rejections {
		if r.CourierID.IsEqual(courierID) {
			return r.Reason, true
		}
	}
	return NoRejection, false
}

// DispatchService selects the courier that should take a pooled package.
//
// Business rules:
//   - a candidate must be Free, have room, work in the delivery zone,
//     have a known location and be within its max distance of the pickup
//   - the closest candidate wins; on equal distance the higher rating wins
//   - every rejected candidate is reported with its reason
//
// Example:
//
//	result, err := services.NewDispatchService().FindNearestCourier(candidates, pkg)
//	var failure *services.DispatchFailure
//	if errors.As(err, &failure) {
//	    // inspect failure.Rejections
//	}
type DispatchService struct{}

func NewDispatchService() DispatchService {
	return DispatchService{}
}

type scoredCandidate struct {
	courier  CourierForDispatch
	distance float64
}

// FindNearestCourier returns the best candidate, or a *DispatchFailure when
// no candidate qualifies.
func (s DispatchService) FindNearestCourier(
	couriers []CourierForDispatch,
	pkg PackageForDispatch,
) (DispatchResult, error) {
	candidates := make([]scoredCandidate, 0, len(couriers))
	var rejections []Rejection

	for _, c := range couriers {
		distance, reason := s.ValidateAssignment(c, pkg)
		if reason != NoRejection {
			rejections = append(rejections, Rejection{CourierID: c.ID, Reason: reason})
			continue
		}
		candidates = append(candidates, scoredCandidate{courier: c, distance: distance})
	}

	if len(candidates) == 0 {
		return DispatchResult{}, &DispatchFailure{Rejections: rejections}
	}

	slices.SortStableFunc(candidates, func(a, b scoredCandidate) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		return cmp.Compare(b.courier.Rating, a.courier.Rating)
	})

	best := candidates[0]
	return DispatchResult{
		CourierID:               best.courier.ID,
		DistanceToPickupKm:      best.distance,
		EstimatedArrivalMinutes: best.courier.TransportType.EstimatedMinutes(best.distance),
	}, nil
}

// ValidateAssignment checks one candidate. It returns the pickup distance
// when the candidate qualifies, otherwise the first failed check in the
// order availability, capacity, zone, location, distance.
func (s DispatchService) ValidateAssignment(c CourierForDispatch, pkg PackageForDispatch) (float64, RejectionReason) {
	if !c.Status.CanAcceptAssignment() {
		return 0, NotAvailable
	}
	if !c.Capacity.CanAccept() {
		return 0, AtFullCapacity
	}
	if c.WorkZone != pkg.DeliveryZone {
		return 0, WrongZone
	}
	if c.CurrentLocation == nil {
		return 0, NoLocationData
	}

	distance := c.CurrentLocation.Coordinates().DistanceTo(pkg.PickupLocation)
	if distance > c.MaxDistanceKm {
		return distance, TooFarFromPickup
	}
	return distance, NoRejection
}
