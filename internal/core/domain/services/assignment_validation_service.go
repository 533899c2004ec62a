package services

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/parcel"
)

// ErrInvalidAssignment is the sentinel behind AssignmentValidationError.
var ErrInvalidAssignment = errors.New("invalid assignment")

type ViolationKind int

const (
	InvalidPackageStatus ViolationKind = iota + 1
	CourierNotAvailable
	OutsideWorkingHours
	CourierAtCapacity
	DistanceExceedsMax
)

// Violation is one failed assignment rule.
type Violation struct {
	Kind    ViolationKind
	Message string
}

// AssignmentValidationError carries every violated rule, in rule order.
type AssignmentValidationError struct {
	Violations []Violation
}

func (e *AssignmentValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidAssignment, strings.Join(messages, "; "))
}

func (e *AssignmentValidationError) Unwrap() error {
	return ErrInvalidAssignment
}

// Has reports whether a violation of the given kind was recorded.
func (e *AssignmentValidationError) Has(kind ViolationKind) bool {
	for _, v := range e.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// CourierAvailability is what manual assignment knows about the courier.
// Work hours are whole hours; minutes are not considered.
type CourierAvailability struct {
	Status        courier.Status
	CurrentLoad   int
	MaxLoad       int
	WorkStartHour int
	WorkEndHour   int
	MaxDistanceKm float64
}

type PackageForValidation struct {
	Status              parcel.Status
	DistanceToCourierKm float64
}

// AssignmentValidationService checks the business rules of a manual assignment.
//
// Business rules:
//   - the package is InPool
//   - the courier is Free
//   - the current hour is inside the shift: start <= hour < end, or for an
//     overnight shift (start > end) hour >= start or hour < end
//   - the courier has room
//   - the pickup is within the courier's max distance
//
// All rules are evaluated; a failure reports every violation.
type AssignmentValidationService struct{}

func NewAssignmentValidationService() AssignmentValidationService {
	return AssignmentValidationService{}
}

// Validate returns nil or an *AssignmentValidationError.
func (s AssignmentValidationService) Validate(
	c CourierAvailability,
	p PackageForValidation,
	currentHour int,
) error {
	var violations []Violation

	if p.Status != parcel.InPool {
		violations = append(violations, Violation{
			Kind:    InvalidPackageStatus,
			Message: fmt.Sprintf("invalid package status: %s (expected %s)", p.Status, parcel.InPool),
		})
	}
	if c.Status != courier.Free {
		violations = append(violations, Violation{
			Kind:    CourierNotAvailable,
			Message: fmt.Sprintf("courier not available: current status is %s", c.Status),
		})
	}
	if !IsWithinWorkingHours(currentHour, c.WorkStartHour, c.WorkEndHour) {
		violations = append(violations, Violation{
			Kind: OutsideWorkingHours,
			Message: fmt.Sprintf("outside working hours: current hour %d is not between %d and %d",
				currentHour, c.WorkStartHour, c.WorkEndHour),
		})
	}
	if c.CurrentLoad >= c.MaxLoad {
		violations = append(violations, Violation{
			Kind:    CourierAtCapacity,
			Message: fmt.Sprintf("courier at capacity: %d/%d packages", c.CurrentLoad, c.MaxLoad),
		})
	}
	if p.DistanceToCourierKm > c.MaxDistanceKm {
		violations = append(violations, Violation{
			Kind: DistanceExceedsMax,
			Message: fmt.Sprintf("distance %.2f km exceeds courier's maximum %.2f km",
				p.DistanceToCourierKm, c.MaxDistanceKm),
		})
	}

	if len(violations) == 0 {
		return nil
	}
	return &AssignmentValidationError{Violations: violations}
}

// IsWithinWorkingHours is start-inclusive and end-exclusive.
func IsWithinWorkingHours(hour, start, end int) bool {
	if start <= end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
