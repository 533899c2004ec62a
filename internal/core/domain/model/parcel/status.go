package parcel

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a package.
//
// State transitions:
//
//	Accepted ──▶ InPool ──▶ Assigned ──▶ InTransit ──┬──▶ Delivered
//	               ▲                                  │
//	               │                                  └──▶ NotDelivered
//	               │                                           │
//	               └──────────── RequiresHandling ◀────────────┘
//
// Delivered is terminal. The zero value Unknown is never a valid state.
type Status int

const (
	// Unknown is the zero value and is never a valid package status.
	Unknown Status = iota
	// Accepted is the initial status of a package taken from an order.
	Accepted
	// InPool means the package is waiting for a courier.
	InPool
	// Assigned means a courier was selected but has not picked the package up.
	Assigned
	// InTransit means the courier carries the package.
	InTransit
	// Delivered is terminal.
	Delivered
	// NotDelivered means the delivery attempt failed; a reason is recorded.
	NotDelivered
	// RequiresHandling means an operator has to decide what happens next.
	RequiresHandling
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "unknown",
		Accepted:         "accepted",
		InPool:           "in_pool",
		Assigned:         "assigned",
		InTransit:        "in_transit",
		Delivered:        "delivered",
		NotDelivered:     "not_delivered",
		RequiresHandling: "requires_handling",
	}
}

func getValidStatuses() map[string]Status {
	return map[string]Status{
		"accepted":          Accepted,
		"in_pool":           InPool,
		"assigned":          Assigned,
		"in_transit":        InTransit,
		"delivered":         Delivered,
		"not_delivered":     NotDelivered,
		"requires_handling": RequiresHandling,
	}
}

// ParseStatus converts the persisted snake_case form back into a Status.
func ParseStatus(s string) (Status, error) {
	if status, ok := getValidStatuses()[strings.ToLower(strings.TrimSpace(s))]; ok {
		return status, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"package status",
		fmt.Errorf("%q is not a valid package status", s),
	)
}

func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s.String()]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"package status",
			fmt.Errorf("%d is not a valid package status", s),
		)
	}
	return nil
}

// String returns the form persisted in the packages table.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// HasCourier reports whether a package in this status must reference a courier.
func (s Status) HasCourier() bool {
	switch s {
	case Assigned, InTransit, Delivered, NotDelivered, RequiresHandling:
		return true
	default:
		return false
	}
}

// CanTransition is the package status machine. Every lifecycle method of
// Package goes through it.
func CanTransition(from, to Status) bool {
	switch from {
	case Accepted:
		return to == InPool
	case InPool:
		return to == Assigned
	case Assigned:
		return to == InTransit
	case InTransit:
		return to == Delivered || to == NotDelivered
	case NotDelivered:
		return to == RequiresHandling
	case RequiresHandling:
		return to == InPool
	default:
		return false
	}
}

// TransitionError reports a transition rejected by CanTransition.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: package status transition from %s to %s is not allowed",
		errs.ErrValueIsInvalid, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
