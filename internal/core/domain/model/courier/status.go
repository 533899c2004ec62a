package courier

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status represents the runtime availability of a courier.
//
// Status lifecycle:
//
//	Unavailable ──GoOnline──▶ Free ──AcceptPackage (full)──▶ Busy
//	     ▲                    │  ▲                            │
//	     └────GoOffline───────┘  └──CompleteDelivery (room)───┘
//
//	Unavailable/Free ──Archive──▶ Archived (terminal)
//
// The zero value Unknown is never a valid state and only appears when parsing fails.
type Status int

const (
	// Unknown is the zero value and is never a valid courier status.
	Unknown Status = iota
	// Unavailable is the initial status: the courier is registered but offline.
	Unavailable
	// Free means the courier is online and can take new packages.
	Free
	// Busy means the courier is online but at full capacity.
	Busy
	// Archived is terminal: the courier was soft-deleted.
	Archived
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "unknown",
		Unavailable: "unavailable",
		Free:        "free",
		Busy:        "busy",
		Archived:    "archived",
	}
}

func getValidStatuses() map[string]Status {
	return map[string]Status{
		"unavailable": Unavailable,
		"free":        Free,
		"busy":        Busy,
		"archived":    Archived,
	}
}

// ParseStatus converts the persisted lowercase form back into a Status.
// Matching is case-insensitive; anything else yields Unknown and an error.
func ParseStatus(s string) (Status, error) {
	if status, ok := getValidStatuses()[strings.ToLower(strings.TrimSpace(s))]; ok {
		return status, nil
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"courier status",
		fmt.Errorf("%q is not a valid courier status", s),
	)
}

// Validate returns an error unless s is one of the four real statuses.
func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s.String()]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"courier status",
			fmt.Errorf("%d is not a valid courier status", s),
		)
	}
	return nil
}

// String returns the lowercase form used in storage and on the wire.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// CanAcceptAssignment reports whether a courier in this status may be offered a package.
func (s Status) CanAcceptAssignment() bool {
	return s == Free
}

// CanTransition is the single source of truth for the courier status machine.
//
// Allowed transitions:
//   - Unavailable → Free, Archived
//   - Free → Unavailable, Busy, Archived
//   - Busy → Free
//
// Archived is terminal and Busy cannot go offline directly.
func CanTransition(from, to Status) bool {
	switch from {
	case Unavailable:
		return to == Free || to == Archived
	case Free:
		return to == Unavailable || to == Busy || to == Archived
	case Busy:
		return to == Free
	default:
		return false
	}
}

// StatusTransitionError reports a transition rejected by CanTransition.
type StatusTransitionError struct {
	From Status
	To   Status
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("%s: courier status transition from %s to %s is not allowed",
		errs.ErrValueIsInvalid, e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

func newStatusTransitionError(from, to Status) error {
	return &StatusTransitionError{From: from, To: to}
}
