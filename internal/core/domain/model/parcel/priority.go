package parcel

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Priority orders the pool. Urgent packages are offered first.
type Priority int

const (
	UnknownPriority Priority = iota
	Normal
	Urgent
)

// ParsePriority accepts "normal" or "urgent" in any case.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return Normal, nil
	case "urgent":
		return Urgent, nil
	default:
		return UnknownPriority, errs.NewValueIsInvalidErrorWithCause(
			"priority",
			fmt.Errorf("%q is not a valid priority", s),
		)
	}
}

func (p Priority) Validate() error {
	if p != Normal && p != Urgent {
		return errs.NewValueIsOutOfRangeError("priority", int(p), int(Normal), int(Urgent))
	}
	return nil
}

func (p Priority) IsUrgent() bool {
	return p == Urgent
}

func (p Priority) String() string {
	switch p {
	case Normal:
		return "normal"
	case Urgent:
		return "urgent"
	default:
		return "unknown"
	}
}
