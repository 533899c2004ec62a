package commands

import (
	"errors"
	"math"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrPurgeLocationHistoryCommandIsNotConstructed = errors.New(
	"PurgeLocationHistoryCommand must be created via NewPurgeLocationHistoryCommand constructor",
)

// PurgeLocationHistoryCommand drops history entries recorded before now - retention.
type PurgeLocationHistoryCommand struct {
	retention time.Duration

	guard guard.ConstructorGuard
}

func NewPurgeLocationHistoryCommand(retention time.Duration) (PurgeLocationHistoryCommand, error) {
	if retention <= 0 {
		return PurgeLocationHistoryCommand{}, errs.NewValueIsOutOfRangeError("retention", retention, time.Nanosecond, time.Duration(math.MaxInt64))
	}
	return PurgeLocationHistoryCommand{
		retention: retention,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PurgeLocationHistoryCommand) Validate() error {
	return c.guard.Validate(ErrPurgeLocationHistoryCommandIsNotConstructed)
}

func (c PurgeLocationHistoryCommand) Retention() time.Duration {
	return c.retention
}
