package commands

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Page sizes for scanning durable profiles.
const (
	DefaultReconcileBatchSize = 200
	MaxReconcileBatchSize     = 1000
)

var ErrReconcileHotStateCommandIsNotConstructed = errors.New(
	"ReconcileHotStateCommand must be created via NewReconcileHotStateCommand constructor",
)

// ReconcileHotStateCommand requests a pass over every active courier profile
// that restores missing or damaged runtime state.
type ReconcileHotStateCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewReconcileHotStateCommand uses DefaultReconcileBatchSize when batchSize is zero.
func NewReconcileHotStateCommand(batchSize int) (ReconcileHotStateCommand, error) {
	if batchSize < 0 || batchSize > MaxReconcileBatchSize {
		return ReconcileHotStateCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 0, MaxReconcileBatchSize)
	}
	if batchSize == 0 {
		batchSize = DefaultReconcileBatchSize
	}
	return ReconcileHotStateCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileHotStateCommand) Validate() error {
	return c.guard.Validate(ErrReconcileHotStateCommandIsNotConstructed)
}

func (c ReconcileHotStateCommand) BatchSize() int {
	return c.batchSize
}
