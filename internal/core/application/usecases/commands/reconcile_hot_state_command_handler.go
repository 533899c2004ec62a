package commands

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// ReconcileHotStateResult counts the repairs made by one pass.
type ReconcileHotStateResult struct {
	Scanned         int
	Initialized     int
	MaxLoadRepaired int
	ZonesMoved      int
	LocationsPruned int
}

// ReconcileHotStateCommandHandler walks the durable profiles page by page and
// brings the hot store back in line with them:
//   - a courier without runtime state gets courier.DefaultRuntimeState;
//   - a zero max load is reset from the transport type;
//   - a zone that drifted from the profile is moved back.
//
// Afterwards expired members of the active-locations index are pruned.
// Profiles are read outside a transaction; nothing durable is written.
type ReconcileHotStateCommandHandler struct {
	uowFactory    CourierUoWFactory
	stateCache    ports.CourierStateCache
	locationCache ports.LocationCache
	log           *logger.Logger
}

func NewReconcileHotStateCommandHandler(
	uowFactory CourierUoWFactory,
	stateCache ports.CourierStateCache,
	locationCache ports.LocationCache,
	log *logger.Logger,
) ReconcileHotStateCommandHandler {
	return ReconcileHotStateCommandHandler{
		uowFactory:    uowFactory,
		stateCache:    stateCache,
		locationCache: locationCache,
		log:           nopIfNil(log).With("component", "reconcile_hot_state"),
	}
}

// Handle returns the partial result together with the first error.
func (h ReconcileHotStateCommandHandler) Handle(
	ctx context.Context,
	cmd ReconcileHotStateCommand,
) (ReconcileHotStateResult, error) {
	var result ReconcileHotStateResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	courierRepo := h.uowFactory.Create().CourierRepository()
	for offset := 0; ; offset += cmd.BatchSize() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		page, err := courierRepo.List(ctx, ports.CourierFilter{Limit: cmd.BatchSize(), Offset: offset})
		if err != nil {
			return result, err
		}

		for _, aggregate := range page {
			if err = h.reconcile(ctx, aggregate, &result); err != nil {
				return result, err
			}
		}

		if len(page) < cmd.BatchSize() {
			break
		}
	}

	pruned, err := h.locationCache.PruneInactive(ctx)
	if err != nil {
		return result, err
	}
	result.LocationsPruned = pruned

	return result, nil
}

func (h ReconcileHotStateCommandHandler) reconcile(
	ctx context.Context,
	aggregate *courier.Courier,
	result *ReconcileHotStateResult,
) error {
	result.Scanned++

	state, found, err := h.stateCache.GetState(ctx, aggregate.ID())
	if err != nil {
		return err
	}

	if !found {
		defaults := courier.DefaultRuntimeState(aggregate.TransportType(), aggregate.WorkZone())
		if err = h.stateCache.InitState(ctx, aggregate.ID(), defaults); err != nil {
			return err
		}
		result.Initialized++
		h.log.Info("hot state initialized", "courier_id", aggregate.ID().String(), "zone", aggregate.WorkZone())
		return nil
	}

	if state.MaxLoad <= 0 {
		if err = h.stateCache.SetMaxLoad(ctx, aggregate.ID(), aggregate.TransportType().MaxLoad()); err != nil {
			return err
		}
		result.MaxLoadRepaired++
	}

	if state.WorkZone != aggregate.WorkZone() {
		if err = h.stateCache.MoveZone(ctx, aggregate.ID(), state.WorkZone, aggregate.WorkZone()); err != nil {
			return err
		}
		result.ZonesMoved++
		h.log.Info("hot state zone repaired",
			"courier_id", aggregate.ID().String(),
			"from", state.WorkZone,
			"to", aggregate.WorkZone(),
		)
	}

	return nil
}
