package queries

import (
	"context"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// GetFreeCouriersQueryHandler reads the free-courier index from the hot
// store and joins it with the durable profiles. Index members without a
// profile, archived couriers and couriers whose state is no longer Free are
// skipped.
type GetFreeCouriersQueryHandler struct {
	courierRepo ports.CourierRepository
	stateCache  ports.CourierStateCache
}

func NewGetFreeCouriersQueryHandler(
	courierRepo ports.CourierRepository,
	stateCache ports.CourierStateCache,
) GetFreeCouriersQueryHandler {
	return GetFreeCouriersQueryHandler{courierRepo: courierRepo, stateCache: stateCache}
}

// Handle returns the couriers ordered by name.
func (h GetFreeCouriersQueryHandler) Handle(ctx context.Context, query GetFreeCouriersQuery) ([]CourierView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		ids []kernel.UUID
		err error
	)
	if query.Zone() == "" {
		ids, err = h.stateCache.GetAllFree(ctx)
	} else {
		ids, err = h.stateCache.GetFreeCouriers(ctx, query.Zone())
	}
	if err != nil {
		return nil, err
	}

	views := make([]CourierView, 0, len(ids))
	if len(ids) == 0 {
		return views, nil
	}

	profiles, err := h.courierRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, aggregate := range profiles {
		if err = attachRuntimeState(ctx, h.stateCache, aggregate); err != nil {
			return nil, err
		}
		if aggregate.Status() != courier.Free {
			continue
		}
		views = append(views, newCourierView(aggregate))
	}

	slices.SortFunc(views, func(a, b CourierView) int {
		return strings.Compare(a.Name, b.Name)
	})
	return views, nil
}
