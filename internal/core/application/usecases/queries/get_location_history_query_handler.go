package queries

import (
	"context"

	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
)

type GetLocationHistoryResponse struct {
	Entries    []tracking.HistoryEntry
	TotalCount int64
	HasMore    bool
}

type GetLocationHistoryQueryHandler struct {
	locationRepo ports.LocationRepository
}

func NewGetLocationHistoryQueryHandler(locationRepo ports.LocationRepository) GetLocationHistoryQueryHandler {
	return GetLocationHistoryQueryHandler{locationRepo: locationRepo}
}

func (h GetLocationHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetLocationHistoryQuery,
) (GetLocationHistoryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLocationHistoryResponse{}, err
	}

	total, err := h.locationRepo.CountHistory(ctx, query.CourierID(), query.Period())
	if err != nil {
		return GetLocationHistoryResponse{}, err
	}

	var entries []tracking.HistoryEntry
	if query.Paginated() {
		entries, err = h.locationRepo.GetHistoryPage(ctx,
			query.CourierID(), query.Period(), query.Limit(), query.Offset())
	} else {
		entries, err = h.locationRepo.GetHistory(ctx, query.CourierID(), query.Period())
	}
	if err != nil {
		return GetLocationHistoryResponse{}, err
	}

	if len(entries) > query.Limit() {
		entries = entries[:query.Limit()]
	}
	if entries == nil {
		entries = make([]tracking.HistoryEntry, 0)
	}

	return GetLocationHistoryResponse{
		Entries:    entries,
		TotalCount: total,
		HasMore:    int64(query.Offset()+len(entries)) < total,
	}, nil
}
