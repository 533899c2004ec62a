package commands

import (
	"context"

	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
)

// IngestLocationCommandHandler writes a streamed position to the location
// cache, the durable current location and the history. A position older than
// the stored current one only lands in the history.
type IngestLocationCommandHandler struct {
	uowFactory    LocationUoWFactory
	locationCache ports.LocationCache
}

func NewIngestLocationCommandHandler(
	uowFactory LocationUoWFactory,
	locationCache ports.LocationCache,
) IngestLocationCommandHandler {
	return IngestLocationCommandHandler{
		uowFactory:    uowFactory,
		locationCache: locationCache,
	}
}

func (h IngestLocationCommandHandler) Handle(ctx context.Context, cmd IngestLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	current, err := tracking.NewCourierLocation(cmd.CourierID(), cmd.Location())
	if err != nil {
		return err
	}
	entry, err := tracking.NewHistoryEntry(cmd.CourierID(), cmd.Location())
	if err != nil {
		return err
	}

	if err = h.locationCache.Set(ctx, current); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	locationRepo := uow.LocationRepository()
	if err = locationRepo.SaveCurrent(ctx, current); err != nil {
		return err
	}
	if err = locationRepo.AppendHistory(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
