package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

type SaveLocationResult struct {
	LocationID kernel.UUID
	UpdatedAt  time.Time
}

// SaveLocationCommandHandler stores the courier's current position and a
// history entry in one transaction, then refreshes the cached position.
type SaveLocationCommandHandler struct {
	uowFactory    LocationUoWFactory
	locationCache ports.LocationCache
	publisher     ports.EventPublisher
	log           *logger.Logger
}

func NewSaveLocationCommandHandler(
	uowFactory LocationUoWFactory,
	locationCache ports.LocationCache,
	publisher ports.EventPublisher,
	log *logger.Logger,
) SaveLocationCommandHandler {
	return SaveLocationCommandHandler{
		uowFactory:    uowFactory,
		locationCache: locationCache,
		publisher:     publisher,
		log:           nopIfNil(log).With("component", "save_location"),
	}
}

func (h SaveLocationCommandHandler) Handle(ctx context.Context, cmd SaveLocationCommand) (SaveLocationResult, error) {
	if err := cmd.Validate(); err != nil {
		return SaveLocationResult{}, err
	}

	current, err := tracking.NewCourierLocation(cmd.CourierID(), cmd.Location())
	if err != nil {
		return SaveLocationResult{}, err
	}
	entry, err := tracking.NewHistoryEntry(cmd.CourierID(), cmd.Location())
	if err != nil {
		return SaveLocationResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return SaveLocationResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	locationRepo := uow.LocationRepository()
	if err = locationRepo.SaveCurrent(ctx, current); err != nil {
		return SaveLocationResult{}, err
	}
	if err = locationRepo.AppendHistory(ctx, entry); err != nil {
		return SaveLocationResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return SaveLocationResult{}, err
	}

	if err = h.locationCache.Set(ctx, current); err != nil {
		return SaveLocationResult{}, err
	}

	publish(ctx, h.publisher, h.log, events.CourierLocationUpdated{
		CourierID:  cmd.CourierID(),
		Location:   cmd.Location(),
		OccurredAt: current.UpdatedAt(),
	})

	return SaveLocationResult{LocationID: entry.ID(), UpdatedAt: current.UpdatedAt()}, nil
}
