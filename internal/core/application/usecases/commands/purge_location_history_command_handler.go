package commands

import (
	"context"

	"dispatch/internal/pkg/logger"
)

type PurgeLocationHistoryCommandHandler struct {
	uowFactory LocationUoWFactory
	log        *logger.Logger
	now        Clock
}

func NewPurgeLocationHistoryCommandHandler(uowFactory LocationUoWFactory, log *logger.Logger) PurgeLocationHistoryCommandHandler {
	return PurgeLocationHistoryCommandHandler{
		uowFactory: uowFactory,
		log:        nopIfNil(log).With("component", "purge_location_history"),
		now:        systemClock,
	}
}

// Handle deletes the expired history in one transaction and returns the
// number of removed entries. Current locations are never touched.
func (h PurgeLocationHistoryCommandHandler) Handle(ctx context.Context, cmd PurgeLocationHistoryCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.now().Add(-cmd.Retention())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deleted, err := uow.LocationRepository().DeleteHistoryOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.log.Debug("location history purged", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}
