package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
)

// Clock returns the current time. Handlers default to time.Now.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func nopIfNil(log *logger.Logger) *logger.Logger {
	if log == nil {
		return logger.NewNop()
	}
	return log
}

// publish sends the event after the transaction committed. A failure is
// logged with the entity id so downstream consumers can be reconciled.
func publish(ctx context.Context, publisher ports.EventPublisher, log *logger.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish event",
			"event", event.Name(),
			"entity_id", event.EntityID().String(),
			"occurred_at", event.At(),
			"error", err,
		)
	}
}
