package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/events"
)

var (
	// ErrPublishFailed is returned when the broker did not acknowledge an event.
	ErrPublishFailed = errors.New("publish failed")
	// ErrSerializationFailed is returned when an event could not be encoded.
	ErrSerializationFailed = errors.New("serialization failed")
)

// EventPublisher sends domain events to the event stream.
//
// Call sites treat every error as non-fatal: the authoritative state has
// already been committed when an event is published.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}
