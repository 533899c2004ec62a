// Package kafka publishes domain events to Kafka.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/adapters/out/kafka/eventpb"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"github.com/IBM/sarama"
)

// Topics.
const (
	TopicPackageStatus   = "delivery.package.status.v1"
	TopicOrderAssigned   = "delivery.order.assigned.v1"
	TopicCourierEvents   = "delivery.courier.events.v1"
	TopicCourierLocation = "delivery.courier.location.v1"
)

const (
	// EventTypeHeader carries events.Event.Name on every record.
	EventTypeHeader = "event_type"
	DefaultClientID = "delivery-service"

	defaultBrokerTimeout = 5 * time.Second
)

var ErrUnknownEvent = errors.New("no topic for event")

// TopicFor returns the topic an event is routed to.
func TopicFor(event events.Event) (string, error) {
	switch event.(type) {
	case events.PackageAccepted, events.PackageInTransit, events.PackageDelivered,
		events.PackageNotDelivered, events.PackageRequiresHandling:
		return TopicPackageStatus, nil
	case events.PackageAssigned:
		return TopicOrderAssigned, nil
	case events.CourierRegistered, events.CourierStatusChanged:
		return TopicCourierEvents, nil
	case events.CourierLocationUpdated:
		return TopicCourierLocation, nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownEvent, event)
	}
}

// ProducerConfig returns the sarama configuration of the event producer:
// all in-sync replicas acknowledge, and retries cannot reorder or duplicate.
func ProducerConfig(clientID string) *sarama.Config {
	if clientID == "" {
		clientID = DefaultClientID
	}
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_8_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Timeout = defaultBrokerTimeout
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Net.MaxOpenRequests = 1
	cfg.Net.DialTimeout = defaultBrokerTimeout
	cfg.Net.WriteTimeout = defaultBrokerTimeout
	cfg.Net.ReadTimeout = defaultBrokerTimeout
	return cfg
}

// EventPublisher implements ports.EventPublisher over a sarama SyncProducer.
type EventPublisher struct {
	producer sarama.SyncProducer
	metrics  *metrics.Collector
	log      *logger.Logger
}

var _ ports.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher dials the brokers.
func NewEventPublisher(brokers []string, clientID string, m *metrics.Collector, log *logger.Logger) (*EventPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, ProducerConfig(clientID))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewEventPublisherWithProducer(producer, m, log), nil
}

func NewEventPublisherWithProducer(producer sarama.SyncProducer, m *metrics.Collector, log *logger.Logger) *EventPublisher {
	if log == nil {
		log = logger.NewNop()
	}
	return &EventPublisher{
		producer: producer,
		metrics:  m,
		log:      log.With("component", "kafka_publisher"),
	}
}

// Publish encodes the event and waits for the broker acknowledgement. The
// message key is the id of the entity the event is about, so every event of
// one package or courier lands on the same partition in order.
func (p *EventPublisher) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ports.ErrPublishFailed, err)
	}

	topic, err := TopicFor(event)
	if err != nil {
		return errors.Join(ports.ErrSerializationFailed, err)
	}

	payload, err := eventpb.Marshal(event)
	if err != nil {
		return errors.Join(ports.ErrSerializationFailed, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.EntityID().String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte(EventTypeHeader), Value: []byte(event.Name())},
		},
		Timestamp: event.At(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	p.metrics.ObservePublish(topic, err)
	if err != nil {
		return errors.Join(ports.ErrPublishFailed, fmt.Errorf("%s to %s: %w", event.Name(), topic, err))
	}

	p.log.Debug("event published",
		"event", event.Name(),
		"entity_id", event.EntityID().String(),
		"topic", topic,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *EventPublisher) Close() error {
	return p.producer.Close()
}
