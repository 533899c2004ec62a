package kafka_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollector(t *testing.T) *metrics.Collector {
	t.Helper()
	c, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	return c
}

func TestTopicFor(t *testing.T) {
	tests := []struct {
		event events.Event
		topic string
	}{
		{events.PackageAccepted{}, kafka.TopicPackageStatus},
		{events.PackageInTransit{}, kafka.TopicPackageStatus},
		{events.PackageDelivered{}, kafka.TopicPackageStatus},
		{events.PackageNotDelivered{}, kafka.TopicPackageStatus},
		{events.PackageRequiresHandling{}, kafka.TopicPackageStatus},
		{events.PackageAssigned{}, kafka.TopicOrderAssigned},
		{events.CourierRegistered{}, kafka.TopicCourierEvents},
		{events.CourierStatusChanged{}, kafka.TopicCourierEvents},
		{events.CourierLocationUpdated{}, kafka.TopicCourierLocation},
	}
	for _, tt := range tests {
		t.Run(tt.event.Name(), func(t *testing.T) {
			topic, err := kafka.TopicFor(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.topic, topic)
		})
	}
}

func TestProducerConfig(t *testing.T) {
	cfg := kafka.ProducerConfig("")

	assert.Equal(t, kafka.DefaultClientID, cfg.ClientID)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
	assert.Equal(t, 5*time.Second, cfg.Producer.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestEventPublisher_Publish_KeysByEntity(t *testing.T) {
	// Arrange
	producer := mocks.NewSyncProducer(t, nil)
	collector := newCollector(t)
	publisher := kafka.NewEventPublisherWithProducer(producer, collector, logger.NewNop())
	t.Cleanup(func() { _ = publisher.Close() })

	event := events.PackageDelivered{
		PackageID:   kernel.NewUUID(),
		OrderID:     kernel.NewUUID(),
		CourierID:   kernel.NewUUID(),
		DeliveredAt: time.Now().UTC(),
		OccurredAt:  time.Now().UTC(),
	}

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != kafka.TopicPackageStatus {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != event.PackageID.String() {
			return errors.New("key is not the package id")
		}
		if len(msg.Headers) != 1 || string(msg.Headers[0].Key) != kafka.EventTypeHeader ||
			string(msg.Headers[0].Value) != events.PackageDeliveredName {
			return errors.New("missing event_type header")
		}
		if msg.Value.Length() == 0 {
			return errors.New("empty payload")
		}
		return nil
	})

	// Act
	err := publisher.Publish(t.Context(), event)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(
		collector.EventsPublished.WithLabelValues(kafka.TopicPackageStatus, "ok")), 1e-9)
}

func TestEventPublisher_Publish_CourierEventsKeyByCourier(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := kafka.NewEventPublisherWithProducer(producer, nil, nil)
	t.Cleanup(func() { _ = publisher.Close() })

	event, ok := events.NewCourierStatusChanged(kernel.NewUUID(), courier.Unavailable, courier.Free, time.Now())
	require.True(t, ok)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if msg.Topic != kafka.TopicCourierEvents || string(key) != event.CourierID.String() {
			return errors.New("unexpected routing")
		}
		return nil
	})

	require.NoError(t, publisher.Publish(t.Context(), event))
}

func TestEventPublisher_Publish_BrokerFailure(t *testing.T) {
	// Arrange
	producer := mocks.NewSyncProducer(t, nil)
	collector := newCollector(t)
	publisher := kafka.NewEventPublisherWithProducer(producer, collector, nil)
	t.Cleanup(func() { _ = publisher.Close() })

	producer.ExpectSendMessageAndFail(sarama.ErrNotEnoughReplicas)

	// Act
	err := publisher.Publish(t.Context(), events.PackageAssigned{
		PackageID:  kernel.NewUUID(),
		OrderID:    kernel.NewUUID(),
		CourierID:  kernel.NewUUID(),
		OccurredAt: time.Now(),
	})

	// Assert
	require.ErrorIs(t, err, ports.ErrPublishFailed)
	require.ErrorIs(t, err, sarama.ErrNotEnoughReplicas)
	assert.InDelta(t, 1, testutil.ToFloat64(
		collector.EventsPublished.WithLabelValues(kafka.TopicOrderAssigned, "error")), 1e-9)
}

func TestEventPublisher_Publish_UnencodableEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := kafka.NewEventPublisherWithProducer(producer, nil, nil)
	t.Cleanup(func() { _ = publisher.Close() })

	err := publisher.Publish(t.Context(), events.CourierRegistered{OccurredAt: time.Now()})

	require.ErrorIs(t, err, ports.ErrSerializationFailed)
}

func TestEventPublisher_Publish_CanceledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := kafka.NewEventPublisherWithProducer(producer, nil, nil)
	t.Cleanup(func() { _ = publisher.Close() })

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := publisher.Publish(ctx, events.PackageAccepted{PackageID: kernel.NewUUID(), OccurredAt: time.Now()})

	require.ErrorIs(t, err, ports.ErrPublishFailed)
	require.ErrorIs(t, err, context.Canceled)
}
