// Package kafka consumes courier location updates from Kafka.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"github.com/IBM/sarama"
)

// DefaultLocationTopic is the topic the courier emulator writes to.
const DefaultLocationTopic = "courier.location.updates"

const rejoinBackoff = time.Second

// IngestLocationHandler is the command handler a consumed position is
// passed to.
type IngestLocationHandler interface {
	Handle(ctx context.Context, cmd commands.IngestLocationCommand) error
}

// ConsumerConfig returns the consumer group configuration: start at the
// newest offset and auto-commit marked offsets every five seconds.
func ConsumerConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	if clientID != "" {
		cfg.ClientID = clientID
	}
	cfg.Version = sarama.V2_8_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Offsets.AutoCommit.Enable = true
	cfg.Consumer.Offsets.AutoCommit.Interval = 5 * time.Second
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	return cfg
}

// LocationConsumer feeds location records to the ingest handler. A record
// that cannot be decoded or stored is logged, counted and skipped: one bad
// record never stops the partition.
type LocationConsumer struct {
	handler IngestLocationHandler
	metrics *metrics.Collector
	log     *logger.Logger
	now     func() time.Time
}

var _ sarama.ConsumerGroupHandler = (*LocationConsumer)(nil)

func NewLocationConsumer(handler IngestLocationHandler, m *metrics.Collector, log *logger.Logger) *LocationConsumer {
	if log == nil {
		log = logger.NewNop()
	}
	return &LocationConsumer{
		handler: handler,
		metrics: m,
		log:     log.With("component", "location_consumer"),
		now:     time.Now,
	}
}

func (c *LocationConsumer) Setup(session sarama.ConsumerGroupSession) error {
	c.log.Info("location consumer joined group", "claims", session.Claims(), "generation", session.GenerationID())
	return nil
}

func (c *LocationConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim processes records until the claim is drained or the session
// ends.
func (c *LocationConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			c.process(session.Context(), msg)
			if session.Context().Err() != nil {
				return nil
			}
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (c *LocationConsumer) process(ctx context.Context, msg *sarama.ConsumerMessage) {
	courierID, location, err := decodeLocation(msg.Value, c.now())
	if err != nil {
		c.metrics.ObserveLocationMessage(metrics.MessageInvalid)
		c.log.Warn("skipping invalid location message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return
	}

	cmd, err := commands.NewIngestLocationCommand(courierID, location)
	if err == nil {
		err = c.handler.Handle(ctx, cmd)
	}
	if err != nil {
		c.metrics.ObserveLocationMessage(metrics.MessageFailed)
		c.log.Error("failed to ingest location",
			"courier_id", courierID.String(),
			"offset", msg.Offset,
			"error", err,
		)
		return
	}

	c.metrics.ObserveLocationMessage(metrics.MessageProcessed)
}

// Run consumes topic with group until ctx is canceled or shutdown is
// closed. A failed session is rejoined after a short pause.
func (c *LocationConsumer) Run(ctx context.Context, group sarama.ConsumerGroup, topic string, shutdown <-chan struct{}) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		for err := range group.Errors() {
			c.log.Warn("consumer group error", "error", err)
		}
	}()

	c.log.Info("location consumer started", "topic", topic)
	for {
		err := group.Consume(ctx, []string{topic}, c)
		if ctx.Err() != nil {
			c.log.Info("location consumer stopped")
			return nil
		}
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return nil
		}
		if err != nil {
			c.log.Error("consumer session failed", "error", err)
			select {
			case <-time.After(rejoinBackoff):
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// NewConsumerGroup connects a consumer group to the brokers.
func NewConsumerGroup(brokers []string, groupID, clientID string) (sarama.ConsumerGroup, error) {
	group, err := sarama.NewConsumerGroup(brokers, groupID, ConsumerConfig(clientID))
	if err != nil {
		return nil, fmt.Errorf("create consumer group %s: %w", groupID, err)
	}
	return group, nil
}
