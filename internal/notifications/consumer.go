package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tourbook/pkg/logger"

	"github.com/IBM/sarama"
)

// EventHandler processes one consumed booking event
type EventHandler interface {
	Handle(ctx context.Context, event BookingEvent) error
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	HeartbeatInterval    time.Duration
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              brokers,
		GroupID:              groupID,
		Topics:               []string{topic},
		SessionTimeout:       30 * time.Second,
		HeartbeatInterval:    3 * time.Second,
		MaxProcessingTime:    time.Minute,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

type KafkaConsumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler EventHandler
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, handler EventHandler) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.HeartbeatInterval
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		group:   group,
		config:  config,
		handler: handler,
		log:     logger.GetDefault(),
	}, nil
}

// Start runs numWorkers consume loops until ctx is cancelled
func (c *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}

	go func() {
		for err := range c.group.Errors() {
			c.log.ErrorWithContext(ctx, "Consumer group error", err, nil)
		}
	}()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	c.log.InfoWithContext(ctx, "Booking event consumers started", map[string]interface{}{
		"workers": numWorkers,
		"topics":  c.config.Topics,
		"group":   c.config.GroupID,
	})
}

func (c *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	h := &groupHandler{
		handler:    c.handler,
		workerID:   workerID,
		maxRetries: c.config.MaxRetries,
		backoff:    c.config.RetryBackoffDuration,
		log:        c.log,
	}

	for {
		if err := c.group.Consume(ctx, c.config.Topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.WarnWithContext(ctx, "Consume loop failed", map[string]interface{}{
				"worker": workerID,
				"error":  err.Error(),
			})
			time.Sleep(time.Second)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Stop closes the consumer group and waits for the workers; cancel the
// context passed to Start first.
func (c *KafkaConsumer) Stop() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	c.wg.Wait()
	return nil
}

type groupHandler struct {
	handler    EventHandler
	workerID   int
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.ErrorWithContext(session.Context(), "Dropping booking event", err, map[string]interface{}{
					"worker":    h.workerID,
					"partition": message.Partition,
					"offset":    message.Offset,
				})
			}
			// failed messages are marked as well; there is no dead-letter topic
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	event, err := ParseBookingEvent(message.Value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal booking event: %w", err)
	}
	if !event.Type.IsValid() {
		return fmt.Errorf("unknown booking event type %q", event.Type)
	}
	return h.executeWithRetry(ctx, event)
}

func (h *groupHandler) executeWithRetry(ctx context.Context, event BookingEvent) error {
	var err error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if err = h.handler.Handle(ctx, event); err == nil {
			return nil
		}
		if attempt == h.maxRetries {
			break
		}

		delay := h.backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
