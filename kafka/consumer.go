package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/pkg/logger"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 500 * time.Millisecond
)

// Dispatch errors
var (
	ErrMissingEventType = errors.New("message without event_type header")
	ErrNoHandler        = errors.New("no handler registered for event type")
)

// EventHandler handles the raw JSON body of one message
type EventHandler func(ctx context.Context, payload []byte) error

// Consumer wraps Kafka consumer
type Consumer struct {
	consumer      sarama.ConsumerGroup
	groupID       string
	topics        []string
	handlers      map[string]EventHandler
	handlersMutex sync.RWMutex

	maxAttempts int
	retryDelay  time.Duration
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return NewConsumerWithGroup(group, groupID, topics), nil
}

// NewConsumerWithGroup wraps an existing consumer group
func NewConsumerWithGroup(group sarama.ConsumerGroup, groupID string, topics []string) *Consumer {
	return &Consumer{
		consumer: group,
		groupID:  groupID,
		topics:   topics,
		handlers:    make(map[string]EventHandler),
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

// SetRetryPolicy sets how often a message failing with an internal error is
// retried before it is given up.
func (c *Consumer) SetRetryPolicy(maxAttempts int, delay time.Duration) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	c.maxAttempts = maxAttempts
	c.retryDelay = delay
}

// RegisterHandler registers an event handler for a specific event type
func (c *Consumer) RegisterHandler(eventType string, handler EventHandler) {
	c.handlersMutex.Lock()
	defer c.handlersMutex.Unlock()
	c.handlers[eventType] = handler
	logger.Logger.Info().
		Str("event_type", eventType).
		Msg("Event handler registered")
}

// Start starts consuming messages until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{consumer: c}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, c.topics, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				logger.Logger.Error().
					Err(err).
					Msg("Error from consumer")
			}
			if ctx.Err() != nil {
				logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
				return
			}
		}
	}()

	go func() {
		for err := range c.consumer.Errors() {
			logger.Logger.Error().
				Err(err).
				Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")

	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	if c.consumer != nil {
		return c.consumer.Close()
	}
	return nil
}

type eventIDKey struct{}

// EventIDFromContext returns the id of the message being dispatched. Messages
// without an event_id header are identified by topic, partition and offset.
func EventIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey{}).(string)
	return id
}

// Dispatch routes one message to the handler registered for its event type.
// The trace context carried in the headers becomes the parent span.
func (c *Consumer) Dispatch(ctx context.Context, message *sarama.ConsumerMessage) error {
	carrier := propagation.MapCarrier{}
	var eventType, eventID string
	for _, header := range message.Headers {
		key := string(header.Key)
		switch key {
		case HeaderEventType:
			eventType = string(header.Value)
		case HeaderEventID:
			eventID = string(header.Value)
		case "traceparent", "tracestate", "baggage":
			carrier[key] = string(header.Value)
		}
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
	if eventID == "" {
		eventID = fmt.Sprintf("%s-%d-%d", message.Topic, message.Partition, message.Offset)
	}
	ctx = context.WithValue(ctx, eventIDKey{}, eventID)

	tracer := otel.Tracer("kafka-consumer")
	ctx, span := tracer.Start(ctx, "kafka.consume."+eventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.String("messaging.source_kind", "topic"),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
	)
	defer span.End()

	if eventType == "" {
		span.SetStatus(codes.Error, ErrMissingEventType.Error())
		return ErrMissingEventType
	}

	c.handlersMutex.RLock()
	handler, exists := c.handlers[eventType]
	c.handlersMutex.RUnlock()

	if !exists {
		span.SetStatus(codes.Error, ErrNoHandler.Error())
		return fmt.Errorf("%w: %s", ErrNoHandler, eventType)
	}

	if err := handler(ctx, message.Value); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to handle event")
		return err
	}

	span.SetStatus(codes.Ok, "Event handled successfully")
	logger.Info(ctx).
		Str("event_type", eventType).
		Str("event_id", eventID).
		Msg("Event handled successfully")
	return nil
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim marks every message once it is handled or given up, so a
// poison message cannot block the partition.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.consumer.Process(session.Context(), message); err != nil {
			if session.Context().Err() != nil {
				return nil
			}
			logger.Logger.Error().
				Err(err).
				Str("kind", string(domain.KindOf(err))).
				Str("topic", message.Topic).
				Int32("partition", message.Partition).
				Int64("offset", message.Offset).
				Msg("Giving up on message")
		}
		session.MarkMessage(message, "")
	}
	return nil
}

// Process dispatches message, retrying failures that may be transient.
// Domain rejections and unroutable messages are not retried.
func (c *Consumer) Process(ctx context.Context, message *sarama.ConsumerMessage) error {
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.Dispatch(ctx, message)
		if err == nil || !retryable(err) || attempt == c.maxAttempts {
			return err
		}

		logger.Warn(ctx).
			Err(err).
			Int("attempt", attempt).
			Int64("offset", message.Offset).
			Msg("Retrying message")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.retryDelay):
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, ErrMissingEventType) || errors.Is(err, ErrNoHandler) {
		return false
	}
	return domain.KindOf(err) == domain.KindInternal
}
