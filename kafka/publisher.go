package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, topic), nil
}

// NewPublisherWithProducer wraps an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Publish sends the events of one commit as a single batch. Each event is
// keyed by its entity so events about the same entity stay ordered within a
// partition.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	ctx, span := otel.Tracer("kafka-publisher").Start(ctx, "kafka.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.Int("messaging.batch.message_count", len(events)),
			attribute.String("event.type", events[0].Type),
		),
	)
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, event := range events {
		msg, err := p.message(event, carrier)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to marshal event")
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send messages")
		return fmt.Errorf("failed to send %d events to Kafka: %w", len(msgs), err)
	}
	span.SetStatus(codes.Ok, "Events published")

	for i, msg := range msgs {
		logger.Debug(ctx).
			Str("event_id", events[i].ID).
			Str("event_type", events[i].Type).
			Str("topic", p.topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("Event published")
	}
	return nil
}

func (p *Publisher) message(event domain.Event, carrier propagation.MapCarrier) (*sarama.ProducerMessage, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
	}

	headers := make([]sarama.RecordHeader, 0, len(carrier)+2)
	headers = append(headers,
		sarama.RecordHeader{Key: []byte(HeaderEventType), Value: []byte(event.Type)},
		sarama.RecordHeader{Key: []byte(HeaderEventID), Value: []byte(event.ID)},
	)
	for key, value := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
	}

	return &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(event.Key),
		Value:   sarama.ByteEncoder(value),
		Headers: headers,
	}, nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
