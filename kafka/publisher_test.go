package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

func stockChangedEvent() domain.Event {
	return domain.Event{
		ID:         "evt-1",
		Type:       domain.EventStockChanged,
		Key:        "item_1",
		Payload:    domain.StockChange{ItemID: 1, SKU: "SKU-1", Previous: 10, Current: 7, Cause: "order"},
		OccurredAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded map[string]any
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded["event_type"] != domain.EventStockChanged {
			return errors.New("unexpected event type")
		}
		payload := decoded["payload"].(map[string]any)
		if payload["current"] != float64(7) {
			return errors.New("unexpected payload")
		}
		return nil
	})

	publisher := NewPublisherWithProducer(producer, TopicInventoryEvents)
	require.NoError(t, publisher.Publish(context.Background(), stockChangedEvent()))
	require.NoError(t, publisher.Close())
}

func TestPublisher_PublishBatch(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndSucceed()

	second := stockChangedEvent()
	second.ID = "evt-2"

	publisher := NewPublisherWithProducer(producer, TopicInventoryEvents)
	require.NoError(t, publisher.Publish(context.Background(), stockChangedEvent(), second))
	require.NoError(t, publisher.Close())
}

func TestPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewPublisherWithProducer(producer, TopicInventoryEvents)
	err := publisher.Publish(context.Background(), stockChangedEvent())
	assert.ErrorContains(t, err, "failed to send 1 events to Kafka")
	require.NoError(t, publisher.Close())
}

func TestPublisher_MarshalFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	event := stockChangedEvent()
	event.Payload = make(chan int)

	publisher := NewPublisherWithProducer(producer, TopicInventoryEvents)
	err := publisher.Publish(context.Background(), event)
	assert.ErrorContains(t, err, "failed to marshal event evt-1")
	require.NoError(t, publisher.Close())
}

func TestPublisher_PublishNothing(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewPublisherWithProducer(producer, TopicInventoryEvents)
	assert.NoError(t, publisher.Publish(context.Background()))
	require.NoError(t, publisher.Close())
}
