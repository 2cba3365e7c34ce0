package command

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/pkg/logger"
)

// Causes recorded on stock changes and metrics
const (
	causeOrder        = "order"
	causeCancellation = "cancellation"
	causeTransaction  = "transaction"
)

func newEvent(clock domain.Clock, eventType, key string, payload interface{}) domain.Event {
	return domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		Payload:    payload,
		OccurredAt: clock.Now(),
	}
}

func stockEvents(clock domain.Clock, changes []domain.StockChange) []domain.Event {
	events := make([]domain.Event, 0, len(changes))
	for _, c := range changes {
		events = append(events, newEvent(clock, domain.EventStockChanged, "item_"+strconv.FormatUint(uint64(c.ItemID), 10), c))
	}
	return events
}

// publish delivers events after commit. Delivery failures are logged and
// never undo the committed work.
func publish(ctx context.Context, publisher domain.EventPublisher, events ...domain.Event) {
	if len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error(ctx).
			Err(err).
			Int("events", len(events)).
			Str("event_type", events[0].Type).
			Msg("Failed to publish events")
	}
}

// failure returns a log event at warn level for domain rejections and at
// error level for everything else.
func failure(ctx context.Context, err error) *zerolog.Event {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		return logger.Error(ctx).Err(err)
	}
	return logger.Warn(ctx).Err(err).Str("kind", string(kind))
}

// linesByItem returns the order lines sorted by item id so that concurrent
// orders lock item rows in the same order.
func linesByItem(lines []domain.OrderLine) []domain.OrderLine {
	sorted := append([]domain.OrderLine(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })
	return sorted
}
