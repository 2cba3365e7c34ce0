package command

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/ledger"
	"github.com/tair/smart-inventory/internal/inventory/metrics"
	"github.com/tair/smart-inventory/pkg/logger"
)

// CancelOrderCommand represents the command to cancel an order
type CancelOrderCommand struct {
	OrderID uint
}

// CancelOrderHandler handles cancel order command
type CancelOrderHandler struct {
	uow       domain.UnitOfWork
	engine    *ledger.Engine
	publisher domain.EventPublisher
	clock     domain.Clock
	metrics   *metrics.Metrics
}

// NewCancelOrderHandler creates a new cancel order handler
func NewCancelOrderHandler(
	uow domain.UnitOfWork,
	engine *ledger.Engine,
	publisher domain.EventPublisher,
	clock domain.Clock,
	m *metrics.Metrics,
) *CancelOrderHandler {
	return &CancelOrderHandler{uow: uow, engine: engine, publisher: publisher, clock: clock, metrics: m}
}

// Handle executes the cancel order command. Stock effects of the order are
// reversed exactly once; cancelling an already cancelled order changes nothing.
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*domain.Order, error) {
	if cmd.OrderID == 0 {
		return nil, domain.NewInvalidArgument("order id is required")
	}

	var (
		order   *domain.Order
		changes []domain.StockChange
		noop    bool
	)
	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		changes = changes[:0]
		noop = false

		var err error
		order, err = store.Orders().FindByIDForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return err
		}

		switch order.Status {
		case domain.OrderStatusCompleted:
			return domain.NewInvalidOperation("cannot cancel completed order %s", order.OrderNumber)
		case domain.OrderStatusCancelled:
			noop = true
			return nil
		}

		l := ledger.New(store)
		for _, line := range linesByItem(order.Lines) {
			change, err := h.engine.ApplyDelta(ctx, l, line.ItemID, ledger.OrderLineDelta(order.OrderType, line.Quantity, true))
			if err != nil {
				return err
			}
			change.Cause = causeCancellation
			change.Ref = order.OrderNumber
			changes = append(changes, change)
		}

		if err := store.Orders().UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = domain.OrderStatusCancelled
		return nil
	})
	if err != nil {
		h.metrics.MutationRejected(causeCancellation, err)
		failure(ctx, err).
			Uint("order_id", cmd.OrderID).
			Msg("Order cancellation rejected")
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if noop {
		logger.Info(ctx).
			Uint("order_id", order.ID).
			Str("order_number", order.OrderNumber).
			Msg("Order already cancelled")
		return order, nil
	}

	for range changes {
		h.metrics.StockMutated(causeCancellation)
	}
	h.metrics.OrderEvent(order.OrderType, "cancelled")

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("order_type", string(order.OrderType)).
		Msg("Order cancelled")

	events := append([]domain.Event{newEvent(h.clock, domain.EventOrderCancelled, order.OrderNumber, order)}, stockEvents(h.clock, changes)...)
	publish(ctx, h.publisher, events...)

	return order, nil
}
