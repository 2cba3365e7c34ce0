package command

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/pkg/logger"
)

// UpdateOrderStatusCommand represents the command to change an order's status
type UpdateOrderStatusCommand struct {
	OrderID uint
	Status  domain.OrderStatus
}

// UpdateOrderStatusHandler handles update order status command
type UpdateOrderStatusHandler struct {
	uow       domain.UnitOfWork
	cancel    *CancelOrderHandler
	publisher domain.EventPublisher
	clock     domain.Clock
}

// NewUpdateOrderStatusHandler creates a new update order status handler
func NewUpdateOrderStatusHandler(
	uow domain.UnitOfWork,
	cancel *CancelOrderHandler,
	publisher domain.EventPublisher,
	clock domain.Clock,
) *UpdateOrderStatusHandler {
	return &UpdateOrderStatusHandler{uow: uow, cancel: cancel, publisher: publisher, clock: clock}
}

// Handle executes the update order status command. Moving an order to
// CANCELLED goes through cancellation so its stock is reversed.
func (h *UpdateOrderStatusHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	if cmd.OrderID == 0 {
		return nil, domain.NewInvalidArgument("order id is required")
	}
	if !cmd.Status.Valid() {
		return nil, domain.NewInvalidArgument("invalid order status: %q", cmd.Status)
	}
	if cmd.Status == domain.OrderStatusCancelled {
		return h.cancel.Handle(ctx, CancelOrderCommand{OrderID: cmd.OrderID})
	}

	var (
		order    *domain.Order
		previous domain.OrderStatus
	)
	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		order, err = store.Orders().FindByIDForUpdate(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderStatusCancelled {
			return domain.NewInvalidOperation("order %s is cancelled and cannot move to %s", order.OrderNumber, cmd.Status)
		}

		previous = order.Status
		if err := store.Orders().UpdateStatus(ctx, order.ID, cmd.Status); err != nil {
			return err
		}
		order.Status = cmd.Status
		return nil
	})
	if err != nil {
		failure(ctx, err).
			Uint("order_id", cmd.OrderID).
			Str("status", string(cmd.Status)).
			Msg("Order status update rejected")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("from", string(previous)).
		Str("to", string(order.Status)).
		Msg("Order status updated")

	publish(ctx, h.publisher, newEvent(h.clock, domain.EventOrderStatus, order.OrderNumber, order))
	return order, nil
}
