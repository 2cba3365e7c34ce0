package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/ledger"
	"github.com/tair/smart-inventory/internal/inventory/metrics"
	"github.com/tair/smart-inventory/pkg/logger"
)

// OrderLineInput is one requested order line
type OrderLineInput struct {
	ItemID    uint
	Quantity  int
	UnitPrice float64
}

// CreateOrderCommand represents the command to create an order
type CreateOrderCommand struct {
	OrderNumber string
	OrderType   domain.OrderType
	Status      domain.OrderStatus
	Customer    string
	Supplier    string
	TotalAmount float64
	Notes       string
	CreatedBy   string
	Lines       []OrderLineInput
}

// CreateOrderHandler handles create order command
type CreateOrderHandler struct {
	uow       domain.UnitOfWork
	engine    *ledger.Engine
	publisher domain.EventPublisher
	clock     domain.Clock
	metrics   *metrics.Metrics
}

// NewCreateOrderHandler creates a new create order handler
func NewCreateOrderHandler(
	uow domain.UnitOfWork,
	engine *ledger.Engine,
	publisher domain.EventPublisher,
	clock domain.Clock,
	m *metrics.Metrics,
) *CreateOrderHandler {
	return &CreateOrderHandler{uow: uow, engine: engine, publisher: publisher, clock: clock, metrics: m}
}

func (cmd *CreateOrderCommand) validate() error {
	if !cmd.OrderType.Valid() {
		return domain.NewInvalidArgument("invalid order type: %q", cmd.OrderType)
	}
	if cmd.Status == "" {
		cmd.Status = domain.OrderStatusPending
	}
	if !cmd.Status.Valid() {
		return domain.NewInvalidArgument("invalid order status: %q", cmd.Status)
	}
	if cmd.Status == domain.OrderStatusCancelled {
		return domain.NewInvalidOperation("an order cannot be created as %s", domain.OrderStatusCancelled)
	}
	if len(cmd.Lines) == 0 {
		return domain.NewInvalidArgument("order must have at least one line")
	}
	for i, line := range cmd.Lines {
		if line.ItemID == 0 {
			return domain.NewInvalidArgument("line %d: item_id is required", i+1)
		}
		if line.Quantity <= 0 {
			return domain.NewInvalidArgument("line %d: quantity must be positive", i+1)
		}
	}
	cmd.OrderNumber = strings.TrimSpace(cmd.OrderNumber)
	if cmd.OrderNumber == "" {
		cmd.OrderNumber = "ORD-" + strings.ToUpper(uuid.NewString()[:8])
	}
	return nil
}

// Handle executes the create order command. Every line's stock change and the
// order record are committed together or not at all.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderNumber: cmd.OrderNumber,
		OrderType:   cmd.OrderType,
		Status:      cmd.Status,
		Customer:    cmd.Customer,
		Supplier:    cmd.Supplier,
		TotalAmount: cmd.TotalAmount,
		Notes:       cmd.Notes,
		CreatedBy:   cmd.CreatedBy,
	}

	var changes []domain.StockChange
	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		changes = changes[:0]
		exists, err := store.Orders().ExistsByOrderNumber(ctx, cmd.OrderNumber)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewDuplicateKey("order", "order number", cmd.OrderNumber)
		}

		order.Lines = make([]domain.OrderLine, 0, len(cmd.Lines))
		for _, in := range cmd.Lines {
			order.Lines = append(order.Lines, domain.OrderLine{ItemID: in.ItemID, Quantity: in.Quantity, UnitPrice: in.UnitPrice})
		}

		l := ledger.New(store)
		for _, line := range linesByItem(order.Lines) {
			change, err := h.engine.ApplyDelta(ctx, l, line.ItemID, ledger.OrderLineDelta(order.OrderType, line.Quantity, false))
			if err != nil {
				return err
			}
			change.Cause = causeOrder
			change.Ref = order.OrderNumber
			changes = append(changes, change)
		}

		return store.Orders().Create(ctx, order)
	})
	if err != nil {
		h.metrics.MutationRejected(causeOrder, err)
		failure(ctx, err).
			Str("order_number", cmd.OrderNumber).
			Str("order_type", string(cmd.OrderType)).
			Msg("Order rejected")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for range changes {
		h.metrics.StockMutated(causeOrder)
	}
	h.metrics.OrderEvent(order.OrderType, "created")

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("order_type", string(order.OrderType)).
		Int("lines", len(order.Lines)).
		Msg("Order created")

	events := append([]domain.Event{newEvent(h.clock, domain.EventOrderCreated, order.OrderNumber, order)}, stockEvents(h.clock, changes)...)
	publish(ctx, h.publisher, events...)

	return order, nil
}
