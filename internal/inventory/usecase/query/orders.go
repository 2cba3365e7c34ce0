package query

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

// GetOrderQuery looks an order up by ID or, when ID is zero, by order number
type GetOrderQuery struct {
	ID          uint
	OrderNumber string
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	uow domain.UnitOfWork
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(uow domain.UnitOfWork) *GetOrderHandler {
	return &GetOrderHandler{uow: uow}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(ctx context.Context, query GetOrderQuery) (*domain.Order, error) {
	if query.ID == 0 && query.OrderNumber == "" {
		return nil, domain.NewInvalidArgument("id or order number is required")
	}

	var order *domain.Order
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		if query.ID != 0 {
			order, err = store.Orders().FindByID(ctx, query.ID)
		} else {
			order, err = store.Orders().FindByOrderNumber(ctx, query.OrderNumber)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListOrdersQuery represents the query to list orders
type ListOrdersQuery struct {
	Status domain.OrderStatus
	Type   domain.OrderType
	Limit  int
	Offset int
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	uow domain.UnitOfWork
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(uow domain.UnitOfWork) *ListOrdersHandler {
	return &ListOrdersHandler{uow: uow}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]domain.Order, error) {
	if query.Status != "" && !query.Status.Valid() {
		return nil, domain.NewInvalidArgument("invalid order status: %q", query.Status)
	}
	if query.Type != "" && !query.Type.Valid() {
		return nil, domain.NewInvalidArgument("invalid order type: %q", query.Type)
	}

	filter := domain.OrderFilter{
		Status: query.Status,
		Type:   query.Type,
		Limit:  clampLimit(query.Limit),
		Offset: query.Offset,
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var orders []domain.Order
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		orders, err = store.Orders().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
