package query

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// GetItemQuery looks an item up by ID or, when ID is zero, by SKU
type GetItemQuery struct {
	ID  uint
	SKU string
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	uow domain.UnitOfWork
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(uow domain.UnitOfWork) *GetItemHandler {
	return &GetItemHandler{uow: uow}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(ctx context.Context, query GetItemQuery) (*domain.Item, error) {
	if query.ID == 0 && query.SKU == "" {
		return nil, domain.NewInvalidArgument("id or sku is required")
	}

	var item *domain.Item
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		if query.ID != 0 {
			item, err = store.Items().FindByID(ctx, query.ID)
		} else {
			item, err = store.Items().FindBySKU(ctx, query.SKU)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItemsQuery represents the query to list items
type ListItemsQuery struct {
	Limit  int
	Offset int
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	uow domain.UnitOfWork
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(uow domain.UnitOfWork) *ListItemsHandler {
	return &ListItemsHandler{uow: uow}
}

// Handle executes the list items query
func (h *ListItemsHandler) Handle(ctx context.Context, query ListItemsQuery) ([]domain.Item, error) {
	query.Limit = clampLimit(query.Limit)
	if query.Offset < 0 {
		query.Offset = 0
	}

	var items []domain.Item
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		items, err = store.Items().FindAll(ctx, query.Limit, query.Offset)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}
