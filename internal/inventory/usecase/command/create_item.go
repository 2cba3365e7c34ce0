package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/pkg/logger"
)

// CreateItemCommand represents the command to create an item
type CreateItemCommand struct {
	SKU          string
	Name         string
	Description  string
	CurrentStock int
	MinimumStock int
	CostPrice    float64
	SellingPrice float64
	Location     string
	Supplier     string
	ExpiryDate   *time.Time
	CreatedBy    string
}

// CreateItemHandler handles create item command
type CreateItemHandler struct {
	uow domain.UnitOfWork
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(uow domain.UnitOfWork) *CreateItemHandler {
	return &CreateItemHandler{uow: uow}
}

// Handle executes the create item command
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.Item, error) {
	cmd.SKU = strings.TrimSpace(cmd.SKU)
	if cmd.SKU == "" {
		return nil, domain.NewInvalidArgument("sku is required")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, domain.NewInvalidArgument("name is required")
	}
	if cmd.CurrentStock < 0 {
		return nil, domain.NewInvalidArgument("current stock cannot be negative")
	}
	if cmd.MinimumStock <= 0 {
		return nil, domain.NewInvalidArgument("minimum stock must be positive")
	}

	item := &domain.Item{
		SKU:          cmd.SKU,
		Name:         cmd.Name,
		Description:  cmd.Description,
		CurrentStock: cmd.CurrentStock,
		MinimumStock: cmd.MinimumStock,
		CostPrice:    cmd.CostPrice,
		SellingPrice: cmd.SellingPrice,
		Location:     cmd.Location,
		Supplier:     cmd.Supplier,
		Active:       true,
		CreatedBy:    cmd.CreatedBy,
	}
	if cmd.ExpiryDate != nil {
		day := domain.DateOf(*cmd.ExpiryDate)
		item.ExpiryDate = &day
	}

	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		exists, err := store.Items().ExistsBySKU(ctx, item.SKU)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewDuplicateKey("item", "sku", item.SKU)
		}
		return store.Items().Create(ctx, item)
	})
	if err != nil {
		failure(ctx, err).Str("sku", cmd.SKU).Msg("Item creation rejected")
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	logger.Info(ctx).
		Uint("item_id", item.ID).
		Str("sku", item.SKU).
		Int("current_stock", item.CurrentStock).
		Msg("Item created")
	return item, nil
}
