package command

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/pkg/logger"
)

// DeactivateItemCommand represents the command to soft delete an item
type DeactivateItemCommand struct {
	ID uint
}

// DeactivateItemHandler handles deactivate item command
type DeactivateItemHandler struct {
	uow domain.UnitOfWork
}

// NewDeactivateItemHandler creates a new deactivate item handler
func NewDeactivateItemHandler(uow domain.UnitOfWork) *DeactivateItemHandler {
	return &DeactivateItemHandler{uow: uow}
}

// Handle executes the deactivate item command. The item row is kept.
func (h *DeactivateItemHandler) Handle(ctx context.Context, cmd DeactivateItemCommand) error {
	if cmd.ID == 0 {
		return domain.NewInvalidArgument("id is required")
	}

	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		return store.Items().Deactivate(ctx, cmd.ID)
	})
	if err != nil {
		failure(ctx, err).Uint("item_id", cmd.ID).Msg("Item deactivation rejected")
		return fmt.Errorf("failed to deactivate item: %w", err)
	}

	logger.Info(ctx).Uint("item_id", cmd.ID).Msg("Item deactivated")
	return nil
}
