package query

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

// ListTransactionsQuery lists transactions, optionally for one item
type ListTransactionsQuery struct {
	ItemID uint
	Limit  int
	Offset int
}

// ListTransactionsHandler handles list transactions query
type ListTransactionsHandler struct {
	uow domain.UnitOfWork
}

// NewListTransactionsHandler creates a new list transactions handler
func NewListTransactionsHandler(uow domain.UnitOfWork) *ListTransactionsHandler {
	return &ListTransactionsHandler{uow: uow}
}

// Handle executes the list transactions query. Item listings are not paged.
func (h *ListTransactionsHandler) Handle(ctx context.Context, query ListTransactionsQuery) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		if query.ItemID != 0 {
			txs, err = store.Transactions().FindByItemID(ctx, query.ItemID)
			return err
		}
		offset := query.Offset
		if offset < 0 {
			offset = 0
		}
		txs, err = store.Transactions().FindAll(ctx, clampLimit(query.Limit), offset)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
