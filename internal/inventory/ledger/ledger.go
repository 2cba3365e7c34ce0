package ledger

import (
	"context"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

// Ledger reads and writes item stock counts through the repositories
// of an open unit of work.
type Ledger struct {
	items domain.ItemRepository
}

// New creates a ledger bound to store
func New(store domain.Store) *Ledger {
	return &Ledger{items: store.Items()}
}

// Item returns the item and holds its row lock for the rest of the unit of work
func (l *Ledger) Item(ctx context.Context, itemID uint) (*domain.Item, error) {
	return l.items.FindByIDForUpdate(ctx, itemID)
}

// GetStock returns the current stock of the item
func (l *Ledger) GetStock(ctx context.Context, itemID uint) (int, error) {
	item, err := l.Item(ctx, itemID)
	if err != nil {
		return 0, err
	}
	return item.CurrentStock, nil
}

// SetStock overwrites the stock of the item. Negative values are refused.
func (l *Ledger) SetStock(ctx context.Context, itemID uint, value int) error {
	if value < 0 {
		return domain.NewInvalidState("stock of item %d cannot be set to %d", itemID, value)
	}
	return l.items.UpdateStock(ctx, itemID, value)
}
