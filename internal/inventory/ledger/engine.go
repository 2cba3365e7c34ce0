package ledger

import (
	"context"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

// Engine applies signed stock deltas to a ledger
type Engine struct{}

// NewEngine creates a new stock mutation engine
func NewEngine() *Engine {
	return &Engine{}
}

// ApplyDelta locks the item, adds delta to its stock and persists the result.
// It fails with an insufficient stock error when the result would be negative;
// the caller's unit of work must then be rolled back.
func (e *Engine) ApplyDelta(ctx context.Context, l *Ledger, itemID uint, delta int) (domain.StockChange, error) {
	item, err := l.Item(ctx, itemID)
	if err != nil {
		return domain.StockChange{}, err
	}

	next := item.CurrentStock + delta
	if next < 0 {
		return domain.StockChange{}, domain.NewInsufficientStock(item, -delta)
	}
	return e.write(ctx, l, item, next)
}

// Adjust sets the item's stock to target. A negative target is refused.
func (e *Engine) Adjust(ctx context.Context, l *Ledger, itemID uint, target int) (domain.StockChange, error) {
	if target < 0 {
		return domain.StockChange{}, domain.NewInvalidState("adjustment target cannot be negative: %d", target)
	}

	item, err := l.Item(ctx, itemID)
	if err != nil {
		return domain.StockChange{}, err
	}
	return e.write(ctx, l, item, target)
}

func (e *Engine) write(ctx context.Context, l *Ledger, item *domain.Item, next int) (domain.StockChange, error) {
	change := domain.StockChange{
		ItemID:   item.ID,
		SKU:      item.SKU,
		Previous: item.CurrentStock,
		Current:  next,
	}
	if next == item.CurrentStock {
		return change, nil
	}
	if err := l.SetStock(ctx, item.ID, next); err != nil {
		return domain.StockChange{}, err
	}
	item.CurrentStock = next
	return change, nil
}

// OrderLineDelta returns the signed stock change of one order line.
// Purchases add stock and sales remove it; a reversal flips the sign.
func OrderLineDelta(orderType domain.OrderType, quantity int, reversal bool) int {
	delta := quantity
	if orderType == domain.OrderTypeSale {
		delta = -delta
	}
	if reversal {
		delta = -delta
	}
	return delta
}

// TransactionDelta returns the signed stock change of a manual transaction
// applied to current stock. For ADJUSTMENT, quantity is the target stock.
func TransactionDelta(txType domain.TransactionType, current, quantity int) (int, error) {
	switch txType {
	case domain.TransactionStockIn:
		return quantity, nil
	case domain.TransactionStockOut:
		return -quantity, nil
	case domain.TransactionAdjustment:
		if quantity < 0 {
			return 0, domain.NewInvalidState("adjustment target cannot be negative: %d", quantity)
		}
		return quantity - current, nil
	}
	return 0, domain.NewInvalidArgument("unknown transaction type: %s", txType)
}
