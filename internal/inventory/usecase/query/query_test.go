package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/repository"
)

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore(domain.FixedClock{T: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)})
	err := store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
		for i, sku := range []string{"A1", "A2", "A3"} {
			item := &domain.Item{SKU: sku, Name: sku, CurrentStock: i, MinimumStock: 2, Active: true}
			if err := s.Items().Create(ctx, item); err != nil {
				return err
			}
		}
		orders := []*domain.Order{
			{OrderNumber: "ORD-1", OrderType: domain.OrderTypeSale, Status: domain.OrderStatusPending, Lines: []domain.OrderLine{{ItemID: 1, Quantity: 1}}},
			{OrderNumber: "ORD-2", OrderType: domain.OrderTypePurchase, Status: domain.OrderStatusCompleted, Lines: []domain.OrderLine{{ItemID: 2, Quantity: 4}}},
		}
		for _, o := range orders {
			if err := s.Orders().Create(ctx, o); err != nil {
				return err
			}
		}
		if err := s.Transactions().Create(ctx, &domain.Transaction{ItemID: 1, Type: domain.TransactionStockIn, Quantity: 1}); err != nil {
			return err
		}
		if err := s.Transactions().Create(ctx, &domain.Transaction{ItemID: 2, Type: domain.TransactionStockOut, Quantity: 1}); err != nil {
			return err
		}
		for _, a := range []*domain.StockAlert{
			{ItemID: 1, AlertType: domain.AlertLowStock},
			{ItemID: 1, AlertType: domain.AlertOutOfStock},
			{ItemID: 2, AlertType: domain.AlertLowStock},
		} {
			if _, err := s.Alerts().CreateActive(ctx, a); err != nil {
				return err
			}
		}
		resolved, err := s.Alerts().FindByID(ctx, 3)
		if err != nil {
			return err
		}
		resolved.Status = domain.AlertStatusResolved
		return s.Alerts().Update(ctx, resolved)
	})
	require.NoError(t, err)
	return store
}

func TestItemQueries(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	item, err := NewGetItemHandler(store).Handle(ctx, GetItemQuery{SKU: "A2"})
	require.NoError(t, err)
	assert.Equal(t, uint(2), item.ID)

	_, err = NewGetItemHandler(store).Handle(ctx, GetItemQuery{ID: 42})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = NewGetItemHandler(store).Handle(ctx, GetItemQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	items, err := NewListItemsHandler(store).Handle(ctx, ListItemsQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestOrderQueries(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	order, err := NewGetOrderHandler(store).Handle(ctx, GetOrderQuery{OrderNumber: "ORD-2"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderTypePurchase, order.OrderType)
	require.Len(t, order.Lines, 1)

	pending, err := NewListOrdersHandler(store).Handle(ctx, ListOrdersQuery{Status: domain.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "ORD-1", pending[0].OrderNumber)

	all, err := NewListOrdersHandler(store).Handle(ctx, ListOrdersQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = NewListOrdersHandler(store).Handle(ctx, ListOrdersQuery{Type: "RETURN"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestListTransactions(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	forItem, err := NewListTransactionsHandler(store).Handle(ctx, ListTransactionsQuery{ItemID: 2})
	require.NoError(t, err)
	require.Len(t, forItem, 1)
	assert.Equal(t, domain.TransactionStockOut, forItem[0].Type)

	all, err := NewListTransactionsHandler(store).Handle(ctx, ListTransactionsQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAlertQueries(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	active, err := NewListAlertsHandler(store).Handle(ctx, ListAlertsQuery{Status: domain.AlertStatusActive, ItemID: 1})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	alert, err := NewGetAlertHandler(store).Handle(ctx, GetAlertQuery{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusResolved, alert.Status)

	stats, err := NewGetAlertStatsHandler(store, nil).Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus[domain.AlertStatusActive])
	assert.Equal(t, int64(1), stats.ByStatus[domain.AlertStatusResolved])
	assert.Equal(t, int64(0), stats.ByStatus[domain.AlertStatusIgnored])
	assert.Equal(t, int64(1), stats.ActiveByType[domain.AlertLowStock])
	assert.Equal(t, int64(1), stats.ActiveByType[domain.AlertOutOfStock])
	assert.Equal(t, int64(0), stats.ActiveByType[domain.AlertExpired])
}
