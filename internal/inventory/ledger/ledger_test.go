package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/repository"
)

func newStore(t *testing.T, stock int) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore(domain.FixedClock{T: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)})
	err := store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
		return s.Items().Create(ctx, &domain.Item{SKU: "A1", Name: "Widget", CurrentStock: stock, MinimumStock: 5, Active: true})
	})
	require.NoError(t, err)
	return store
}

func stockOf(t *testing.T, store *repository.MemoryStore) int {
	t.Helper()
	var stock int
	err := store.View(context.Background(), func(ctx context.Context, s domain.Store) error {
		item, err := s.Items().FindByID(ctx, 1)
		if err != nil {
			return err
		}
		stock = item.CurrentStock
		return nil
	})
	require.NoError(t, err)
	return stock
}

func TestLedger_SetStockRejectsNegative(t *testing.T) {
	store := newStore(t, 10)

	err := store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
		return New(s).SetStock(ctx, 1, -1)
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 10, stockOf(t, store))
}

func TestLedger_GetStock(t *testing.T) {
	store := newStore(t, 10)

	err := store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
		stock, err := New(s).GetStock(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 10, stock)

		_, err = New(s).GetStock(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestEngine_ApplyDelta(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		delta   int
		want    int
		wantErr error
	}{
		{name: "increment", start: 10, delta: 5, want: 15},
		{name: "decrement", start: 10, delta: -4, want: 6},
		{name: "down to zero", start: 10, delta: -10, want: 0},
		{name: "would go negative", start: 10, delta: -11, want: 10, wantErr: domain.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t, tt.start)
			engine := NewEngine()

			err := store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
				change, err := engine.ApplyDelta(ctx, New(s), 1, tt.delta)
				if err != nil {
					return err
				}
				assert.Equal(t, tt.start, change.Previous)
				assert.Equal(t, tt.want, change.Current)
				assert.Equal(t, "A1", change.SKU)
				return nil
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, stockOf(t, store))
		})
	}
}

func TestEngine_ApplyDeltaMissingItem(t *testing.T) {
	store := newStore(t, 10)

	err := store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
		_, err := NewEngine().ApplyDelta(ctx, New(s), 2, 1)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEngine_Adjust(t *testing.T) {
	store := newStore(t, 10)
	engine := NewEngine()

	err := store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
		change, err := engine.Adjust(ctx, New(s), 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 10, change.Previous)
		assert.Equal(t, 3, change.Current)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, store))

	err = store.Do(context.Background(), func(ctx context.Context, s domain.Store) error {
		_, err := engine.Adjust(ctx, New(s), 1, -2)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 3, stockOf(t, store))
}

func TestOrderLineDelta(t *testing.T) {
	assert.Equal(t, 4, OrderLineDelta(domain.OrderTypePurchase, 4, false))
	assert.Equal(t, -4, OrderLineDelta(domain.OrderTypeSale, 4, false))
	assert.Equal(t, -4, OrderLineDelta(domain.OrderTypePurchase, 4, true))
	assert.Equal(t, 4, OrderLineDelta(domain.OrderTypeSale, 4, true))
}

func TestTransactionDelta(t *testing.T) {
	delta, err := TransactionDelta(domain.TransactionStockIn, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, delta)

	delta, err = TransactionDelta(domain.TransactionStockOut, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, -5, delta)

	delta, err = TransactionDelta(domain.TransactionAdjustment, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, -7, delta)

	_, err = TransactionDelta(domain.TransactionAdjustment, 10, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = TransactionDelta("TRANSFER", 10, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
