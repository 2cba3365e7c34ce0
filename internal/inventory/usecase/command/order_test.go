package command

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

func TestCreateOrder_SaleAndPurchase(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 5)
	ctx := context.Background()

	order, err := f.createOrder.Handle(ctx, sale(item.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, order.OrderNumber)
	assert.Equal(t, 7, f.stock(t, item.ID))

	_, err = f.createOrder.Handle(ctx, purchase(item.ID, 20))
	require.NoError(t, err)
	assert.Equal(t, 27, f.stock(t, item.ID))

	assert.Equal(t, []string{
		domain.EventOrderCreated, domain.EventStockChanged,
		domain.EventOrderCreated, domain.EventStockChanged,
	}, f.publisher.types())
}

func TestCreateOrder_InsufficientStockChangesNothing(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 5, 2)

	cmd := sale(item.ID, 6)
	cmd.OrderNumber = "ORD-OVER"
	_, err := f.createOrder.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.stock(t, item.ID))

	err = f.store.View(context.Background(), func(ctx context.Context, s domain.Store) error {
		exists, err := s.Orders().ExistsByOrderNumber(ctx, "ORD-OVER")
		require.NoError(t, err)
		assert.False(t, exists)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, f.publisher.types())
}

func TestCreateOrder_MissingItemRollsBackEveryLine(t *testing.T) {
	f := newFixture(t)
	a := f.addItem(t, "A", 10, 1)

	_, err := f.createOrder.Handle(context.Background(), CreateOrderCommand{
		OrderType: domain.OrderTypePurchase,
		Lines: []OrderLineInput{
			{ItemID: a.ID, Quantity: 5},
			{ItemID: 999, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.stock(t, a.ID))
}

func TestCreateOrder_DuplicateOrderNumber(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)

	cmd := purchase(item.ID, 1)
	cmd.OrderNumber = "ORD-1"
	_, err := f.createOrder.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = f.createOrder.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	assert.Equal(t, 11, f.stock(t, item.ID))
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  CreateOrderCommand
		want error
	}{
		{name: "unknown type", cmd: CreateOrderCommand{OrderType: "RETURN", Lines: []OrderLineInput{{ItemID: item.ID, Quantity: 1}}}, want: domain.ErrInvalidArgument},
		{name: "no lines", cmd: CreateOrderCommand{OrderType: domain.OrderTypeSale}, want: domain.ErrInvalidArgument},
		{name: "zero quantity", cmd: sale(item.ID, 0), want: domain.ErrInvalidArgument},
		{name: "created cancelled", cmd: func() CreateOrderCommand {
			c := sale(item.ID, 1)
			c.Status = domain.OrderStatusCancelled
			return c
		}(), want: domain.ErrInvalidOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.createOrder.Handle(ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 10, f.stock(t, item.ID))
}

func TestCreateOrder_SameItemOnTwoLines(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)

	_, err := f.createOrder.Handle(context.Background(), CreateOrderCommand{
		OrderType: domain.OrderTypeSale,
		Lines:     []OrderLineInput{{ItemID: item.ID, Quantity: 6}, {ItemID: item.ID, Quantity: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, item.ID))
}

func TestCancelOrder_PurchaseRoundTrip(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 4, 1)
	ctx := context.Background()

	order, err := f.createOrder.Handle(ctx, purchase(item.ID, 9))
	require.NoError(t, err)
	assert.Equal(t, 13, f.stock(t, item.ID))

	cancelled, err := f.cancelOrder.Handle(ctx, CancelOrderCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 4, f.stock(t, item.ID))
}

func TestCancelOrder_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)
	ctx := context.Background()

	order, err := f.createOrder.Handle(ctx, sale(item.ID, 4))
	require.NoError(t, err)

	_, err = f.cancelOrder.Handle(ctx, CancelOrderCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t, item.ID))

	again, err := f.cancelOrder.Handle(ctx, CancelOrderCommand{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, again.Status)
	assert.Equal(t, 10, f.stock(t, item.ID))
}

func TestCancelOrder_CompletedIsRefused(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)
	ctx := context.Background()

	order, err := f.createOrder.Handle(ctx, sale(item.ID, 4))
	require.NoError(t, err)
	_, err = f.updateStatus.Handle(ctx, UpdateOrderStatusCommand{OrderID: order.ID, Status: domain.OrderStatusCompleted})
	require.NoError(t, err)

	_, err = f.cancelOrder.Handle(ctx, CancelOrderCommand{OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 6, f.stock(t, item.ID))
	assert.Equal(t, domain.OrderStatusCompleted, f.order(t, order.ID).Status)
}

func TestCancelOrder_ReversalBelowZeroIsRejected(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 0, 1)
	ctx := context.Background()

	order, err := f.createOrder.Handle(ctx, purchase(item.ID, 10))
	require.NoError(t, err)
	_, err = f.createOrder.Handle(ctx, sale(item.ID, 8))
	require.NoError(t, err)

	_, err = f.cancelOrder.Handle(ctx, CancelOrderCommand{OrderID: order.ID})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stock(t, item.ID))
	assert.Equal(t, domain.OrderStatusPending, f.order(t, order.ID).Status)
}

func TestCancelOrder_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.cancelOrder.Handle(context.Background(), CancelOrderCommand{OrderID: 42})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)
	ctx := context.Background()

	order, err := f.createOrder.Handle(ctx, sale(item.ID, 3))
	require.NoError(t, err)

	updated, err := f.updateStatus.Handle(ctx, UpdateOrderStatusCommand{OrderID: order.ID, Status: domain.OrderStatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, updated.Status)
	assert.Equal(t, 7, f.stock(t, item.ID))

	cancelled, err := f.updateStatus.Handle(ctx, UpdateOrderStatusCommand{OrderID: order.ID, Status: domain.OrderStatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 10, f.stock(t, item.ID))

	_, err = f.updateStatus.Handle(ctx, UpdateOrderStatusCommand{OrderID: order.ID, Status: domain.OrderStatusPending})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = f.updateStatus.Handle(ctx, UpdateOrderStatusCommand{OrderID: order.ID, Status: "SHIPPED"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 10, f.stock(t, item.ID))
}

func TestCreateOrder_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.createOrder.Handle(context.Background(), sale(item.ID, 1)); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, f.stock(t, item.ID))
}

func TestCreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 10, 1)
	f.publisher.err = errPublish

	order, err := f.createOrder.Handle(context.Background(), sale(item.ID, 2))
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 8, f.stock(t, item.ID))
}
