package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/ledger"
	"github.com/tair/smart-inventory/internal/inventory/repository"
)

var testNow = time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

// recordingPublisher is a hand-written publisher double
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *repository.MemoryStore
	publisher *recordingPublisher
	clock     domain.FixedClock

	createItem   *CreateItemHandler
	createOrder  *CreateOrderHandler
	cancelOrder  *CancelOrderHandler
	updateStatus *UpdateOrderStatusHandler
	record       *RecordTransactionHandler
	generate     *GenerateAlertsHandler
	resolve      *ResolveAlertHandler
	ignore       *IgnoreAlertHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := domain.FixedClock{T: testNow}
	store := repository.NewMemoryStore(clock)
	publisher := &recordingPublisher{}
	engine := ledger.NewEngine()

	cancel := NewCancelOrderHandler(store, engine, publisher, clock, nil)
	alertStatus := NewAlertStatusHandler(store, publisher, clock)
	return &fixture{
		store:        store,
		publisher:    publisher,
		clock:        clock,
		createItem:   NewCreateItemHandler(store),
		createOrder:  NewCreateOrderHandler(store, engine, publisher, clock, nil),
		cancelOrder:  cancel,
		updateStatus: NewUpdateOrderStatusHandler(store, cancel, publisher, clock),
		record:       NewRecordTransactionHandler(store, engine, publisher, clock, nil),
		generate:     NewGenerateAlertsHandler(store, publisher, clock, nil),
		resolve:      NewResolveAlertHandler(alertStatus),
		ignore:       NewIgnoreAlertHandler(alertStatus),
	}
}

func (f *fixture) addItem(t *testing.T, sku string, stock, minimum int) *domain.Item {
	t.Helper()
	item, err := f.createItem.Handle(context.Background(), CreateItemCommand{
		SKU:          sku,
		Name:         "Item " + sku,
		CurrentStock: stock,
		MinimumStock: minimum,
	})
	require.NoError(t, err)
	return item
}

func (f *fixture) stock(t *testing.T, itemID uint) int {
	t.Helper()
	var stock int
	err := f.store.View(context.Background(), func(ctx context.Context, s domain.Store) error {
		item, err := s.Items().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		stock = item.CurrentStock
		return nil
	})
	require.NoError(t, err)
	return stock
}

func (f *fixture) order(t *testing.T, id uint) *domain.Order {
	t.Helper()
	var order *domain.Order
	err := f.store.View(context.Background(), func(ctx context.Context, s domain.Store) error {
		var err error
		order, err = s.Orders().FindByID(ctx, id)
		return err
	})
	require.NoError(t, err)
	return order
}

func (f *fixture) alerts(t *testing.T, filter domain.AlertFilter) []domain.StockAlert {
	t.Helper()
	var alerts []domain.StockAlert
	err := f.store.View(context.Background(), func(ctx context.Context, s domain.Store) error {
		var err error
		alerts, err = s.Alerts().Find(ctx, filter)
		return err
	})
	require.NoError(t, err)
	return alerts
}

func sale(itemID uint, qty int) CreateOrderCommand {
	return CreateOrderCommand{
		OrderType: domain.OrderTypeSale,
		Lines:     []OrderLineInput{{ItemID: itemID, Quantity: qty}},
	}
}

func purchase(itemID uint, qty int) CreateOrderCommand {
	return CreateOrderCommand{
		OrderType: domain.OrderTypePurchase,
		Lines:     []OrderLineInput{{ItemID: itemID, Quantity: qty}},
	}
}

var errPublish = errors.New("broker unavailable")
