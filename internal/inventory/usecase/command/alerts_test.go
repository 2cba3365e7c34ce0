package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

func TestScenario_SalesThenLowStockAlert(t *testing.T) {
	f := newFixture(t)
	item, err := f.createItem.Handle(context.Background(), CreateItemCommand{
		SKU: "A1", Name: "A1", CurrentStock: 10, MinimumStock: 5,
	})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = f.createOrder.Handle(ctx, sale(item.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, item.ID))
	assert.Empty(t, f.alerts(t, domain.AlertFilter{}))

	_, err = f.createOrder.Handle(ctx, sale(item.ID, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, item.ID))

	created, err := f.generate.GenerateLowStockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)
	alert := created[0]
	assert.Equal(t, item.ID, alert.ItemID)
	assert.Equal(t, domain.AlertLowStock, alert.AlertType)
	assert.Equal(t, domain.AlertStatusActive, alert.Status)
	assert.Equal(t, "Low stock alert: A1 has only 3 units left (minimum: 5)", alert.Message)

	again, err := f.generate.GenerateLowStockAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, f.alerts(t, domain.AlertFilter{Status: domain.AlertStatusActive}), 1)
}

func TestGenerateExpiryAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soon := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	edge := time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC)
	far := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for sku, expiry := range map[string]time.Time{"SOON": soon, "EDGE": edge, "FAR": far} {
		expiry := expiry
		_, err := f.createItem.Handle(ctx, CreateItemCommand{SKU: sku, Name: sku, CurrentStock: 50, MinimumStock: 5, ExpiryDate: &expiry})
		require.NoError(t, err)
	}

	created, err := f.generate.GenerateExpiryAlerts(ctx, DefaultExpiryHorizonDays)
	require.NoError(t, err)
	require.Len(t, created, 2)

	messages := []string{created[0].Message, created[1].Message}
	assert.Contains(t, messages, "Expiry alert: SOON will expire on 2024-04-01")
	assert.Contains(t, messages, "Expiry alert: EDGE will expire on 2024-04-09")

	again, err := f.generate.GenerateExpiryAlerts(ctx, DefaultExpiryHorizonDays)
	require.NoError(t, err)
	assert.Empty(t, again)

	_, err = f.generate.GenerateExpiryAlerts(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGenerateAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	f.addItem(t, "EMPTY", 0, 2)
	_, err := f.createItem.Handle(ctx, CreateItemCommand{SKU: "OLD", Name: "OLD", CurrentStock: 20, MinimumStock: 5, ExpiryDate: &past})
	require.NoError(t, err)
	f.addItem(t, "FINE", 20, 5)

	created, err := f.generate.Handle(ctx, GenerateAlertsCommand{})
	require.NoError(t, err)

	byType := map[domain.AlertType]int{}
	for _, a := range created {
		byType[a.AlertType]++
	}
	assert.Equal(t, map[domain.AlertType]int{
		domain.AlertLowStock:          1,
		domain.AlertOutOfStock:        1,
		domain.AlertExpiryApproaching: 1,
		domain.AlertExpired:           1,
	}, byType)

	again, err := f.generate.Handle(ctx, GenerateAlertsCommand{})
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Len(t, f.publisher.types(), 4)
}

func TestGenerateLowStockAlerts_ConcurrentRunsDoNotDuplicate(t *testing.T) {
	f := newFixture(t)
	for _, sku := range []string{"A", "B", "C"} {
		f.addItem(t, sku, 1, 5)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.generate.GenerateLowStockAlerts(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, f.alerts(t, domain.AlertFilter{Status: domain.AlertStatusActive, Type: domain.AlertLowStock}), 3)
}

func TestResolveAlert(t *testing.T) {
	f := newFixture(t)
	item := f.addItem(t, "A1", 1, 5)
	ctx := context.Background()

	created, err := f.generate.GenerateLowStockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)

	resolved, err := f.resolve.Handle(ctx, ResolveAlertCommand{AlertID: created[0].ID, ResolvedBy: "manager"})
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusResolved, resolved.Status)
	assert.Equal(t, "manager", resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, testNow, *resolved.ResolvedAt)

	_, err = f.resolve.Handle(ctx, ResolveAlertCommand{AlertID: created[0].ID, ResolvedBy: "manager"})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	_, err = f.ignore.Handle(ctx, IgnoreAlertCommand{AlertID: created[0].ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	fresh, err := f.generate.GenerateLowStockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, item.ID, fresh[0].ItemID)
	assert.NotEqual(t, created[0].ID, fresh[0].ID)
}

func TestIgnoreAlert(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "A1", 0, 5)
	ctx := context.Background()

	created, err := f.generate.GenerateOutOfStockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)

	ignored, err := f.ignore.Handle(ctx, IgnoreAlertCommand{AlertID: created[0].ID})
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusIgnored, ignored.Status)
	assert.Nil(t, ignored.ResolvedAt)

	_, err = f.resolve.Handle(ctx, ResolveAlertCommand{AlertID: created[0].ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = f.ignore.Handle(ctx, IgnoreAlertCommand{AlertID: 404})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateAll_NegativeHorizonCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addItem(t, "EMPTY", 0, 5)

	horizon := -1
	created, err := f.generate.Handle(ctx, GenerateAlertsCommand{HorizonDays: &horizon})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, created)
	assert.Empty(t, f.alerts(t, domain.AlertFilter{Status: domain.AlertStatusActive}))
	assert.Empty(t, f.publisher.types())
}

func TestGenerateAll_ZeroHorizon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := domain.Today(f.clock)
	tomorrow := today.AddDate(0, 0, 1)

	for sku, expiry := range map[string]time.Time{"TODAY": today, "TOMORROW": tomorrow} {
		expiry := expiry
		_, err := f.createItem.Handle(ctx, CreateItemCommand{SKU: sku, Name: sku, CurrentStock: 50, MinimumStock: 5, ExpiryDate: &expiry})
		require.NoError(t, err)
	}

	zero := 0
	created, err := f.generate.Handle(ctx, GenerateAlertsCommand{HorizonDays: &zero})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, domain.AlertExpiryApproaching, created[0].AlertType)
	assert.Contains(t, created[0].Message, "TODAY")

	assert.Equal(t, DefaultExpiryHorizonDays, GenerateAlertsCommand{}.Horizon())
}
