package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/metrics"
	"github.com/tair/smart-inventory/pkg/logger"
)

// DefaultExpiryHorizonDays is how far ahead expiry alerts look by default
const DefaultExpiryHorizonDays = 30

// GenerateAlertsCommand represents a full alert generation pass
type GenerateAlertsCommand struct {
	// HorizonDays for expiry alerts; nil means DefaultExpiryHorizonDays.
	// Zero asks for items expiring today or earlier.
	HorizonDays *int
}

// Horizon returns the expiry horizon the command asks for
func (cmd GenerateAlertsCommand) Horizon() int {
	if cmd.HorizonDays == nil {
		return DefaultExpiryHorizonDays
	}
	return *cmd.HorizonDays
}

func validateHorizon(days int) error {
	if days < 0 {
		return domain.NewInvalidArgument("expiry horizon cannot be negative: %d", days)
	}
	return nil
}

// GenerateAlertsHandler derives stock alerts from current inventory state.
// Each generator creates at most one ACTIVE alert per item and alert type.
type GenerateAlertsHandler struct {
	uow       domain.UnitOfWork
	publisher domain.EventPublisher
	clock     domain.Clock
	metrics   *metrics.Metrics
}

// NewGenerateAlertsHandler creates a new generate alerts handler
func NewGenerateAlertsHandler(
	uow domain.UnitOfWork,
	publisher domain.EventPublisher,
	clock domain.Clock,
	m *metrics.Metrics,
) *GenerateAlertsHandler {
	return &GenerateAlertsHandler{uow: uow, publisher: publisher, clock: clock, metrics: m}
}

type candidateFinder func(ctx context.Context, items domain.ItemRepository) ([]domain.Item, error)

// GenerateLowStockAlerts creates LOW_STOCK alerts for active items at or below
// their minimum stock.
func (h *GenerateAlertsHandler) GenerateLowStockAlerts(ctx context.Context) ([]domain.StockAlert, error) {
	return h.generate(ctx, domain.AlertLowStock,
		func(ctx context.Context, items domain.ItemRepository) ([]domain.Item, error) {
			return items.FindLowStock(ctx)
		},
		func(item domain.Item) string {
			return fmt.Sprintf("Low stock alert: %s has only %d units left (minimum: %d)",
				item.Name, item.CurrentStock, item.MinimumStock)
		},
	)
}

// GenerateExpiryAlerts creates EXPIRY_APPROACHING alerts for active items that
// expire within horizonDays of today.
func (h *GenerateAlertsHandler) GenerateExpiryAlerts(ctx context.Context, horizonDays int) ([]domain.StockAlert, error) {
	if err := validateHorizon(horizonDays); err != nil {
		return nil, err
	}
	limit := domain.Today(h.clock).AddDate(0, 0, horizonDays)

	return h.generate(ctx, domain.AlertExpiryApproaching,
		func(ctx context.Context, items domain.ItemRepository) ([]domain.Item, error) {
			return items.FindExpiringBefore(ctx, limit)
		},
		func(item domain.Item) string {
			return fmt.Sprintf("Expiry alert: %s will expire on %s", item.Name, item.ExpiryDate.Format("2006-01-02"))
		},
	)
}

// GenerateOutOfStockAlerts creates OUT_OF_STOCK alerts for active items with no stock
func (h *GenerateAlertsHandler) GenerateOutOfStockAlerts(ctx context.Context) ([]domain.StockAlert, error) {
	return h.generate(ctx, domain.AlertOutOfStock,
		func(ctx context.Context, items domain.ItemRepository) ([]domain.Item, error) {
			return items.FindOutOfStock(ctx)
		},
		func(item domain.Item) string {
			return fmt.Sprintf("Out of stock alert: %s has no units left", item.Name)
		},
	)
}

// GenerateExpiredAlerts creates EXPIRED alerts for active items whose expiry
// date is before today.
func (h *GenerateAlertsHandler) GenerateExpiredAlerts(ctx context.Context) ([]domain.StockAlert, error) {
	yesterday := domain.Today(h.clock).AddDate(0, 0, -1)

	return h.generate(ctx, domain.AlertExpired,
		func(ctx context.Context, items domain.ItemRepository) ([]domain.Item, error) {
			return items.FindExpiringBefore(ctx, yesterday)
		},
		func(item domain.Item) string {
			return fmt.Sprintf("Expired alert: %s expired on %s", item.Name, item.ExpiryDate.Format("2006-01-02"))
		},
	)
}

// Handle runs every generator and returns all newly created alerts. Input is
// validated before any generator runs; alerts created before a generator
// fails on the store stay committed.
func (h *GenerateAlertsHandler) Handle(ctx context.Context, cmd GenerateAlertsCommand) ([]domain.StockAlert, error) {
	horizon := cmd.Horizon()
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}

	generators := []func(context.Context) ([]domain.StockAlert, error){
		h.GenerateLowStockAlerts,
		h.GenerateOutOfStockAlerts,
		func(ctx context.Context) ([]domain.StockAlert, error) { return h.GenerateExpiryAlerts(ctx, horizon) },
		h.GenerateExpiredAlerts,
	}

	all := make([]domain.StockAlert, 0)
	for _, generate := range generators {
		created, err := generate(ctx)
		if err != nil {
			return all, err
		}
		all = append(all, created...)
	}
	return all, nil
}

func (h *GenerateAlertsHandler) generate(
	ctx context.Context,
	alertType domain.AlertType,
	find candidateFinder,
	message func(domain.Item) string,
) ([]domain.StockAlert, error) {
	var created []domain.StockAlert
	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		created = make([]domain.StockAlert, 0)

		items, err := find(ctx, store.Items())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		active, err := store.Alerts().FindByStatusAndType(ctx, domain.AlertStatusActive, alertType)
		if err != nil {
			return err
		}
		alerted := make(map[uint]bool, len(active))
		for _, a := range active {
			alerted[a.ItemID] = true
		}

		for _, item := range items {
			if alerted[item.ID] {
				continue
			}
			alert := &domain.StockAlert{
				ItemID:    item.ID,
				AlertType: alertType,
				Message:   message(item),
			}
			inserted, err := store.Alerts().CreateActive(ctx, alert)
			if err != nil {
				return err
			}
			if inserted {
				created = append(created, *alert)
			}
			alerted[item.ID] = true
		}
		return nil
	})
	if err != nil {
		failure(ctx, err).Str("alert_type", string(alertType)).Msg("Alert generation failed")
		return nil, fmt.Errorf("failed to generate %s alerts: %w", alertType, err)
	}

	h.metrics.AlertsCreated(created)
	logger.Info(ctx).
		Str("alert_type", string(alertType)).
		Int("created", len(created)).
		Msg("Alerts generated")

	events := make([]domain.Event, 0, len(created))
	for i := range created {
		events = append(events, newEvent(h.clock, domain.EventAlertRaised, "item_"+strconv.FormatUint(uint64(created[i].ItemID), 10), created[i]))
	}
	publish(ctx, h.publisher, events...)

	return created, nil
}
