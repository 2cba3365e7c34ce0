package query

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/metrics"
)

// GetAlertQuery represents the query to get an alert
type GetAlertQuery struct {
	ID uint
}

// GetAlertHandler handles get alert query
type GetAlertHandler struct {
	uow domain.UnitOfWork
}

// NewGetAlertHandler creates a new get alert handler
func NewGetAlertHandler(uow domain.UnitOfWork) *GetAlertHandler {
	return &GetAlertHandler{uow: uow}
}

// Handle executes the get alert query
func (h *GetAlertHandler) Handle(ctx context.Context, query GetAlertQuery) (*domain.StockAlert, error) {
	if query.ID == 0 {
		return nil, domain.NewInvalidArgument("id is required")
	}

	var alert *domain.StockAlert
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		alert, err = store.Alerts().FindByID(ctx, query.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return alert, nil
}

// ListAlertsQuery filters alerts; zero fields match everything
type ListAlertsQuery struct {
	Status domain.AlertStatus
	Type   domain.AlertType
	ItemID uint
}

// ListAlertsHandler handles list alerts query
type ListAlertsHandler struct {
	uow domain.UnitOfWork
}

// NewListAlertsHandler creates a new list alerts handler
func NewListAlertsHandler(uow domain.UnitOfWork) *ListAlertsHandler {
	return &ListAlertsHandler{uow: uow}
}

// Handle executes the list alerts query
func (h *ListAlertsHandler) Handle(ctx context.Context, query ListAlertsQuery) ([]domain.StockAlert, error) {
	if query.Status != "" && !query.Status.Valid() {
		return nil, domain.NewInvalidArgument("invalid alert status: %q", query.Status)
	}
	if query.Type != "" && !query.Type.Valid() {
		return nil, domain.NewInvalidArgument("invalid alert type: %q", query.Type)
	}

	var alerts []domain.StockAlert
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		alerts, err = store.Alerts().Find(ctx, domain.AlertFilter{Status: query.Status, Type: query.Type, ItemID: query.ItemID})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// AlertStats summarizes alerts by status and, for active alerts, by type
type AlertStats struct {
	Total        int64                        `json:"total"`
	ByStatus     map[domain.AlertStatus]int64 `json:"by_status"`
	ActiveByType map[domain.AlertType]int64   `json:"active_by_type"`
}

// GetAlertStatsHandler handles alert statistics query
type GetAlertStatsHandler struct {
	uow     domain.UnitOfWork
	metrics *metrics.Metrics
}

// NewGetAlertStatsHandler creates a new alert statistics handler
func NewGetAlertStatsHandler(uow domain.UnitOfWork, m *metrics.Metrics) *GetAlertStatsHandler {
	return &GetAlertStatsHandler{uow: uow, metrics: m}
}

// Handle executes the alert statistics query and refreshes the alert gauge
func (h *GetAlertStatsHandler) Handle(ctx context.Context) (*AlertStats, error) {
	var counts []domain.AlertCount
	err := h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		counts, err = store.Alerts().CountByStatusAndType(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get alert stats: %w", err)
	}

	stats := &AlertStats{
		ByStatus:     make(map[domain.AlertStatus]int64, len(domain.AlertStatuses)),
		ActiveByType: make(map[domain.AlertType]int64, len(domain.AlertTypes)),
	}
	for _, status := range domain.AlertStatuses {
		stats.ByStatus[status] = 0
	}
	for _, alertType := range domain.AlertTypes {
		stats.ActiveByType[alertType] = 0
	}
	for _, c := range counts {
		stats.Total += c.Count
		stats.ByStatus[c.Status] += c.Count
		if c.Status == domain.AlertStatusActive {
			stats.ActiveByType[c.AlertType] += c.Count
		}
	}

	h.metrics.SetAlertCounts(counts)
	return stats, nil
}
