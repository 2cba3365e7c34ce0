package command

import (
	"context"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/pkg/logger"
)

// ResolveAlertCommand represents the command to resolve an alert
type ResolveAlertCommand struct {
	AlertID    uint
	ResolvedBy string
}

// IgnoreAlertCommand represents the command to ignore an alert
type IgnoreAlertCommand struct {
	AlertID uint
}

// AlertStatusHandler closes ACTIVE alerts
type AlertStatusHandler struct {
	uow       domain.UnitOfWork
	publisher domain.EventPublisher
	clock     domain.Clock
}

// ResolveAlertHandler handles resolve alert command
type ResolveAlertHandler struct {
	*AlertStatusHandler
}

// IgnoreAlertHandler handles ignore alert command
type IgnoreAlertHandler struct {
	*AlertStatusHandler
}

// NewAlertStatusHandler creates the shared alert transition handler
func NewAlertStatusHandler(uow domain.UnitOfWork, publisher domain.EventPublisher, clock domain.Clock) *AlertStatusHandler {
	return &AlertStatusHandler{uow: uow, publisher: publisher, clock: clock}
}

// NewResolveAlertHandler creates a new resolve alert handler
func NewResolveAlertHandler(h *AlertStatusHandler) *ResolveAlertHandler {
	return &ResolveAlertHandler{AlertStatusHandler: h}
}

// NewIgnoreAlertHandler creates a new ignore alert handler
func NewIgnoreAlertHandler(h *AlertStatusHandler) *IgnoreAlertHandler {
	return &IgnoreAlertHandler{AlertStatusHandler: h}
}

// Handle moves the alert from ACTIVE to RESOLVED and stamps the resolver
func (h *ResolveAlertHandler) Handle(ctx context.Context, cmd ResolveAlertCommand) (*domain.StockAlert, error) {
	return h.transition(ctx, cmd.AlertID, domain.AlertStatusResolved, func(alert *domain.StockAlert) {
		now := h.clock.Now()
		alert.ResolvedAt = &now
		alert.ResolvedBy = cmd.ResolvedBy
	})
}

// Handle moves the alert from ACTIVE to IGNORED
func (h *IgnoreAlertHandler) Handle(ctx context.Context, cmd IgnoreAlertCommand) (*domain.StockAlert, error) {
	return h.transition(ctx, cmd.AlertID, domain.AlertStatusIgnored, nil)
}

func (h *AlertStatusHandler) transition(ctx context.Context, alertID uint, to domain.AlertStatus, stamp func(*domain.StockAlert)) (*domain.StockAlert, error) {
	if alertID == 0 {
		return nil, domain.NewInvalidArgument("alert id is required")
	}

	var alert *domain.StockAlert
	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		var err error
		alert, err = store.Alerts().FindByIDForUpdate(ctx, alertID)
		if err != nil {
			return err
		}
		if !alert.IsActive() {
			return domain.NewInvalidOperation("alert %d is %s and cannot be %s", alert.ID, alert.Status, to)
		}

		alert.Status = to
		if stamp != nil {
			stamp(alert)
		}
		return store.Alerts().Update(ctx, alert)
	})
	if err != nil {
		failure(ctx, err).
			Uint("alert_id", alertID).
			Str("to", string(to)).
			Msg("Alert transition rejected")
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}

	logger.Info(ctx).
		Uint("alert_id", alert.ID).
		Uint("item_id", alert.ItemID).
		Str("alert_type", string(alert.AlertType)).
		Str("status", string(alert.Status)).
		Msg("Alert closed")

	eventType := domain.EventAlertResolved
	if to == domain.AlertStatusIgnored {
		eventType = domain.EventAlertIgnored
	}
	publish(ctx, h.publisher, newEvent(h.clock, eventType, fmt.Sprintf("alert_%d", alert.ID), alert))
	return alert, nil
}
