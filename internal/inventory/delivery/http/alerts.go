package http

import (
	"net/http"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/internal/inventory/usecase/query"
)

type generateAlertsRequest struct {
	// HorizonDays is optional; absent means 30, zero means expiring today or earlier
	HorizonDays *int `json:"horizon_days,omitempty" example:"30"`
}

// GenerateAlerts godoc
// @Summary Generate alerts
// @Description Run every alert generator once (Admin only). The body is optional.
// @Tags Alerts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body generateAlertsRequest false "Expiry horizon"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Router /api/alerts/generate [post]
func (h *InventoryHandler) GenerateAlerts(w http.ResponseWriter, r *http.Request) {
	var req generateAlertsRequest
	if !decodeOptionalJSON(r, &req) {
		respondBadRequest(w, "Invalid request body")
		return
	}

	alerts, err := h.commands.GenerateAlerts.Handle(r.Context(), command.GenerateAlertsCommand{HorizonDays: req.HorizonDays})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Alerts generated successfully",
		Data:    alerts,
	})
}

// ListAlerts godoc
// @Summary List alerts
// @Description List alerts filtered by status, type and item
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Param status query string false "ACTIVE, RESOLVED or IGNORED"
// @Param type query string false "LOW_STOCK, OUT_OF_STOCK, EXPIRY_APPROACHING or EXPIRED"
// @Param item_id query int false "Item ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/alerts [get]
func (h *InventoryHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	itemID, ok := queryUint(r, "item_id")
	if !ok {
		respondBadRequest(w, "Invalid item_id")
		return
	}

	alerts, err := h.queries.ListAlerts.Handle(r.Context(), query.ListAlertsQuery{
		Status: domain.AlertStatus(r.URL.Query().Get("status")),
		Type:   domain.AlertType(r.URL.Query().Get("type")),
		ItemID: itemID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    alerts,
	})
}

// GetAlert godoc
// @Summary Get alert by ID
// @Description Get a specific alert
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /api/alerts/{id} [get]
func (h *InventoryHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid alert ID")
		return
	}

	alert, err := h.queries.GetAlert.Handle(r.Context(), query.GetAlertQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    alert,
	})
}

// AlertStats godoc
// @Summary Alert statistics
// @Description Alert counts by status and active alerts by type
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Router /api/alerts/stats [get]
func (h *InventoryHandler) AlertStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.AlertStats.Handle(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

// ResolveAlert godoc
// @Summary Resolve alert
// @Description Resolve an ACTIVE alert
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Alert ID"
// @Param resolvedBy query string false "Resolver name (defaults to caller)"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/alerts/{id}/resolve [put]
func (h *InventoryHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid alert ID")
		return
	}

	resolvedBy := r.URL.Query().Get("resolvedBy")
	if resolvedBy == "" {
		identity, _ := IdentityFromContext(r.Context())
		resolvedBy = identity.Username
	}

	alert, err := h.commands.ResolveAlert.Handle(r.Context(), command.ResolveAlertCommand{AlertID: id, ResolvedBy: resolvedBy})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Alert resolved successfully",
		Data:    alert,
	})
}

// IgnoreAlert godoc
// @Summary Ignore alert
// @Description Ignore an ACTIVE alert (Admin only)
// @Tags Alerts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/alerts/{id}/ignore [put]
func (h *InventoryHandler) IgnoreAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid alert ID")
		return
	}

	alert, err := h.commands.IgnoreAlert.Handle(r.Context(), command.IgnoreAlertCommand{AlertID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Alert ignored successfully",
		Data:    alert,
	})
}
