package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/internal/inventory/usecase/query"
)

const dateLayout = "2006-01-02"

type createItemRequest struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	CurrentStock int     `json:"current_stock"`
	MinimumStock int     `json:"minimum_stock"`
	CostPrice    float64 `json:"cost_price"`
	SellingPrice float64 `json:"selling_price"`
	Location     string  `json:"location"`
	Supplier     string  `json:"supplier"`
	ExpiryDate   string  `json:"expiry_date"`
}

// CreateItem godoc
// @Summary Create item
// @Description Create a new stock-keeping item (Admin, Manager)
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createItemRequest true "Item data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Failure 409 {object} Response
// @Router /api/items [post]
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decodeJSON(r, &req) {
		respondBadRequest(w, "Invalid request body")
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		d, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			respondBadRequest(w, "expiry_date must be YYYY-MM-DD")
			return
		}
		expiry = &d
	}

	identity, _ := IdentityFromContext(r.Context())
	item, err := h.commands.CreateItem.Handle(r.Context(), command.CreateItemCommand{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Location:     req.Location,
		Supplier:     req.Supplier,
		ExpiryDate:   expiry,
		CreatedBy:    identity.Username,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item created successfully",
		Data:    item,
	})
}

// ListItems godoc
// @Summary List items
// @Description List items with pagination
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit (default 10, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/items [get]
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(r)
	if !ok {
		respondBadRequest(w, "Invalid pagination parameters")
		return
	}

	items, err := h.queries.ListItems.Handle(r.Context(), query.ListItemsQuery{Limit: limit, Offset: offset})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    items,
	})
}

// GetItem godoc
// @Summary Get item by ID
// @Description Get a specific item by its ID
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /api/items/{id} [get]
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid item ID")
		return
	}

	item, err := h.queries.GetItem.Handle(r.Context(), query.GetItemQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// GetItemBySKU godoc
// @Summary Get item by SKU
// @Description Get a specific item by its SKU
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param sku path string true "SKU"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /api/items/sku/{sku} [get]
func (h *InventoryHandler) GetItemBySKU(w http.ResponseWriter, r *http.Request) {
	item, err := h.queries.GetItem.Handle(r.Context(), query.GetItemQuery{SKU: mux.Vars(r)["sku"]})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// DeactivateItem godoc
// @Summary Deactivate item
// @Description Soft-delete an item (Admin only)
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /api/items/{id} [delete]
func (h *InventoryHandler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid item ID")
		return
	}

	if err := h.commands.DeactivateItem.Handle(r.Context(), command.DeactivateItemCommand{ID: id}); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item deactivated successfully",
	})
}
