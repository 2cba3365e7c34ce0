package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/internal/inventory/usecase/query"
)

type orderLineRequest struct {
	ItemID    uint    `json:"item_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type createOrderRequest struct {
	OrderNumber string             `json:"order_number"`
	OrderType   string             `json:"order_type"`
	Status      string             `json:"status"`
	Customer    string             `json:"customer"`
	Supplier    string             `json:"supplier"`
	TotalAmount float64            `json:"total_amount"`
	Notes       string             `json:"notes"`
	Lines       []orderLineRequest `json:"lines"`
}

// CreateOrder godoc
// @Summary Create order
// @Description Create a PURCHASE or SALE order and apply its stock changes atomically
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createOrderRequest true "Order data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/orders [post]
func (h *InventoryHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(r, &req) {
		respondBadRequest(w, "Invalid request body")
		return
	}

	lines := make([]command.OrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, command.OrderLineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	identity, _ := IdentityFromContext(r.Context())
	order, err := h.commands.CreateOrder.Handle(r.Context(), command.CreateOrderCommand{
		OrderNumber: req.OrderNumber,
		OrderType:   domain.OrderType(req.OrderType),
		Status:      domain.OrderStatus(req.Status),
		Customer:    req.Customer,
		Supplier:    req.Supplier,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
		CreatedBy:   identity.Username,
		Lines:       lines,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order created successfully",
		Data:    order,
	})
}

// ListOrders godoc
// @Summary List orders
// @Description List orders filtered by status and type
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "PENDING, PROCESSING, COMPLETED or CANCELLED"
// @Param type query string false "PURCHASE or SALE"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/orders [get]
func (h *InventoryHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(r)
	if !ok {
		respondBadRequest(w, "Invalid pagination parameters")
		return
	}

	orders, err := h.queries.ListOrders.Handle(r.Context(), query.ListOrdersQuery{
		Status: domain.OrderStatus(r.URL.Query().Get("status")),
		Type:   domain.OrderType(r.URL.Query().Get("type")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    orders,
	})
}

// GetOrder godoc
// @Summary Get order by ID
// @Description Get a specific order with its lines
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /api/orders/{id} [get]
func (h *InventoryHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.queries.GetOrder.Handle(r.Context(), query.GetOrderQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    order,
	})
}

// GetOrderByNumber godoc
// @Summary Get order by number
// @Description Get a specific order by its order number
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param orderNumber path string true "Order number"
// @Success 200 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /api/orders/number/{orderNumber} [get]
func (h *InventoryHandler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := h.queries.GetOrder.Handle(r.Context(), query.GetOrderQuery{OrderNumber: mux.Vars(r)["orderNumber"]})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    order,
	})
}

// UpdateOrderStatus godoc
// @Summary Update order status
// @Description Move an order to a new status; CANCELLED reverses its stock changes
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Param status query string true "New status"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/orders/{id}/status [put]
func (h *InventoryHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.commands.UpdateOrderStatus.Handle(r.Context(), command.UpdateOrderStatusCommand{
		OrderID: id,
		Status:  domain.OrderStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order status updated successfully",
		Data:    order,
	})
}

// CancelOrder godoc
// @Summary Cancel order
// @Description Cancel an order and reverse its stock changes (Admin only)
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/orders/{id} [delete]
func (h *InventoryHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondBadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.commands.CancelOrder.Handle(r.Context(), command.CancelOrderCommand{OrderID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Order cancelled successfully",
		Data:    order,
	})
}
