package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/internal/inventory/usecase/query"
	"github.com/tair/smart-inventory/pkg/auth"
	"github.com/tair/smart-inventory/pkg/logger"
)

// CommandHandlers groups the write side of the API
type CommandHandlers struct {
	CreateItem        *command.CreateItemHandler
	DeactivateItem    *command.DeactivateItemHandler
	CreateOrder       *command.CreateOrderHandler
	CancelOrder       *command.CancelOrderHandler
	UpdateOrderStatus *command.UpdateOrderStatusHandler
	RecordTransaction *command.RecordTransactionHandler
	GenerateAlerts    *command.GenerateAlertsHandler
	ResolveAlert      *command.ResolveAlertHandler
	IgnoreAlert       *command.IgnoreAlertHandler
}

// QueryHandlers groups the read side of the API
type QueryHandlers struct {
	GetItem          *query.GetItemHandler
	ListItems        *query.ListItemsHandler
	GetOrder         *query.GetOrderHandler
	ListOrders       *query.ListOrdersHandler
	ListTransactions *query.ListTransactionsHandler
	GetAlert         *query.GetAlertHandler
	ListAlerts       *query.ListAlertsHandler
	AlertStats       *query.GetAlertStatsHandler
}

// Pinger reports store health
type Pinger interface {
	Ping(ctx context.Context) error
}

// InventoryHandler handles HTTP requests for the inventory service using CQRS pattern
type InventoryHandler struct {
	commands CommandHandlers
	queries  QueryHandlers
	auth     *Authenticator
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(commands CommandHandlers, queries QueryHandlers, authenticator *Authenticator) *InventoryHandler {
	return &InventoryHandler{commands: commands, queries: queries, auth: authenticator}
}

// Response is the JSON envelope of every endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	authenticated := h.auth.Require()
	managers := h.auth.Require(auth.RoleAdmin, auth.RoleManager)
	admins := h.auth.Require(auth.RoleAdmin)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/items", managers(h.CreateItem)).Methods("POST")
	api.HandleFunc("/items", authenticated(h.ListItems)).Methods("GET")
	api.HandleFunc("/items/sku/{sku}", authenticated(h.GetItemBySKU)).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}", authenticated(h.GetItem)).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}", admins(h.DeactivateItem)).Methods("DELETE")

	api.HandleFunc("/orders", authenticated(h.CreateOrder)).Methods("POST")
	api.HandleFunc("/orders", authenticated(h.ListOrders)).Methods("GET")
	api.HandleFunc("/orders/number/{orderNumber}", authenticated(h.GetOrderByNumber)).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}", authenticated(h.GetOrder)).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/status", authenticated(h.UpdateOrderStatus)).Methods("PUT")
	api.HandleFunc("/orders/{id:[0-9]+}", admins(h.CancelOrder)).Methods("DELETE")

	api.HandleFunc("/transactions", authenticated(h.RecordTransaction)).Methods("POST")
	api.HandleFunc("/transactions", managers(h.ListTransactions)).Methods("GET")

	api.HandleFunc("/alerts/generate", admins(h.GenerateAlerts)).Methods("POST")
	api.HandleFunc("/alerts/stats", authenticated(h.AlertStats)).Methods("GET")
	api.HandleFunc("/alerts", authenticated(h.ListAlerts)).Methods("GET")
	api.HandleFunc("/alerts/{id:[0-9]+}", authenticated(h.GetAlert)).Methods("GET")
	api.HandleFunc("/alerts/{id:[0-9]+}/resolve", authenticated(h.ResolveAlert)).Methods("PUT")
	api.HandleFunc("/alerts/{id:[0-9]+}/ignore", admins(h.IgnoreAlert)).Methods("PUT")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, store Pinger) {
	router.HandleFunc("/health", h.healthCheck(store)).Methods("GET")
}

// statusForKind maps domain error kinds to HTTP status codes
func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicateKey, domain.KindInsufficientStock, domain.KindInvalidOperation:
		return http.StatusConflict
	case domain.KindInvalidState:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status of its kind. Internal details stay in the log.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		message = "Internal server error"
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
		Kind:    string(kind),
	})
}

// respondBadRequest writes a 400 for input the handler could not parse
func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Error:   message,
		Kind:    string(domain.KindInvalidArgument),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst) == nil
}

// decodeOptionalJSON is decodeJSON that also accepts an empty body
func decodeOptionalJSON(r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	return err == nil || errors.Is(err, io.EOF)
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional unsigned query parameter; empty yields 0
func queryUint(r *http.Request, key string) (uint, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// queryInt parses an optional integer query parameter; empty yields 0
func queryInt(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func pagination(r *http.Request) (limit, offset int, ok bool) {
	limit, okLimit := queryInt(r, "limit")
	offset, okOffset := queryInt(r, "offset")
	if !okLimit || !okOffset || limit < 0 || offset < 0 {
		return 0, 0, false
	}
	return limit, offset, true
}
