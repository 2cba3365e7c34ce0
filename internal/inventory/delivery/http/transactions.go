package http

import (
	"net/http"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
	"github.com/tair/smart-inventory/internal/inventory/usecase/query"
)

type recordTransactionRequest struct {
	ItemID   uint   `json:"item_id"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

// RecordTransaction godoc
// @Summary Record stock transaction
// @Description Record a STOCK_IN, STOCK_OUT or ADJUSTMENT for an item
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body recordTransactionRequest true "Transaction data"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Failure 422 {object} Response
// @Router /api/transactions [post]
func (h *InventoryHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req recordTransactionRequest
	if !decodeJSON(r, &req) {
		respondBadRequest(w, "Invalid request body")
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	tx, err := h.commands.RecordTransaction.Handle(r.Context(), command.RecordTransactionCommand{
		ItemID:   req.ItemID,
		Type:     domain.TransactionType(req.Type),
		Quantity: req.Quantity,
		UserID:   identity.UserID,
		Username: identity.Username,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Transaction recorded successfully",
		Data:    tx,
	})
}

// ListTransactions godoc
// @Summary List transactions
// @Description List stock transactions, optionally for one item (Admin, Manager)
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param item_id query int false "Item ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 403 {object} Response
// @Router /api/transactions [get]
func (h *InventoryHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	itemID, ok := queryUint(r, "item_id")
	if !ok {
		respondBadRequest(w, "Invalid item_id")
		return
	}
	limit, offset, ok := pagination(r)
	if !ok {
		respondBadRequest(w, "Invalid pagination parameters")
		return
	}

	txs, err := h.queries.ListTransactions.Handle(r.Context(), query.ListTransactionsQuery{
		ItemID: itemID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    txs,
	})
}
