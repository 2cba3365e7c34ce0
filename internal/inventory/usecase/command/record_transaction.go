package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/ledger"
	"github.com/tair/smart-inventory/internal/inventory/metrics"
	"github.com/tair/smart-inventory/pkg/logger"
)

// RecordTransactionCommand represents a manual stock movement.
// For ADJUSTMENT, Quantity is the new absolute stock. A command carrying a
// SourceEventID is applied at most once per id.
type RecordTransactionCommand struct {
	ItemID        uint
	Type          domain.TransactionType
	Quantity      int
	UserID        uint
	Username      string
	Notes         string
	SourceEventID string
}

// RecordTransactionHandler handles record transaction command
type RecordTransactionHandler struct {
	uow       domain.UnitOfWork
	engine    *ledger.Engine
	publisher domain.EventPublisher
	clock     domain.Clock
	metrics   *metrics.Metrics
}

// NewRecordTransactionHandler creates a new record transaction handler
func NewRecordTransactionHandler(
	uow domain.UnitOfWork,
	engine *ledger.Engine,
	publisher domain.EventPublisher,
	clock domain.Clock,
	m *metrics.Metrics,
) *RecordTransactionHandler {
	return &RecordTransactionHandler{uow: uow, engine: engine, publisher: publisher, clock: clock, metrics: m}
}

func (cmd RecordTransactionCommand) validate() error {
	if cmd.ItemID == 0 {
		return domain.NewInvalidArgument("item_id is required")
	}
	if !cmd.Type.Valid() {
		return domain.NewInvalidArgument("invalid transaction type: %q", cmd.Type)
	}
	if cmd.Type != domain.TransactionAdjustment && cmd.Quantity <= 0 {
		return domain.NewInvalidArgument("quantity must be positive for %s", cmd.Type)
	}
	return nil
}

// Handle applies the stock movement and stores its audit record in one unit
// of work. Replaying a SourceEventID returns the transaction it already
// recorded without touching stock.
func (h *RecordTransactionHandler) Handle(ctx context.Context, cmd RecordTransactionCommand) (*domain.Transaction, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	var (
		tx       *domain.Transaction
		change   domain.StockChange
		replayed bool
	)
	err := h.uow.Do(ctx, func(ctx context.Context, store domain.Store) error {
		if cmd.SourceEventID != "" {
			existing, err := store.Transactions().FindBySourceEventID(ctx, cmd.SourceEventID)
			if err == nil {
				tx, replayed = existing, true
				return nil
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		l := ledger.New(store)

		var err error
		if cmd.Type == domain.TransactionAdjustment {
			change, err = h.engine.Adjust(ctx, l, cmd.ItemID, cmd.Quantity)
		} else {
			delta, derr := ledger.TransactionDelta(cmd.Type, 0, cmd.Quantity)
			if derr != nil {
				return derr
			}
			change, err = h.engine.ApplyDelta(ctx, l, cmd.ItemID, delta)
		}
		if err != nil {
			return err
		}

		tx = &domain.Transaction{
			ItemID:      cmd.ItemID,
			UserID:      cmd.UserID,
			Username:    cmd.Username,
			Type:        cmd.Type,
			Quantity:    cmd.Quantity,
			StockBefore: change.Previous,
			StockAfter:  change.Current,
			Notes:       cmd.Notes,
		}
		if cmd.SourceEventID != "" {
			eventID := cmd.SourceEventID
			tx.SourceEventID = &eventID
		}
		return store.Transactions().Create(ctx, tx)
	})
	if err != nil && cmd.SourceEventID != "" && errors.Is(err, domain.ErrDuplicateKey) {
		// a concurrent delivery of the same event committed first
		err = h.uow.View(ctx, func(ctx context.Context, store domain.Store) error {
			var ferr error
			tx, ferr = store.Transactions().FindBySourceEventID(ctx, cmd.SourceEventID)
			return ferr
		})
		replayed = err == nil
	}
	if err != nil {
		h.metrics.MutationRejected(causeTransaction, err)
		failure(ctx, err).
			Uint("item_id", cmd.ItemID).
			Str("type", string(cmd.Type)).
			Int("quantity", cmd.Quantity).
			Msg("Transaction rejected")
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if replayed {
		logger.Info(ctx).
			Uint("transaction_id", tx.ID).
			Str("source_event_id", cmd.SourceEventID).
			Msg("Transaction already recorded for event")
		return tx, nil
	}

	h.metrics.StockMutated(causeTransaction)
	logger.Info(ctx).
		Uint("transaction_id", tx.ID).
		Uint("item_id", tx.ItemID).
		Str("type", string(tx.Type)).
		Int("stock_before", tx.StockBefore).
		Int("stock_after", tx.StockAfter).
		Str("username", tx.Username).
		Msg("Transaction recorded")

	change.Cause = causeTransaction
	change.Ref = string(tx.Type)
	publish(ctx, h.publisher, stockEvents(h.clock, []domain.StockChange{change})...)

	return tx, nil
}
