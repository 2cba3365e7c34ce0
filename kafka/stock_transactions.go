package kafka

import (
	"context"
	"encoding/json"

	"github.com/tair/smart-inventory/internal/inventory/domain"
	"github.com/tair/smart-inventory/internal/inventory/usecase/command"
)

// TransactionRecorder records manual stock movements
type TransactionRecorder interface {
	Handle(ctx context.Context, cmd command.RecordTransactionCommand) (*domain.Transaction, error)
}

// StockTransactionHandler turns stock.transaction.requested messages into
// RecordTransaction commands. The event id travels with the command so a
// redelivered message does not move stock twice.
func StockTransactionHandler(recorder TransactionRecorder) EventHandler {
	return func(ctx context.Context, payload []byte) error {
		var event StockTransactionRequestedEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return &domain.Error{Kind: domain.KindInvalidArgument, Message: "malformed stock transaction event", Err: err}
		}

		eventID := event.EventID
		if eventID == "" {
			eventID = EventIDFromContext(ctx)
		}

		_, err := recorder.Handle(ctx, command.RecordTransactionCommand{
			ItemID:        event.ItemID,
			Type:          domain.TransactionType(event.Type),
			Quantity:      event.Quantity,
			UserID:        event.UserID,
			Username:      event.Username,
			Notes:         event.Notes,
			SourceEventID: eventID,
		})
		return err
	}
}
