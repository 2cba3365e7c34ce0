package kafka

import "time"

// Kafka topics
const (
	TopicInventoryEvents   = "inventory-events"
	TopicStockTransactions = "stock-transactions"
)

// Event types consumed by the inventory service
const (
	EventTypeStockTransactionRequested = "stock.transaction.requested"
)

// Header keys
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// StockTransactionRequestedEvent asks the inventory service to record a
// manual stock movement on behalf of another system.
type StockTransactionRequestedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ItemID    uint      `json:"item_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}
