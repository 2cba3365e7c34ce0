package domain

import (
	"context"
	"time"
)

// Event types published after a unit of work commits
const (
	EventStockChanged   = "stock.changed"
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
	EventOrderStatus    = "order.status_changed"
	EventAlertRaised    = "alert.raised"
	EventAlertResolved  = "alert.resolved"
	EventAlertIgnored   = "alert.ignored"
)

// Event is a notification about a committed change
type Event struct {
	ID         string      `json:"event_id"`
	Type       string      `json:"event_type"`
	Key        string      `json:"key"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// StockChange describes one committed stock mutation
type StockChange struct {
	ItemID   uint   `json:"item_id"`
	SKU      string `json:"sku"`
	Previous int    `json:"previous"`
	Current  int    `json:"current"`
	Cause    string `json:"cause"`
	Ref      string `json:"ref,omitempty"`
}

// EventPublisher delivers events to interested parties
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// NoopPublisher discards every event
type NoopPublisher struct{}

// Publish does nothing
func (NoopPublisher) Publish(context.Context, ...Event) error {
	return nil
}
