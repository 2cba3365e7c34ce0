package domain

import (
	"context"
	"time"
)

// TransactionType is the kind of manual stock movement
type TransactionType string

// Transaction types
const (
	TransactionStockIn    TransactionType = "STOCK_IN"
	TransactionStockOut   TransactionType = "STOCK_OUT"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionStockIn, TransactionStockOut, TransactionAdjustment:
		return true
	}
	return false
}

// Transaction is an immutable audit record of a manual stock movement.
// SourceEventID is the id of the message that requested the movement and is
// null for transactions recorded through the API.
type Transaction struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	ItemID        uint            `json:"item_id" gorm:"not null;index"`
	UserID        uint            `json:"user_id"`
	Username      string          `json:"username"`
	Type          TransactionType `json:"type" gorm:"type:varchar(16);not null;index"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	StockBefore   int             `json:"stock_before"`
	StockAfter    int             `json:"stock_after"`
	Notes         string          `json:"notes,omitempty"`
	SourceEventID *string         `json:"source_event_id,omitempty" gorm:"type:varchar(64);uniqueIndex"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionRepository defines the contract for transaction data access.
// There is no update or delete: committed transactions are never changed.
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByItemID(ctx context.Context, itemID uint) ([]Transaction, error)
	FindAll(ctx context.Context, limit, offset int) ([]Transaction, error)
	FindBySourceEventID(ctx context.Context, eventID string) (*Transaction, error)
}
