package domain

import (
	"context"
	"time"
)

// OrderType distinguishes goods coming in from goods going out
type OrderType string

// Order types
const (
	OrderTypePurchase OrderType = "PURCHASE"
	OrderTypeSale     OrderType = "SALE"
)

// Valid reports whether t is a known order type
func (t OrderType) Valid() bool {
	return t == OrderTypePurchase || t == OrderTypeSale
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a purchase or sale order
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	OrderNumber string      `json:"order_number" gorm:"uniqueIndex;not null"`
	OrderType   OrderType   `json:"order_type" gorm:"type:varchar(16);not null;index"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	Customer    string      `json:"customer,omitempty"`
	Supplier    string      `json:"supplier,omitempty"`
	TotalAmount float64     `json:"total_amount"`
	Notes       string      `json:"notes,omitempty"`
	Lines       []OrderLine `json:"lines" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedBy   string      `json:"created_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one item and quantity within an order
type OrderLine struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	ItemID    uint    `json:"item_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price"`
}

// TableName specifies the table name
func (OrderLine) TableName() string {
	return "order_lines"
}

// OrderFilter narrows order listings; zero values are ignored
type OrderFilter struct {
	Status OrderStatus
	Type   OrderType
	Limit  int
	Offset int
}

// OrderRepository defines the contract for order data access.
// Orders are always returned with their lines.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uint) (*Order, error)
	// FindByIDForUpdate reads the order and holds a row lock until the unit of work ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, id uint, status OrderStatus) error
}
