package domain

import (
	"context"
	"time"
)

// Item represents a stock keeping item
type Item struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	SKU          string     `json:"sku" gorm:"uniqueIndex;not null"`
	Name         string     `json:"name" gorm:"not null"`
	Description  string     `json:"description" gorm:"type:text"`
	CurrentStock int        `json:"current_stock" gorm:"not null;default:0;check:current_stock >= 0"`
	MinimumStock int        `json:"minimum_stock" gorm:"not null;default:1"`
	CostPrice    float64    `json:"cost_price"`
	SellingPrice float64    `json:"selling_price"`
	Location     string     `json:"location"`
	Supplier     string     `json:"supplier"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty" gorm:"type:date;index"`
	Active       bool       `json:"active" gorm:"not null;index"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Item) TableName() string {
	return "items"
}

// IsLowStock reports whether the item is at or below its minimum stock
func (i *Item) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}

// ExpiresOnOrBefore reports whether the item has an expiry date on or before day.
// Only the calendar date of both values is compared.
func (i *Item) ExpiresOnOrBefore(day time.Time) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return !DateOf(*i.ExpiryDate).After(DateOf(day))
}

// ItemRepository defines the contract for item data access
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uint) (*Item, error)
	// FindByIDForUpdate reads the item and holds a row lock until the unit of work ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	FindAll(ctx context.Context, limit, offset int) ([]Item, error)
	// FindLowStock returns active items at or below their minimum stock.
	FindLowStock(ctx context.Context) ([]Item, error)
	FindOutOfStock(ctx context.Context) ([]Item, error)
	// FindExpiringBefore returns active items whose expiry date is on or before day.
	FindExpiringBefore(ctx context.Context, day time.Time) ([]Item, error)
	UpdateStock(ctx context.Context, id uint, stock int) error
	Deactivate(ctx context.Context, id uint) error
}
