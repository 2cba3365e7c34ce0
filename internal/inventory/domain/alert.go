package domain

import (
	"context"
	"time"
)

// AlertType is the threshold an alert reports on
type AlertType string

// Alert types
const (
	AlertLowStock          AlertType = "LOW_STOCK"
	AlertOutOfStock        AlertType = "OUT_OF_STOCK"
	AlertExpiryApproaching AlertType = "EXPIRY_APPROACHING"
	AlertExpired           AlertType = "EXPIRED"
)

// AlertTypes lists every alert type in a stable order
var AlertTypes = []AlertType{AlertLowStock, AlertOutOfStock, AlertExpiryApproaching, AlertExpired}

// Valid reports whether t is a known alert type
func (t AlertType) Valid() bool {
	for _, known := range AlertTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AlertStatus is the lifecycle state of an alert
type AlertStatus string

// Alert statuses
const (
	AlertStatusActive   AlertStatus = "ACTIVE"
	AlertStatusResolved AlertStatus = "RESOLVED"
	AlertStatusIgnored  AlertStatus = "IGNORED"
)

// AlertStatuses lists every alert status in a stable order
var AlertStatuses = []AlertStatus{AlertStatusActive, AlertStatusResolved, AlertStatusIgnored}

// Valid reports whether s is a known alert status
func (s AlertStatus) Valid() bool {
	return s == AlertStatusActive || s == AlertStatusResolved || s == AlertStatusIgnored
}

// StockAlert is a notification derived from inventory state.
// At most one ACTIVE alert exists per (ItemID, AlertType).
type StockAlert struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	ItemID     uint        `json:"item_id" gorm:"not null;index"`
	AlertType  AlertType   `json:"alert_type" gorm:"type:varchar(32);not null;index"`
	Status     AlertStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	Message    string      `json:"message"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
	ResolvedBy string      `json:"resolved_by,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName specifies the table name
func (StockAlert) TableName() string {
	return "stock_alerts"
}

// IsActive reports whether the alert is still open
func (a *StockAlert) IsActive() bool {
	return a.Status == AlertStatusActive
}

// AlertFilter narrows alert listings; zero values are ignored
type AlertFilter struct {
	Status AlertStatus
	Type   AlertType
	ItemID uint
}

// AlertCount is the number of alerts sharing a status and type
type AlertCount struct {
	Status    AlertStatus `json:"status"`
	AlertType AlertType   `json:"alert_type"`
	Count     int64       `json:"count"`
}

// AlertRepository defines the contract for alert data access
type AlertRepository interface {
	// CreateActive inserts an ACTIVE alert unless one already exists for the same
	// item and type. It reports whether a row was inserted.
	CreateActive(ctx context.Context, alert *StockAlert) (bool, error)
	FindByID(ctx context.Context, id uint) (*StockAlert, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*StockAlert, error)
	FindByStatusAndType(ctx context.Context, status AlertStatus, alertType AlertType) ([]StockAlert, error)
	Find(ctx context.Context, filter AlertFilter) ([]StockAlert, error)
	Update(ctx context.Context, alert *StockAlert) error
	CountByStatusAndType(ctx context.Context) ([]AlertCount, error)
}
