package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

// activeAlertIndex enforces at most one ACTIVE alert per item and type
const activeAlertIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_alerts_active_item_type
	ON stock_alerts (item_id, alert_type) WHERE status = 'ACTIVE'`

// GormStore is the PostgreSQL backed store
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new gorm store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the schema
func (s *GormStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(
		&domain.Item{},
		&domain.Order{},
		&domain.OrderLine{},
		&domain.Transaction{},
		&domain.StockAlert{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := s.db.Exec(activeAlertIndex).Error; err != nil {
		return fmt.Errorf("failed to create active alert index: %w", err)
	}
	return nil
}

// Do runs fn inside a database transaction
func (s *GormStore) Do(ctx context.Context, fn func(ctx context.Context, store domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, gormTx{db: tx})
	})
}

// View runs fn outside a transaction
func (s *GormStore) View(ctx context.Context, fn func(ctx context.Context, store domain.Store) error) error {
	return fn(ctx, gormTx{db: s.db.WithContext(ctx)})
}

// Ping checks the database connection
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type gormTx struct {
	db *gorm.DB
}

func (t gormTx) Items() domain.ItemRepository               { return &GormItemRepository{db: t.db} }
func (t gormTx) Orders() domain.OrderRepository             { return &GormOrderRepository{db: t.db} }
func (t gormTx) Transactions() domain.TransactionRepository { return &GormTransactionRepository{db: t.db} }
func (t gormTx) Alerts() domain.AlertRepository             { return &GormAlertRepository{db: t.db} }

// translateError maps driver errors onto domain errors
func translateError(err error, entity, field string, value interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFound(entity, field, value)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewDuplicateKey(entity, field, value)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return domain.NewDuplicateKey(entity, field, value)
		case "23514":
			return domain.NewInvalidState("%s violates check constraint %s", entity, pqErr.Constraint)
		}
	}
	return domain.NewInternal(fmt.Sprintf("%s query failed", entity), err)
}

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GormItemRepository implements domain.ItemRepository
type GormItemRepository struct {
	db *gorm.DB
}

func (r *GormItemRepository) Create(ctx context.Context, item *domain.Item) error {
	err := r.db.WithContext(ctx).Create(item).Error
	return translateError(err, "item", "sku", item.SKU)
}

func (r *GormItemRepository) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translateError(err, "item", "id", id)
	}
	return &item, nil
}

func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Item, error) {
	var item domain.Item
	if err := forUpdate(r.db.WithContext(ctx)).First(&item, id).Error; err != nil {
		return nil, translateError(err, "item", "id", id)
	}
	return &item, nil
}

func (r *GormItemRepository) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&item).Error; err != nil {
		return nil, translateError(err, "item", "sku", sku)
	}
	return &item, nil
}

func (r *GormItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Item{}).Where("sku = ?", sku).Count(&count).Error
	if err != nil {
		return false, translateError(err, "item", "sku", sku)
	}
	return count > 0, nil
}

func (r *GormItemRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&items).Error
	return items, translateError(err, "item", "page", offset)
}

func (r *GormItemRepository) FindLowStock(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("active = ? AND current_stock <= minimum_stock", true).
		Order("id").
		Find(&items).Error
	return items, translateError(err, "item", "low stock", true)
}

func (r *GormItemRepository) FindOutOfStock(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("active = ? AND current_stock = 0", true).
		Order("id").
		Find(&items).Error
	return items, translateError(err, "item", "out of stock", true)
}

func (r *GormItemRepository) FindExpiringBefore(ctx context.Context, day time.Time) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("active = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", true, domain.DateOf(day)).
		Order("id").
		Find(&items).Error
	return items, translateError(err, "item", "expiry date", day.Format(time.DateOnly))
}

func (r *GormItemRepository) UpdateStock(ctx context.Context, id uint, stock int) error {
	result := r.db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", id).Update("current_stock", stock)
	if result.Error != nil {
		return translateError(result.Error, "item", "id", id)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFound("item", "id", id)
	}
	return nil
}

func (r *GormItemRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&domain.Item{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return translateError(result.Error, "item", "id", id)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFound("item", "id", id)
	}
	return nil
}

// GormOrderRepository implements domain.OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_lines.id")
	})
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Create(order).Error
	return translateError(err, "order", "order number", order.OrderNumber)
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := preloadLines(r.db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, translateError(err, "order", "id", id)
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := preloadLines(forUpdate(r.db.WithContext(ctx))).First(&order, id).Error; err != nil {
		return nil, translateError(err, "order", "id", id)
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var order domain.Order
	err := preloadLines(r.db.WithContext(ctx)).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, translateError(err, "order", "order number", orderNumber)
	}
	return &order, nil
}

func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("order_number = ?", orderNumber).Count(&count).Error
	if err != nil {
		return false, translateError(err, "order", "order number", orderNumber)
	}
	return count > 0, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	q := preloadLines(r.db.WithContext(ctx))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("order_type = ?", filter.Type)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var orders []domain.Order
	err := q.Order("id DESC").Offset(filter.Offset).Find(&orders).Error
	return orders, translateError(err, "order", "filter", filter)
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return translateError(result.Error, "order", "id", id)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFound("order", "id", id)
	}
	return nil
}

// GormTransactionRepository implements domain.TransactionRepository
type GormTransactionRepository struct {
	db *gorm.DB
}

func (r *GormTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	err := r.db.WithContext(ctx).Create(tx).Error
	if tx.SourceEventID != nil {
		return translateError(err, "transaction", "source event id", *tx.SourceEventID)
	}
	return translateError(err, "transaction", "item id", tx.ItemID)
}

func (r *GormTransactionRepository) FindBySourceEventID(ctx context.Context, eventID string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.WithContext(ctx).Where("source_event_id = ?", eventID).First(&tx).Error
	if err != nil {
		return nil, translateError(err, "transaction", "source event id", eventID)
	}
	return &tx, nil
}

func (r *GormTransactionRepository) FindByItemID(ctx context.Context, itemID uint) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("id DESC").Find(&txs).Error
	return txs, translateError(err, "transaction", "item id", itemID)
}

func (r *GormTransactionRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Offset(offset).Find(&txs).Error
	return txs, translateError(err, "transaction", "page", offset)
}

// GormAlertRepository implements domain.AlertRepository
type GormAlertRepository struct {
	db *gorm.DB
}

// CreateActive relies on the partial unique index so that concurrent
// generator runs cannot both insert an ACTIVE alert.
func (r *GormAlertRepository) CreateActive(ctx context.Context, alert *domain.StockAlert) (bool, error) {
	alert.Status = domain.AlertStatusActive
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(alert)
	if result.Error != nil {
		return false, translateError(result.Error, "alert", "item id", alert.ItemID)
	}
	return result.RowsAffected > 0, nil
}

func (r *GormAlertRepository) FindByID(ctx context.Context, id uint) (*domain.StockAlert, error) {
	var alert domain.StockAlert
	if err := r.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		return nil, translateError(err, "alert", "id", id)
	}
	return &alert, nil
}

func (r *GormAlertRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.StockAlert, error) {
	var alert domain.StockAlert
	if err := forUpdate(r.db.WithContext(ctx)).First(&alert, id).Error; err != nil {
		return nil, translateError(err, "alert", "id", id)
	}
	return &alert, nil
}

func (r *GormAlertRepository) FindByStatusAndType(ctx context.Context, status domain.AlertStatus, alertType domain.AlertType) ([]domain.StockAlert, error) {
	return r.Find(ctx, domain.AlertFilter{Status: status, Type: alertType})
}

func (r *GormAlertRepository) Find(ctx context.Context, filter domain.AlertFilter) ([]domain.StockAlert, error) {
	q := r.db.WithContext(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("alert_type = ?", filter.Type)
	}
	if filter.ItemID != 0 {
		q = q.Where("item_id = ?", filter.ItemID)
	}

	var alerts []domain.StockAlert
	err := q.Order("id DESC").Find(&alerts).Error
	return alerts, translateError(err, "alert", "filter", filter)
}

func (r *GormAlertRepository) Update(ctx context.Context, alert *domain.StockAlert) error {
	err := r.db.WithContext(ctx).Save(alert).Error
	return translateError(err, "alert", "id", alert.ID)
}

func (r *GormAlertRepository) CountByStatusAndType(ctx context.Context) ([]domain.AlertCount, error) {
	var counts []domain.AlertCount
	err := r.db.WithContext(ctx).
		Model(&domain.StockAlert{}).
		Select("status, alert_type, COUNT(*) AS count").
		Group("status, alert_type").
		Order("status, alert_type").
		Scan(&counts).Error
	return counts, translateError(err, "alert", "stats", "status, alert_type")
}
