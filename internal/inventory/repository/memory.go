package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

var errReadOnly = domain.NewInternal("write attempted in a read-only view", nil)

// MemoryStore is an in-process arena store. Units of work are serialized by a
// mutex and run against a private copy that replaces the committed state only
// when the work succeeds.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
	clock domain.Clock
}

type memoryState struct {
	items        map[uint]domain.Item
	orders       map[uint]domain.Order
	transactions map[uint]domain.Transaction
	alerts       map[uint]domain.StockAlert

	nextItemID  uint
	nextOrderID uint
	nextLineID  uint
	nextTxID    uint
	nextAlertID uint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(clock domain.Clock) *MemoryStore {
	return &MemoryStore{
		state: &memoryState{
			items:        make(map[uint]domain.Item),
			orders:       make(map[uint]domain.Order),
			transactions: make(map[uint]domain.Transaction),
			alerts:       make(map[uint]domain.StockAlert),
		},
		clock: clock,
	}
}

// Do runs fn against a copy of the committed state and commits it if fn succeeds
func (s *MemoryStore) Do(ctx context.Context, fn func(ctx context.Context, store domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(ctx, &memoryTx{state: work, clock: s.clock}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// View runs fn against the committed state. Writes fail.
func (s *MemoryStore) View(ctx context.Context, fn func(ctx context.Context, store domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, &memoryTx{state: s.state, clock: s.clock, readOnly: true})
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (st *memoryState) clone() *memoryState {
	c := *st
	c.items = make(map[uint]domain.Item, len(st.items))
	for id, item := range st.items {
		c.items[id] = item
	}
	c.orders = make(map[uint]domain.Order, len(st.orders))
	for id, order := range st.orders {
		c.orders[id] = order
	}
	c.transactions = make(map[uint]domain.Transaction, len(st.transactions))
	for id, tx := range st.transactions {
		c.transactions[id] = tx
	}
	c.alerts = make(map[uint]domain.StockAlert, len(st.alerts))
	for id, alert := range st.alerts {
		c.alerts[id] = alert
	}
	return &c
}

// memoryTx implements domain.Store over one state snapshot
type memoryTx struct {
	state    *memoryState
	clock    domain.Clock
	readOnly bool
}

func (t *memoryTx) Items() domain.ItemRepository               { return memoryItems{t} }
func (t *memoryTx) Orders() domain.OrderRepository             { return memoryOrders{t} }
func (t *memoryTx) Transactions() domain.TransactionRepository { return memoryTransactions{t} }
func (t *memoryTx) Alerts() domain.AlertRepository             { return memoryAlerts{t} }

func (t *memoryTx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// Items

type memoryItems struct{ t *memoryTx }

func (r memoryItems) Create(ctx context.Context, item *domain.Item) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	for _, existing := range r.t.state.items {
		if existing.SKU == item.SKU {
			return domain.NewDuplicateKey("item", "sku", item.SKU)
		}
	}
	if item.CurrentStock < 0 {
		return domain.NewInvalidState("stock of item %s cannot be negative", item.SKU)
	}

	now := r.t.clock.Now()
	r.t.state.nextItemID++
	item.ID = r.t.state.nextItemID
	item.CreatedAt = now
	item.UpdatedAt = now
	r.t.state.items[item.ID] = *item
	return nil
}

func (r memoryItems) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	item, ok := r.t.state.items[id]
	if !ok {
		return nil, domain.NewNotFound("item", "id", id)
	}
	return &item, nil
}

func (r memoryItems) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Item, error) {
	return r.FindByID(ctx, id)
}

func (r memoryItems) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	for _, item := range r.t.state.items {
		if item.SKU == sku {
			return &item, nil
		}
	}
	return nil, domain.NewNotFound("item", "sku", sku)
}

func (r memoryItems) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r memoryItems) filter(keep func(domain.Item) bool) []domain.Item {
	items := make([]domain.Item, 0)
	for _, item := range r.t.state.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r memoryItems) FindAll(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	return page(r.filter(func(domain.Item) bool { return true }), limit, offset), nil
}

func (r memoryItems) FindLowStock(ctx context.Context) ([]domain.Item, error) {
	return r.filter(func(item domain.Item) bool {
		return item.Active && item.IsLowStock()
	}), nil
}

func (r memoryItems) FindOutOfStock(ctx context.Context) ([]domain.Item, error) {
	return r.filter(func(item domain.Item) bool {
		return item.Active && item.CurrentStock == 0
	}), nil
}

func (r memoryItems) FindExpiringBefore(ctx context.Context, day time.Time) ([]domain.Item, error) {
	return r.filter(func(item domain.Item) bool {
		return item.Active && item.ExpiresOnOrBefore(day)
	}), nil
}

func (r memoryItems) UpdateStock(ctx context.Context, id uint, stock int) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	item, ok := r.t.state.items[id]
	if !ok {
		return domain.NewNotFound("item", "id", id)
	}
	if stock < 0 {
		return domain.NewInvalidState("stock of item %d cannot be set to %d", id, stock)
	}
	item.CurrentStock = stock
	item.UpdatedAt = r.t.clock.Now()
	r.t.state.items[id] = item
	return nil
}

func (r memoryItems) Deactivate(ctx context.Context, id uint) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	item, ok := r.t.state.items[id]
	if !ok {
		return domain.NewNotFound("item", "id", id)
	}
	item.Active = false
	item.UpdatedAt = r.t.clock.Now()
	r.t.state.items[id] = item
	return nil
}

// Orders

type memoryOrders struct{ t *memoryTx }

func copyOrder(order domain.Order) *domain.Order {
	order.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &order
}

func (r memoryOrders) Create(ctx context.Context, order *domain.Order) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	for _, existing := range r.t.state.orders {
		if existing.OrderNumber == order.OrderNumber {
			return domain.NewDuplicateKey("order", "order number", order.OrderNumber)
		}
	}

	now := r.t.clock.Now()
	r.t.state.nextOrderID++
	order.ID = r.t.state.nextOrderID
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Lines {
		r.t.state.nextLineID++
		order.Lines[i].ID = r.t.state.nextLineID
		order.Lines[i].OrderID = order.ID
	}
	r.t.state.orders[order.ID] = *copyOrder(*order)
	return nil
}

func (r memoryOrders) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	order, ok := r.t.state.orders[id]
	if !ok {
		return nil, domain.NewNotFound("order", "id", id)
	}
	return copyOrder(order), nil
}

func (r memoryOrders) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r memoryOrders) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	for _, order := range r.t.state.orders {
		if order.OrderNumber == orderNumber {
			return copyOrder(order), nil
		}
	}
	return nil, domain.NewNotFound("order", "order number", orderNumber)
}

func (r memoryOrders) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	_, err := r.FindByOrderNumber(ctx, orderNumber)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r memoryOrders) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	for _, order := range r.t.state.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.Type != "" && order.OrderType != filter.Type {
			continue
		}
		orders = append(orders, *copyOrder(order))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return page(orders, filter.Limit, filter.Offset), nil
}

func (r memoryOrders) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	order, ok := r.t.state.orders[id]
	if !ok {
		return domain.NewNotFound("order", "id", id)
	}
	order.Status = status
	order.UpdatedAt = r.t.clock.Now()
	r.t.state.orders[id] = order
	return nil
}

// Transactions

type memoryTransactions struct{ t *memoryTx }

func (r memoryTransactions) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, ok := r.t.state.items[tx.ItemID]; !ok {
		return domain.NewNotFound("item", "id", tx.ItemID)
	}
	if tx.SourceEventID != nil {
		if _, err := r.FindBySourceEventID(ctx, *tx.SourceEventID); err == nil {
			return domain.NewDuplicateKey("transaction", "source event id", *tx.SourceEventID)
		}
	}
	r.t.state.nextTxID++
	tx.ID = r.t.state.nextTxID
	tx.CreatedAt = r.t.clock.Now()
	r.t.state.transactions[tx.ID] = *tx
	return nil
}

func (r memoryTransactions) list(keep func(domain.Transaction) bool) []domain.Transaction {
	txs := make([]domain.Transaction, 0)
	for _, tx := range r.t.state.transactions {
		if keep(tx) {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID > txs[j].ID })
	return txs
}

func (r memoryTransactions) FindByItemID(ctx context.Context, itemID uint) ([]domain.Transaction, error) {
	return r.list(func(tx domain.Transaction) bool { return tx.ItemID == itemID }), nil
}

func (r memoryTransactions) FindBySourceEventID(ctx context.Context, eventID string) (*domain.Transaction, error) {
	for _, tx := range r.t.state.transactions {
		if tx.SourceEventID != nil && *tx.SourceEventID == eventID {
			return &tx, nil
		}
	}
	return nil, domain.NewNotFound("transaction", "source event id", eventID)
}

func (r memoryTransactions) FindAll(ctx context.Context, limit, offset int) ([]domain.Transaction, error) {
	return page(r.list(func(domain.Transaction) bool { return true }), limit, offset), nil
}

// Alerts

type memoryAlerts struct{ t *memoryTx }

func (r memoryAlerts) CreateActive(ctx context.Context, alert *domain.StockAlert) (bool, error) {
	if err := r.t.writable(); err != nil {
		return false, err
	}
	for _, existing := range r.t.state.alerts {
		if existing.ItemID == alert.ItemID && existing.AlertType == alert.AlertType && existing.IsActive() {
			return false, nil
		}
	}

	r.t.state.nextAlertID++
	alert.ID = r.t.state.nextAlertID
	alert.Status = domain.AlertStatusActive
	alert.CreatedAt = r.t.clock.Now()
	r.t.state.alerts[alert.ID] = *alert
	return true, nil
}

func (r memoryAlerts) FindByID(ctx context.Context, id uint) (*domain.StockAlert, error) {
	alert, ok := r.t.state.alerts[id]
	if !ok {
		return nil, domain.NewNotFound("alert", "id", id)
	}
	return &alert, nil
}

func (r memoryAlerts) FindByIDForUpdate(ctx context.Context, id uint) (*domain.StockAlert, error) {
	return r.FindByID(ctx, id)
}

func (r memoryAlerts) FindByStatusAndType(ctx context.Context, status domain.AlertStatus, alertType domain.AlertType) ([]domain.StockAlert, error) {
	return r.Find(ctx, domain.AlertFilter{Status: status, Type: alertType})
}

func (r memoryAlerts) Find(ctx context.Context, filter domain.AlertFilter) ([]domain.StockAlert, error) {
	alerts := make([]domain.StockAlert, 0)
	for _, alert := range r.t.state.alerts {
		if filter.Status != "" && alert.Status != filter.Status {
			continue
		}
		if filter.Type != "" && alert.AlertType != filter.Type {
			continue
		}
		if filter.ItemID != 0 && alert.ItemID != filter.ItemID {
			continue
		}
		alerts = append(alerts, alert)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID > alerts[j].ID })
	return alerts, nil
}

func (r memoryAlerts) Update(ctx context.Context, alert *domain.StockAlert) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, ok := r.t.state.alerts[alert.ID]; !ok {
		return domain.NewNotFound("alert", "id", alert.ID)
	}
	r.t.state.alerts[alert.ID] = *alert
	return nil
}

func (r memoryAlerts) CountByStatusAndType(ctx context.Context) ([]domain.AlertCount, error) {
	type key struct {
		status    domain.AlertStatus
		alertType domain.AlertType
	}
	counts := make(map[key]int64)
	for _, alert := range r.t.state.alerts {
		counts[key{alert.Status, alert.AlertType}]++
	}

	result := make([]domain.AlertCount, 0, len(counts))
	for _, status := range domain.AlertStatuses {
		for _, alertType := range domain.AlertTypes {
			if n := counts[key{status, alertType}]; n > 0 {
				result = append(result, domain.AlertCount{Status: status, AlertType: alertType, Count: n})
			}
		}
	}
	return result, nil
}
