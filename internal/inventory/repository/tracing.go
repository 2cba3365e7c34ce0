package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracedStore is a unit of work whose callers can also check store health
type TracedStore interface {
	domain.UnitOfWork
	Ping(ctx context.Context) error
}

// StoreWithTracing wraps a store with OpenTelemetry spans around units of work
// and the stock-critical repository calls.
type StoreWithTracing struct {
	next TracedStore
}

// NewStoreWithTracing creates a new store with tracing
func NewStoreWithTracing(next TracedStore) *StoreWithTracing {
	return &StoreWithTracing{next: next}
}

// Do with tracing
func (s *StoreWithTracing) Do(ctx context.Context, fn func(ctx context.Context, store domain.Store) error) error {
	ctx, span := tracer.Start(ctx, "repository.UnitOfWork")
	defer span.End()

	err := s.next.Do(ctx, func(ctx context.Context, store domain.Store) error {
		return fn(ctx, tracingStore{store})
	})
	addErrorToSpan(span, err)
	return err
}

// View with tracing
func (s *StoreWithTracing) View(ctx context.Context, fn func(ctx context.Context, store domain.Store) error) error {
	ctx, span := tracer.Start(ctx, "repository.View")
	defer span.End()

	err := s.next.View(ctx, fn)
	addErrorToSpan(span, err)
	return err
}

// Ping checks the wrapped store
func (s *StoreWithTracing) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

type tracingStore struct {
	domain.Store
}

func (s tracingStore) Items() domain.ItemRepository {
	return tracingItems{s.Store.Items()}
}

func (s tracingStore) Orders() domain.OrderRepository {
	return tracingOrders{s.Store.Orders()}
}

func (s tracingStore) Alerts() domain.AlertRepository {
	return tracingAlerts{s.Store.Alerts()}
}

type tracingItems struct {
	domain.ItemRepository
}

// FindByIDForUpdate with tracing
func (r tracingItems) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.Items.FindByIDForUpdate",
		trace.WithAttributes(
			attribute.Int("item.id", int(id)),
		),
	)
	defer span.End()

	item, err := r.ItemRepository.FindByIDForUpdate(ctx, id)
	if err != nil {
		addErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("item.sku", item.SKU),
		attribute.Int("item.current_stock", item.CurrentStock),
	)
	return item, nil
}

// UpdateStock with tracing
func (r tracingItems) UpdateStock(ctx context.Context, id uint, stock int) error {
	ctx, span := tracer.Start(ctx, "repository.Items.UpdateStock",
		trace.WithAttributes(
			attribute.Int("item.id", int(id)),
			attribute.Int("stock.new_value", stock),
		),
	)
	defer span.End()

	err := r.ItemRepository.UpdateStock(ctx, id, stock)
	addErrorToSpan(span, err)
	return err
}

type tracingOrders struct {
	domain.OrderRepository
}

// Create with tracing
func (r tracingOrders) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := tracer.Start(ctx, "repository.Orders.Create",
		trace.WithAttributes(
			attribute.String("order.number", order.OrderNumber),
			attribute.String("order.type", string(order.OrderType)),
			attribute.Int("order.lines", len(order.Lines)),
		),
	)
	defer span.End()

	err := r.OrderRepository.Create(ctx, order)
	if err != nil {
		addErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("order.id", int(order.ID)))
	return nil
}

// FindByIDForUpdate with tracing
func (r tracingOrders) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "repository.Orders.FindByIDForUpdate",
		trace.WithAttributes(
			attribute.Int("order.id", int(id)),
		),
	)
	defer span.End()

	order, err := r.OrderRepository.FindByIDForUpdate(ctx, id)
	if err != nil {
		addErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", string(order.Status)))
	return order, nil
}

type tracingAlerts struct {
	domain.AlertRepository
}

// CreateActive with tracing
func (r tracingAlerts) CreateActive(ctx context.Context, alert *domain.StockAlert) (bool, error) {
	ctx, span := tracer.Start(ctx, "repository.Alerts.CreateActive",
		trace.WithAttributes(
			attribute.Int("alert.item_id", int(alert.ItemID)),
			attribute.String("alert.type", string(alert.AlertType)),
		),
	)
	defer span.End()

	created, err := r.AlertRepository.CreateActive(ctx, alert)
	if err != nil {
		addErrorToSpan(span, err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("alert.created", created))
	return created, nil
}

// addErrorToSpan records err and its domain kind on span
func addErrorToSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", string(domain.KindOf(err))))
		span.SetStatus(codes.Error, err.Error())
	}
}
