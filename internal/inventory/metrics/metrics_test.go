package metrics

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.StockMutated("order")
		m.MutationRejected("order", domain.ErrInsufficientStock)
		m.OrderEvent(domain.OrderTypeSale, "created")
		m.AlertsCreated([]domain.StockAlert{{AlertType: domain.AlertLowStock}})
		m.SetAlertCounts(nil)
		m.ObserveRequest(http.MethodGet, "/api/items", http.StatusOK, time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.StockMutated("transaction")
	m.StockMutated("transaction")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StockMutations.WithLabelValues("transaction")))

	m.MutationRejected("order", domain.NewInsufficientStock(&domain.Item{Name: "Widget"}, 5))
	m.MutationRejected("order", errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectedMutation.WithLabelValues("order", "INSUFFICIENT_STOCK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectedMutation.WithLabelValues("order", "INTERNAL")))

	m.AlertsCreated([]domain.StockAlert{
		{AlertType: domain.AlertLowStock},
		{AlertType: domain.AlertLowStock},
		{AlertType: domain.AlertExpired},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AlertsGenerated.WithLabelValues("LOW_STOCK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsGenerated.WithLabelValues("EXPIRED")))
}

func TestSetAlertCountsResetsGauge(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SetAlertCounts([]domain.AlertCount{
		{Status: domain.AlertStatusActive, AlertType: domain.AlertLowStock, Count: 3},
		{Status: domain.AlertStatusResolved, AlertType: domain.AlertLowStock, Count: 1},
	})
	assert.Equal(t, 2, testutil.CollectAndCount(m.ActiveAlerts))

	m.SetAlertCounts([]domain.AlertCount{
		{Status: domain.AlertStatusActive, AlertType: domain.AlertLowStock, Count: 2},
	})
	assert.Equal(t, 1, testutil.CollectAndCount(m.ActiveAlerts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActiveAlerts.WithLabelValues("ACTIVE", "LOW_STOCK")))
}
