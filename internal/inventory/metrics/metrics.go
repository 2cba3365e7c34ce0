package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/smart-inventory/internal/inventory/domain"
)

// Metrics holds the Prometheus collectors of the inventory service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	StockMutations   *prometheus.CounterVec
	RejectedMutation *prometheus.CounterVec
	Orders           *prometheus.CounterVec
	AlertsGenerated  *prometheus.CounterVec
	ActiveAlerts     *prometheus.GaugeVec
	RequestCounter   *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
	RequestSummary   *prometheus.SummaryVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StockMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_stock_mutations_total",
				Help: "Total number of committed stock mutations",
			},
			[]string{"cause"},
		),
		RejectedMutation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_rejected_mutations_total",
				Help: "Total number of rejected stock mutations",
			},
			[]string{"cause", "kind"},
		),
		Orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_orders_total",
				Help: "Total number of orders by type and outcome",
			},
			[]string{"order_type", "event"},
		),
		AlertsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_alerts_generated_total",
				Help: "Total number of alerts created by the generator",
			},
			[]string{"alert_type"},
		),
		ActiveAlerts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inventory_service_alerts",
				Help: "Number of alerts by status and type",
			},
			[]string{"status", "alert_type"},
		),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_service_requests_total",
				Help: "Total number of requests to inventory service",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_service_request_duration_seconds",
				Help:    "Duration of inventory service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		RequestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "inventory_service_request_duration_summary",
				Help: "Summary of request durations with percentiles",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method", "endpoint"},
		),
	}

	reg.MustRegister(
		m.StockMutations,
		m.RejectedMutation,
		m.Orders,
		m.AlertsGenerated,
		m.ActiveAlerts,
		m.RequestCounter,
		m.RequestLatency,
		m.RequestSummary,
	)
	return m
}

// StockMutated records a committed mutation
func (m *Metrics) StockMutated(cause string) {
	if m == nil {
		return
	}
	m.StockMutations.WithLabelValues(cause).Inc()
}

// MutationRejected records a mutation refused with err
func (m *Metrics) MutationRejected(cause string, err error) {
	if m == nil {
		return
	}
	m.RejectedMutation.WithLabelValues(cause, string(domain.KindOf(err))).Inc()
}

// OrderEvent records an order lifecycle event such as created or cancelled
func (m *Metrics) OrderEvent(orderType domain.OrderType, event string) {
	if m == nil {
		return
	}
	m.Orders.WithLabelValues(string(orderType), event).Inc()
}

// AlertsCreated records newly generated alerts
func (m *Metrics) AlertsCreated(alerts []domain.StockAlert) {
	if m == nil {
		return
	}
	for _, a := range alerts {
		m.AlertsGenerated.WithLabelValues(string(a.AlertType)).Inc()
	}
}

// SetAlertCounts replaces the alert gauge with counts
func (m *Metrics) SetAlertCounts(counts []domain.AlertCount) {
	if m == nil {
		return
	}
	m.ActiveAlerts.Reset()
	for _, c := range counts {
		m.ActiveAlerts.WithLabelValues(string(c.Status), string(c.AlertType)).Set(float64(c.Count))
	}
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.RequestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.RequestSummary.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
