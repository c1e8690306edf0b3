package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-коллекторов сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках
// компоненты получают nil и ничего не записывают.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge

	BookingRequestsTotal  *prometheus.CounterVec
	BookingDecisionsTotal *prometheus.CounterVec
	ChatDeliveriesTotal   *prometheus.CounterVec
	RealtimeSubscriptions prometheus.Gauge
	RealtimeEventsTotal   *prometheus.CounterVec
}

// New регистрирует коллекторы в default registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry регистрирует коллекторы в переданном registry (используется в тестах)
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	ns := sanitize(serviceName)
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation", "status"}),
		DBOpenConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_open_connections",
			Help:      "Number of established connections",
		}),
		DBInUseConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_in_use_connections",
			Help:      "Number of connections currently in use",
		}),
		DBIdleConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_idle_connections",
			Help:      "Number of idle connections",
		}),
		DBWaitCount: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "db_wait_count",
			Help:      "Total number of connections waited for",
		}),
		BookingRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "booking_requests_total",
			Help:      "Booking requests by result",
		}, []string{"result"}),
		BookingDecisionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "booking_decisions_total",
			Help:      "Owner decisions on bookings by decision and result",
		}, []string{"decision", "result"}),
		ChatDeliveriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "chat_deliveries_total",
			Help:      "Chat message deliveries by kind (send/retry) and result",
		}, []string{"kind", "result"}),
		RealtimeSubscriptions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "realtime_subscriptions",
			Help:      "Active realtime change-feed subscriptions",
		}),
		RealtimeEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "realtime_events_total",
			Help:      "Change events dispatched by type",
		}, []string{"type"}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(operation, status).Observe(elapsed.Seconds())
}

func (m *Metrics) IncBookingRequest(result string) {
	if m == nil {
		return
	}
	m.BookingRequestsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) IncBookingDecision(decision, result string) {
	if m == nil {
		return
	}
	m.BookingDecisionsTotal.WithLabelValues(decision, result).Inc()
}

func (m *Metrics) IncChatDelivery(kind, result string) {
	if m == nil {
		return
	}
	m.ChatDeliveriesTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) AddRealtimeSubscriptions(delta float64) {
	if m == nil {
		return
	}
	m.RealtimeSubscriptions.Add(delta)
}

func (m *Metrics) IncRealtimeEvent(eventType string) {
	if m == nil {
		return
	}
	m.RealtimeEventsTotal.WithLabelValues(eventType).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

func sanitize(name string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(strings.ToLower(name))
}
