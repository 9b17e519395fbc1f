package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the prometheus collectors used across the service.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbPoolOpen      *prometheus.GaugeVec
	dbPoolInUse     *prometheus.GaugeVec
	dbPoolIdle      *prometheus.GaugeVec

	notificationsTotal *prometheus.CounterVec
}

// New registers and returns the collectors on the default registry.
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by method, path and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration by method and path.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration by operation.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation"}),
		dbPoolOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_open_connections",
			Help: "Open connections in the pool.",
		}, []string{"service"}),
		dbPoolInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections",
			Help: "Connections currently in use.",
		}, []string{"service"}),
		dbPoolIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections",
			Help: "Idle connections in the pool.",
		}, []string{"service"}),
		notificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_published_total",
			Help:        "Outbound notification events by type and outcome.",
			ConstLabels: constLabels,
		}, []string{"event", "outcome"}),
	}
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery records one database query.
func (m *Metrics) ObserveDBQuery(service, operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// SetDBPoolStats exports a snapshot of the connection pool.
func (m *Metrics) SetDBPoolStats(service string, stats sql.DBStats) {
	m.dbPoolOpen.WithLabelValues(service).Set(float64(stats.OpenConnections))
	m.dbPoolInUse.WithLabelValues(service).Set(float64(stats.InUse))
	m.dbPoolIdle.WithLabelValues(service).Set(float64(stats.Idle))
}

// IncNotification counts one notification publish attempt.
func (m *Metrics) IncNotification(event, outcome string) {
	m.notificationsTotal.WithLabelValues(event, outcome).Inc()
}
