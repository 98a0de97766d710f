package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal     *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
	DBConnectionsOpen  prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBConnectionsInUse prometheus.Gauge

	// Бизнес-метрики
	AppointmentsClaimed  *prometheus.CounterVec
	SlotConflictsTotal   prometheus.Counter
	SlotCacheHitsTotal   prometheus.Counter
	SlotCacheMissesTotal prometheus.Counter
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		DBConnectionsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}),

		DBConnectionsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}),

		DBConnectionsInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}),

		AppointmentsClaimed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_claimed_total",
			Help:        "Total number of appointment claim attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		SlotConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "slot_claim_conflicts_total",
			Help:        "Total number of claims that lost the race for a slot",
			ConstLabels: constLabels,
		}),

		SlotCacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "slot_cache_hits_total",
			Help:        "Total number of available-slots cache hits",
			ConstLabels: constLabels,
		}),

		SlotCacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "slot_cache_misses_total",
			Help:        "Total number of available-slots cache misses",
			ConstLabels: constLabels,
		}),
	}
}
