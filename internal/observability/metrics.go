package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartchecklist_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "smartchecklist_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ItemsDeleted counts items removed by subtree deletions per strategy.
	ItemsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartchecklist_items_deleted_total",
		Help: "Total number of items removed by subtree deletion",
	}, []string{"strategy"})

	// ForestSize records how many items a checklist tree contained when built.
	ForestSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartchecklist_forest_items",
		Help:    "Number of items per assembled checklist tree",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// DanglingItems counts items left out of a tree because their parent was missing.
	DanglingItems = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smartchecklist_dangling_items_total",
		Help: "Total number of items dropped from trees due to a missing parent",
	})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smartchecklist_cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})
)

// DatabaseMetrics records query latency for one repository.
type DatabaseMetrics struct {
	table string
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance for table.
func NewDatabaseMetrics(table string) *DatabaseMetrics {
	return &DatabaseMetrics{table: table}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}
