package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dbConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "db_connections",
		Help: "Database pool connections by state",
	}, []string{"state"}) // in_use, idle

	dbQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "db_queries_total",
		Help: "Store operations by operation and outcome",
	}, []string{"operation", "status"})

	dbQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Store operation latency in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"operation"})
)

// RecordDBQuery records one store operation
func RecordDBQuery(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	dbQueries.WithLabelValues(operation, status).Inc()
	dbQueryLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnections publishes the pool's in-use and idle connection counts
func UpdateDBConnections(inUse, idle int) {
	dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	dbConnections.WithLabelValues("idle").Set(float64(idle))
}
