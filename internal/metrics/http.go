// Package metrics holds the Prometheus collectors of the service. Collectors
// register with the default registry served on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestLabels = []string{"method", "endpoint", "status_code"}
	sizeLabels    = []string{"method", "endpoint"}

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, endpoint and status code",
	}, requestLabels)

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, requestLabels)

	httpRequestBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_size_bytes",
		Help:    "HTTP request body size in bytes",
		Buckets: prometheus.ExponentialBuckets(128, 4, 6),
	}, sizeLabels)

	httpResponseBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response body size in bytes",
		Buckets: prometheus.ExponentialBuckets(128, 4, 7),
	}, sizeLabels)
)

// PrometheusMiddleware records count, latency and body sizes of every request
// except scrapes of /metrics itself.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		endpoint := EndpointLabel(r.URL.Path)
		if r.ContentLength > 0 {
			httpRequestBytes.WithLabelValues(r.Method, endpoint).Observe(float64(r.ContentLength))
		}

		m := httpsnoop.CaptureMetrics(next, w, r)

		code := strconv.Itoa(m.Code)
		httpRequests.WithLabelValues(r.Method, endpoint, code).Inc()
		httpLatency.WithLabelValues(r.Method, endpoint, code).Observe(m.Duration.Seconds())
		httpResponseBytes.WithLabelValues(r.Method, endpoint).Observe(float64(m.Written))
	})
}

// EndpointLabel collapses message identifiers so the endpoint label stays low-cardinality.
func EndpointLabel(path string) string {
	const prefix = "/api/contact/"
	if rest, ok := strings.CutPrefix(path, prefix); ok && rest != "" {
		return prefix + "{id}"
	}
	return path
}
