package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/api/contact/{id}", EndpointLabel("/api/contact/3f1c2d0e-8a5b-4c1e-9d7a-2b6f0e4c8a91"))
	assert.Equal(t, "/api/contact/", EndpointLabel("/api/contact/"))
	assert.Equal(t, "/api/contact", EndpointLabel("/api/contact"))
	assert.Equal(t, "/api/status", EndpointLabel("/api/status"))
}

func TestPrometheusMiddlewareCountsRequests(t *testing.T) {
	handler := PrometheusMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND"}`))
	}))

	counter := httpRequests.WithLabelValues(http.MethodGet, "/api/contact/{id}", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contact/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `{"code":"NOT_FOUND"}`, rec.Body.String())
}

func TestPrometheusMiddlewareSkipsScrapes(t *testing.T) {
	handler := PrometheusMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	counter := httpRequests.WithLabelValues(http.MethodGet, "/metrics", "200")
	before := testutil.ToFloat64(counter)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, before, testutil.ToFloat64(counter))
}

func TestRecordNotification(t *testing.T) {
	sent := testutil.ToFloat64(contactNotifications.WithLabelValues("sent"))
	failed := testutil.ToFloat64(contactNotifications.WithLabelValues("failed"))

	RecordNotification(nil)
	RecordNotification(errors.New("smtp: 535 authentication failed"))

	assert.Equal(t, sent+1, testutil.ToFloat64(contactNotifications.WithLabelValues("sent")))
	assert.Equal(t, failed+1, testutil.ToFloat64(contactNotifications.WithLabelValues("failed")))
}

func TestRecordStatusUpdate(t *testing.T) {
	read := testutil.ToFloat64(contactStatusUpdates.WithLabelValues("read"))
	replied := testutil.ToFloat64(contactStatusUpdates.WithLabelValues("replied"))

	RecordStatusUpdate(true, false)
	RecordStatusUpdate(true, true)

	assert.Equal(t, read+2, testutil.ToFloat64(contactStatusUpdates.WithLabelValues("read")))
	assert.Equal(t, replied+1, testutil.ToFloat64(contactStatusUpdates.WithLabelValues("replied")))
}

func TestDBMetrics(t *testing.T) {
	failed := testutil.ToFloat64(dbQueries.WithLabelValues("contact_get", "error"))
	RecordDBQuery("contact_get", 3*time.Millisecond, errors.New("database is closed"))
	assert.Equal(t, failed+1, testutil.ToFloat64(dbQueries.WithLabelValues("contact_get", "error")))

	UpdateDBConnections(2, 3)
	assert.Equal(t, 2.0, testutil.ToFloat64(dbConnections.WithLabelValues("in_use")))
	assert.Equal(t, 3.0, testutil.ToFloat64(dbConnections.WithLabelValues("idle")))
}
