package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartAdd("ok")
		m.Checkout("ok")
		m.OrderCommitted(100, 2)
		m.OutboxDelivered(1, 0)
		m.Fulfillment("applied")
		m.ObserveRequest("GET", "/x", 200, time.Millisecond)
		m.RequestStarted()()
	})
}

func TestCounters(t *testing.T) {
	m := New()

	m.Checkout("committed")
	m.Checkout("committed")
	m.Checkout("out_of_stock")
	m.OrderCommitted(300, 3)
	m.OutboxDelivered(2, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("out_of_stock")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StockDecrements))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxPublished))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxFailed))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/bags", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `bagstore_http_requests_total{method="GET",path="/api/v1/bags",status="200"} 1`)
}
