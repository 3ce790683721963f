// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bagstore"

// Metrics holds Prometheus collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge

	CartAdds          *prometheus.CounterVec
	Checkouts         *prometheus.CounterVec
	OrderValue        prometheus.Histogram
	StockDecrements   prometheus.Counter
	OutboxPublished   prometheus.Counter
	OutboxFailed      prometheus.Counter
	FulfillmentEvents *prometheus.CounterVec
}

// New creates the collectors on their own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
		CartAdds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "adds_total",
			Help:      "Add-to-cart attempts by outcome",
		}, []string{"outcome"}),
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "commits_total",
			Help:      "Checkout attempts by outcome",
		}, []string{"outcome"}),
		OrderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "order_value",
			Help:      "Total price of committed orders",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		}),
		StockDecrements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "units_sold_total",
			Help:      "Units removed from stock by committed orders",
		}),
		OutboxPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbox events delivered to the broker",
		}),
		OutboxFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "failed_total",
			Help:      "Outbox delivery attempts that failed",
		}),
		FulfillmentEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fulfillment",
			Name:      "events_total",
			Help:      "Fulfillment events consumed by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.requestsInFlight,
		m.CartAdds,
		m.Checkouts,
		m.OrderValue,
		m.StockDecrements,
		m.OutboxPublished,
		m.OutboxFailed,
		m.FulfillmentEvents,
	)
	return m
}

// Registry exposes the registry for tests and custom handlers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RequestStarted tracks an in-flight request; call the returned func when done
func (m *Metrics) RequestStarted() func() {
	if m == nil {
		return func() {}
	}
	m.requestsInFlight.Inc()
	return m.requestsInFlight.Dec
}

// ObserveRequest records one finished HTTP request. path must be the route
// template, not the raw URL.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestsTotal.WithLabelValues(method, path, code).Inc()
	m.requestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// CartAdd records an add-to-cart outcome
func (m *Metrics) CartAdd(outcome string) {
	if m == nil {
		return
	}
	m.CartAdds.WithLabelValues(outcome).Inc()
}

// Checkout records a checkout outcome
func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
}

// OrderCommitted records a committed order's value and units sold
func (m *Metrics) OrderCommitted(total int64, units int) {
	if m == nil {
		return
	}
	m.OrderValue.Observe(float64(total))
	m.StockDecrements.Add(float64(units))
}

// OutboxDelivered counts delivered and failed outbox events
func (m *Metrics) OutboxDelivered(published, failed int) {
	if m == nil {
		return
	}
	m.OutboxPublished.Add(float64(published))
	m.OutboxFailed.Add(float64(failed))
}

// Fulfillment records a consumed fulfillment event
func (m *Metrics) Fulfillment(result string) {
	if m == nil {
		return
	}
	m.FulfillmentEvents.WithLabelValues(result).Inc()
}
