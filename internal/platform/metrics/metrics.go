// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "conference"

// Metrics contains every collector the server reports.
type Metrics struct {
	registry *prometheus.Registry

	// Data loader metrics
	LoaderBatches   *prometheus.CounterVec
	LoaderBatchSize *prometheus.HistogramVec
	LoaderCacheHits *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Domain metrics
	EventsPublished *prometheus.CounterVec
	UserErrors      *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		LoaderBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dataloader",
				Name:      "batches_total",
				Help:      "Total number of batched store fetches",
			},
			[]string{"loader"},
		),

		LoaderBatchSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "dataloader",
				Name:      "batch_size",
				Help:      "Number of keys per batched store fetch",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"loader"},
		),

		LoaderCacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dataloader",
				Name:      "cache_hits_total",
				Help:      "Total number of loads answered from the request cache",
			},
			[]string{"loader"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Total number of subscription events published",
			},
			[]string{"topic"},
		),

		UserErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mutations",
				Name:      "user_errors_total",
				Help:      "Total number of user errors returned in mutation payloads",
			},
			[]string{"code"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.LoaderBatches,
		m.LoaderBatchSize,
		m.LoaderCacheHits,
		m.HTTPRequests,
		m.HTTPDuration,
		m.EventsPublished,
		m.UserErrors,
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// BatchDispatched implements dataloader.Observer.
func (m *Metrics) BatchDispatched(loader string, size int) {
	m.LoaderBatches.WithLabelValues(loader).Inc()
	m.LoaderBatchSize.WithLabelValues(loader).Observe(float64(size))
}

// CacheHit implements dataloader.Observer.
func (m *Metrics) CacheHit(loader string) {
	m.LoaderCacheHits.WithLabelValues(loader).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// EventPublished counts an event published on topic. Per-session check-in topics
// are folded into one label value to bound cardinality.
func (m *Metrics) EventPublished(topic string) {
	m.EventsPublished.WithLabelValues(topicLabel(topic)).Inc()
}

// UserError counts a user error code returned by a mutation.
func (m *Metrics) UserError(code string) {
	m.UserErrors.WithLabelValues(code).Inc()
}

func topicLabel(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '_' {
			if _, err := strconv.Atoi(topic[i+1:]); err == nil {
				return topic[:i]
			}
			break
		}
	}
	return topic
}
