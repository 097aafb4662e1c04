// Package metrics exposes Prometheus counters for backend traffic, cache
// refreshes and user notifications.
//
// A nil *Recorder is valid and records nothing, so packages can take one
// optionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry and the application's collectors.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	refreshes       *prometheus.CounterVec
	cachedItems     *prometheus.GaugeVec
	notifications   *prometheus.CounterVec
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace overrides the metric namespace ("mentorhub").
func WithNamespace(ns string) Option {
	return func(r *Recorder) {
		if ns != "" {
			r.namespace = ns
		}
	}
}

// WithHistogramBuckets sets latency buckets in seconds.
func WithHistogramBuckets(b []float64) Option {
	return func(r *Recorder) {
		if len(b) > 0 {
			r.buckets = b
		}
	}
}

// WithRegistry registers collectors on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// New builds and registers all collectors.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "mentorhub",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	r.backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Backend API requests by method, route and outcome.",
	}, []string{"method", "route", "outcome"})

	r.backendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Backend API request latency.",
		Buckets:   r.buckets,
	}, []string{"method", "route"})

	r.refreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "cache",
		Name:      "refreshes_total",
		Help:      "Full cache reloads by collection and outcome.",
	}, []string{"collection", "outcome"})

	r.cachedItems = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "cache",
		Name:      "items",
		Help:      "Items currently held in each cached collection.",
	}, []string{"collection"})

	r.notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "ui",
		Name:      "notifications_total",
		Help:      "Notifications shown to the user by kind.",
	}, []string{"kind"})

	r.registry.MustRegister(r.backendRequests, r.backendLatency, r.refreshes, r.cachedItems, r.notifications)
	return r
}

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeStatus   = "status"
	OutcomeError    = "error"
)

// ObserveRequest records one backend call.
func (r *Recorder) ObserveRequest(method, route, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.backendRequests.WithLabelValues(method, route, outcome).Inc()
	r.backendLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// Refreshed records a full reload of collection and its new size.
func (r *Recorder) Refreshed(collection string, size int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.refreshes.WithLabelValues(collection, OutcomeError).Inc()
		return
	}
	r.refreshes.WithLabelValues(collection, OutcomeOK).Inc()
	r.cachedItems.WithLabelValues(collection).Set(float64(size))
}

// Notified records a notification of the given kind.
func (r *Recorder) Notified(kind string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(kind).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
