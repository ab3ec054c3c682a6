package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flockpulse/flockpulse/internal/models"
)

// HTTPCollector exposes Prometheus metrics for inbound HTTP requests.
type HTTPCollector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// NewHTTPCollector constructs a collector with default histograms/counters.
func NewHTTPCollector() (*HTTPCollector, error) {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flockpulse",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for inbound HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flockpulse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"method", "path", "status"})

	if err := registry.Register(requestDuration); err != nil {
		return nil, err
	}

	if err := registry.Register(requestTotal); err != nil {
		return nil, err
	}

	collector := &HTTPCollector{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}

	return collector, nil
}

// Registry exposes the underlying registry so other collectors can share the
// /metrics endpoint.
func (c *HTTPCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *HTTPCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
func (c *HTTPCollector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := r.URL.Path

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// TrackerCollector exposes Prometheus metrics for follower reconciliation.
type TrackerCollector struct {
	fetchTotal     *prometheus.CounterVec
	accountUpdates *prometheus.CounterVec
	followers      *prometheus.GaugeVec
}

// NewTrackerCollector constructs the reconciliation collector, registering
// its metrics on the given registry.
func NewTrackerCollector(registry *prometheus.Registry) (*TrackerCollector, error) {
	fetchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flockpulse",
		Subsystem: "tracker",
		Name:      "fetches_total",
		Help:      "Vendor follower-count fetches, by platform and outcome.",
	}, []string{"platform", "outcome"})

	accountUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flockpulse",
		Subsystem: "tracker",
		Name:      "account_updates_total",
		Help:      "Per-account reconciliation runs, by outcome.",
	}, []string{"outcome"})

	followers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "flockpulse",
		Subsystem: "tracker",
		Name:      "followers",
		Help:      "Latest known follower count per tracked account.",
	}, []string{"platform", "username"})

	for _, c := range []prometheus.Collector{fetchTotal, accountUpdates, followers} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &TrackerCollector{
		fetchTotal:     fetchTotal,
		accountUpdates: accountUpdates,
		followers:      followers,
	}, nil
}

// ObserveFetch records the outcome of one vendor fetch.
func (c *TrackerCollector) ObserveFetch(platform models.Platform, ok bool) {
	c.fetchTotal.WithLabelValues(string(platform), outcomeLabel(ok)).Inc()
}

// ObserveAccountUpdate records the outcome of one per-account reconciliation.
func (c *TrackerCollector) ObserveAccountUpdate(ok bool) {
	c.accountUpdates.WithLabelValues(outcomeLabel(ok)).Inc()
}

// SetFollowers updates the follower gauge for an account.
func (c *TrackerCollector) SetFollowers(platform models.Platform, username string, count int64) {
	c.followers.WithLabelValues(string(platform), username).Set(float64(count))
}

func outcomeLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
