// Package metrics provides Prometheus metrics for sequence resolution and the quiz API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service metrics. It satisfies resolver.Observer.
type Recorder struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	organismAttempts    *prometheus.CounterVec
	resolutions         *prometheus.CounterVec
	quizAnswers         *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.histogramBuckets = buckets
		}
	}
}

// WithRegistry sets the registry metrics are registered on.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// New creates a Recorder on a fresh registry unless WithRegistry is given.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace:        "vibe_dna",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(r.registry)

	r.organismAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "resolver",
		Name:      "organism_attempts_total",
		Help:      "Identifier and sequence lookups per organism, by outcome",
	}, []string{"organism", "outcome"})

	r.resolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "resolver",
		Name:      "resolutions_total",
		Help:      "Completed resolutions by source (live, fallback, failed)",
	}, []string{"source"})

	r.quizAnswers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "quiz",
		Name:      "answers_total",
		Help:      "Submitted quiz answers by kind and correctness",
	}, []string{"kind", "correct"})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	r.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   r.histogramBuckets,
	}, []string{"route", "method"})

	return r
}

// ObserveAttempt counts one organism attempt.
func (r *Recorder) ObserveAttempt(organism, outcome string) {
	r.organismAttempts.WithLabelValues(organism, outcome).Inc()
}

// ObserveResolution counts one finished resolution.
func (r *Recorder) ObserveResolution(source string) {
	r.resolutions.WithLabelValues(source).Inc()
}

// ObserveAnswer counts one quiz answer. kind is "sequence" or "trivia".
func (r *Recorder) ObserveAnswer(kind string, correct bool) {
	r.quizAnswers.WithLabelValues(kind, strconv.FormatBool(correct)).Inc()
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Registry returns the registry backing this Recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
