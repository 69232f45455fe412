// Package metrics expone metricas Prometheus del pipeline y de la capa HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Option configura el Recorder.
type Option func(*Recorder)

// WithNamespace cambia el namespace de todas las metricas.
func WithNamespace(ns string) Option {
	return func(r *Recorder) { r.namespace = ns }
}

// WithRegistry usa un registry propio (util en tests).
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) { r.registry = reg }
}

// WithHistogramBuckets reemplaza los buckets de latencia (en segundos).
func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) { r.buckets = buckets }
}

// Recorder agrupa las metricas del servicio. Un *Recorder nil no registra nada.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry
	buckets   []float64

	stageDuration *prometheus.HistogramVec
	failures      *prometheus.CounterVec
	completions   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "copilot",
		buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(r.registry)
	r.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Latency of each pipeline stage",
		Buckets:   r.buckets,
	}, []string{"operation", "stage"})

	r.failures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "failures_total",
		Help:      "Failed operations by error kind",
	}, []string{"operation", "kind"})

	r.completions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "pipeline",
		Name:      "completions_total",
		Help:      "Operations that returned generated text",
	}, []string{"operation"})

	r.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	r.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   r.buckets,
	}, []string{"method", "route"})

	return r
}

// ObserveStage registra la duracion de una etapa.
func (r *Recorder) ObserveStage(operation, stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(operation, stage).Observe(d.Seconds())
}

// Failure cuenta una operacion fallida.
func (r *Recorder) Failure(operation, kind string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(operation, kind).Inc()
}

// Completed cuenta una operacion exitosa.
func (r *Recorder) Completed(operation string) {
	if r == nil {
		return
	}
	r.completions.WithLabelValues(operation).Inc()
}

// ObserveHTTP registra una peticion HTTP ya respondida.
func (r *Recorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler sirve el endpoint /metrics.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry devuelve el registry subyacente.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
