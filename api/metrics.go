/*
metrics.go - Prometheus instrumentation for the document API

PURPOSE:
  Counts requests, renders and validator runs, and exposes them on
  GET /metrics. Each Metrics value owns its registry so tests can build
  as many handlers as they like without duplicate registration panics.

METRICS:
  xbrl_http_requests_total{route,method,status}
  xbrl_http_request_duration_seconds{route}
  xbrl_documents_rendered_total{kind,format}
  xbrl_document_facts            (histogram of facts per rendered document)
  xbrl_validations_total{result} (ok, failed, disabled)

SEE ALSO:
  - server.go: requestLogger feeds the HTTP metrics
  - handlers.go: Render and validation counters
*/
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/xbrl-engine/validation"
)

type Metrics struct {
	Registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rendered    *prometheus.CounterVec
	facts       prometheus.Histogram
	validations *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbrl_http_requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "xbrl_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		rendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbrl_documents_rendered_total",
			Help: "Instance documents rendered by report kind and format.",
		}, []string{"kind", "format"}),
		facts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "xbrl_document_facts",
			Help:    "Facts per rendered instance document.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xbrl_validations_total",
			Help: "Validator runs by result.",
		}, []string{"result"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.rendered, m.facts, m.validations,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) observeRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRender(kind, format string, facts int) {
	m.rendered.WithLabelValues(kind, format).Inc()
	m.facts.Observe(float64(facts))
}

func (m *Metrics) observeValidation(err error) {
	switch {
	case err == nil:
		m.validations.WithLabelValues("ok").Inc()
	case errors.Is(err, validation.ErrDisabled):
		m.validations.WithLabelValues("disabled").Inc()
	default:
		m.validations.WithLabelValues("failed").Inc()
	}
}
