// Package metrics bundles the Prometheus collectors for assignment runs,
// route sequencing and the HTTP surface.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the service exports. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	AssignmentRuns      *prometheus.CounterVec
	AssignmentDurations prometheus.Histogram
	UnassignedTargets   prometheus.Counter
	RouteSequences      *prometheus.CounterVec
	ProviderCalls       *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDurations       *prometheus.HistogramVec
}

// New registers the collectors against reg, defaulting to the global
// registry when nil.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_runs_total",
		Help: "Assignment runs, labeled by result.",
	}, []string{"result"}), "assignment_runs_total")
	if err != nil {
		return nil, err
	}

	runDurations, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assignment_run_duration_seconds",
		Help:    "Wall time of assignment runs including optional route sequencing.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30},
	}), "assignment_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	unassigned, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_unassigned_targets_total",
		Help: "Targets left unassigned across all runs.",
	}), "assignment_unassigned_targets_total")
	if err != nil {
		return nil, err
	}

	sequences, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_sequences_total",
		Help: "Sequenced routes, labeled by the path that produced them.",
	}, []string{"source"}), "route_sequences_total")
	if err != nil {
		return nil, err
	}

	providerCalls, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routing_provider_calls_total",
		Help: "Calls to the external routing provider, labeled by outcome.",
	}, []string{"outcome"}), "routing_provider_calls_total")
	if err != nil {
		return nil, err
	}

	httpRequests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests, labeled by method, route pattern and status.",
	}, []string{"method", "route", "status"}), "http_requests_total")
	if err != nil {
		return nil, err
	}

	httpDurations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method", "route"}), "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:            gatherer,
		AssignmentRuns:      runs,
		AssignmentDurations: runDurations,
		UnassignedTargets:   unassigned,
		RouteSequences:      sequences,
		ProviderCalls:       providerCalls,
		HTTPRequests:        httpRequests,
		HTTPDurations:       httpDurations,
	}, nil
}

// ObserveAssignment records one assignment run.
func (c *Collector) ObserveAssignment(success bool, unassigned int, dur time.Duration) {
	if c == nil {
		return
	}
	result := "success"
	if !success {
		result = "failed"
	}
	c.AssignmentRuns.WithLabelValues(result).Inc()
	c.AssignmentDurations.Observe(dur.Seconds())
	c.UnassignedTargets.Add(float64(unassigned))
}

// ObserveRoute records which path produced a route.
func (c *Collector) ObserveRoute(source string) {
	if c == nil {
		return
	}
	c.RouteSequences.WithLabelValues(source).Inc()
}

// ObserveProviderCall records a single provider attempt.
func (c *Collector) ObserveProviderCall(err error) {
	if c == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.ProviderCalls.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records a finished HTTP request.
func (c *Collector) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDurations.WithLabelValues(method, route).Observe(dur.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
