package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecordsAssignmentsAndRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.ObserveAssignment(true, 2, 10*time.Millisecond)
	c.ObserveAssignment(false, 3, time.Millisecond)
	c.ObserveRoute("heuristic")
	c.ObserveProviderCall(errors.New("boom"))
	c.ObserveProviderCall(nil)

	if got := testutil.ToFloat64(c.AssignmentRuns.WithLabelValues("success")); got != 1 {
		t.Fatalf("assignment_runs_total{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.AssignmentRuns.WithLabelValues("failed")); got != 1 {
		t.Fatalf("assignment_runs_total{failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.UnassignedTargets); got != 5 {
		t.Fatalf("unassigned = %v, want 5", got)
	}
	if got := testutil.ToFloat64(c.RouteSequences.WithLabelValues("heuristic")); got != 1 {
		t.Fatalf("route_sequences_total{heuristic} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.ProviderCalls.WithLabelValues("error")); got != 1 {
		t.Fatalf("provider errors = %v, want 1", got)
	}
}

func TestCollectorReRegistersExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := New(reg)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}

	first.ObserveRoute("provider")
	if got := testutil.ToFloat64(second.RouteSequences.WithLabelValues("provider")); got != 1 {
		t.Fatalf("expected shared collector, got %v", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveAssignment(true, 1, time.Second)
	c.ObserveRoute("trivial")
	c.ObserveProviderCall(nil)
	c.ObserveHTTP(http.MethodGet, "/health", 200, time.Millisecond)
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.ObserveHTTP(http.MethodPost, "/assignments", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("metrics body missing http_requests_total")
	}
}
