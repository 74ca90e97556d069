package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"field-dispatch-service/internal/adapters/routing"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/logger"
	"field-dispatch-service/internal/platform/metrics"
)

func TestAssignTargetsNoAgents(t *testing.T) {
	offline := newAgent("a1", domain.Coordinates{})
	offline.Status = domain.AgentOffline

	res := AssignTargets(context.Background(), AssignTargetsRequest{
		Targets:  []*domain.Target{newTarget("t1", north(1)), newTarget("t2", north(2))},
		Agents:   []*domain.Agent{offline},
		Criteria: domain.DefaultCriteria(),
		Filters:  domain.DefaultFilters(),
		Now:      testNow,
	}, nil)

	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.Error != domain.ErrNoAgentsAvailable.Error() {
		t.Fatalf("error = %q", res.Error)
	}
	if !equalStrings(res.UnassignedTargetIDs, []string{"t1", "t2"}) {
		t.Fatalf("unassigned = %v, want all targets", res.UnassignedTargetIDs)
	}
	if res.RunID == "" {
		t.Fatalf("expected a run id")
	}
}

func TestAssignTargetsScenario(t *testing.T) {
	res := AssignTargets(context.Background(), AssignTargetsRequest{
		Targets: []*domain.Target{
			newTarget("t5", north(5)),
			newTarget("t10", north(10)),
			newTarget("t30", north(30)),
		},
		Agents:   []*domain.Agent{newAgent("a1", domain.Coordinates{})},
		Criteria: domain.DefaultCriteria(),
		Filters:  domain.DefaultFilters(),
		Now:      testNow,
	}, nil)

	if !res.Success {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if res.RouteOptimized {
		t.Fatalf("route optimization was not requested")
	}
	if len(res.Assignments) != 1 || !approxEqual(res.Assignments[0].TotalDistanceMiles, 15, 1e-6) {
		t.Fatalf("assignments = %+v", res.Assignments)
	}
	if !equalStrings(res.UnassignedTargetIDs, []string{"t30"}) {
		t.Fatalf("unassigned = %v", res.UnassignedTargetIDs)
	}
}

func TestAssignerSequencesRoutes(t *testing.T) {
	agent := newAgent("a1", domain.Coordinates{})
	agent.MaxHold = 5
	agent.MaxRadiusMiles = 50

	req := triangleRequest()
	criteria := domain.DefaultCriteria()
	criteria.RequireRouteOptimization = true

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	mustT(t, err)

	provider := routing.NewMockRouteProvider(25, routing.MockStep{Err: errors.New("down")})
	assigner := &Assigner{
		Sequencer: NewRouteSequencer(
			WithProvider(provider),
			WithSleep((&sleepRecorder{}).Sleep),
			WithMetrics(m),
			WithLogger(logger.Discard()),
		),
		Metrics: m,
		Log:     logger.Discard(),
	}

	res := assigner.Assign(context.Background(), AssignTargetsRequest{
		Targets:  req.Targets,
		Agents:   []*domain.Agent{agent},
		Criteria: criteria,
		Filters:  domain.DefaultFilters(),
		Now:      testNow,
	})

	if !res.Success || !res.RouteOptimized {
		t.Fatalf("expected sequenced success, got %+v", res)
	}
	asg := res.Assignments[0]
	if asg.Route == nil || asg.Route.Source != domain.RouteSourceHeuristic {
		t.Fatalf("expected heuristic route, got %+v", asg.Route)
	}
	if !equalStrings(asg.TargetIDs, []string{"B", "A", "C"}) {
		t.Fatalf("target ids = %v, want route order [B A C]", asg.TargetIDs)
	}

	if got := testutil.ToFloat64(m.AssignmentRuns.WithLabelValues("success")); got != 1 {
		t.Fatalf("assignment runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RouteSequences.WithLabelValues("heuristic")); got != 1 {
		t.Fatalf("heuristic routes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ProviderCalls.WithLabelValues("error")); got != 3 {
		t.Fatalf("provider errors = %v, want 3", got)
	}
}
