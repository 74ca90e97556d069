package services

import (
	"context"
	"testing"
	"time"

	"field-dispatch-service/internal/domain"
)

func TestAvailableAgents(t *testing.T) {
	ok := newAgent("ok", domain.Coordinates{})

	busy := newAgent("busy", domain.Coordinates{})
	busy.Status = domain.AgentBusy

	declined := newAgent("declined", domain.Coordinates{})
	declined.MonthlyDeclines = 5
	declined.LastDeclineReset = testNow.Add(-48 * time.Hour)

	unlimited := newAgent("unlimited", domain.Coordinates{})
	unlimited.MaxMonthlyDeclines = 0
	unlimited.MonthlyDeclines = 40

	full := newAgent("full", domain.Coordinates{})
	full.ActiveMissions = 2

	stale := newAgent("stale", domain.Coordinates{})
	stale.LocationUpdatedAt = testNow.Add(-61 * time.Minute)

	never := newAgent("never", domain.Coordinates{})
	never.LocationUpdatedAt = time.Time{}

	invalid := newAgent("invalid", domain.Coordinates{Lat: 91})

	agents := []*domain.Agent{ok, busy, declined, unlimited, full, stale, never, invalid, nil}

	got := AvailableAgents(agents, testNow, false)
	if ids := agentIDs(got); !equalStrings(ids, []string{"ok", "unlimited"}) {
		t.Fatalf("available = %v, want [ok unlimited]", ids)
	}

	got = AvailableAgents(agents, testNow, true)
	if ids := agentIDs(got); !equalStrings(ids, []string{"ok", "unlimited", "full"}) {
		t.Fatalf("available with overflow = %v, want [ok unlimited full]", ids)
	}
}

func TestAvailableAgentsFreshnessBoundary(t *testing.T) {
	a := newAgent("edge", domain.Coordinates{})
	a.LocationUpdatedAt = testNow.Add(-LocationFreshness)

	if got := AvailableAgents([]*domain.Agent{a}, testNow, false); len(got) != 1 {
		t.Fatalf("location exactly one hour old should still be fresh")
	}
}

func TestAvailableAgentsDeclinesFromEarlierMonth(t *testing.T) {
	a := newAgent("a1", domain.Coordinates{})
	a.MonthlyDeclines = 5
	a.LastDeclineReset = time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)

	got := AvailableAgents([]*domain.Agent{a}, testNow, false)
	if len(got) != 1 {
		t.Fatalf("agent whose declines are all from February should be available in March")
	}
	if a.MonthlyDeclines != 5 || !a.LastDeclineReset.Equal(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("availability check mutated the agent: %+v", a)
	}

	res := AssignTargets(context.Background(), AssignTargetsRequest{
		Targets:  []*domain.Target{newTarget("t1", north(1))},
		Agents:   []*domain.Agent{a},
		Criteria: domain.DefaultCriteria(),
		Filters:  domain.DefaultFilters(),
		Now:      testNow,
	}, nil)
	if !res.Success || len(res.UnassignedTargetIDs) != 0 {
		t.Fatalf("assign: success=%v err=%q unassigned=%v", res.Success, res.Error, res.UnassignedTargetIDs)
	}
}

func TestAvailableAgentsDeclinesThisMonth(t *testing.T) {
	a := newAgent("a1", domain.Coordinates{})
	a.MonthlyDeclines = 5
	a.LastDeclineReset = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if got := AvailableAgents([]*domain.Agent{a}, testNow, false); len(got) != 0 {
		t.Fatalf("agent at the decline limit this month should be excluded")
	}
}

func agentIDs(agents []*domain.Agent) []string {
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.AgentID
	}
	return ids
}
