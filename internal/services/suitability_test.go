package services

import (
	"math"
	"testing"

	"field-dispatch-service/internal/domain"
)

func TestIsSuitable(t *testing.T) {
	all := domain.DefaultFilters()

	base := func() (*domain.Target, *domain.Agent) {
		return newTarget("t1", north(5)), newAgent("a1", domain.Coordinates{})
	}

	cases := []struct {
		name     string
		mutate   func(*domain.Target, *domain.Agent)
		distance float64
		filters  domain.SuitabilityFilters
		want     bool
	}{
		{name: "all rules pass", distance: 5, filters: all, want: true},
		{name: "outside radius", distance: 26, filters: all, want: false},
		{name: "on radius boundary", distance: 25, filters: all, want: true},
		{name: "radius rule disabled", distance: 26, filters: domain.SuitabilityFilters{}, want: true},
		{name: "NaN distance", distance: math.NaN(), filters: all, want: false},
		{
			name:     "commercial target for residential agent",
			mutate:   func(tg *domain.Target, _ *domain.Agent) { tg.IsBusiness = true },
			distance: 5, filters: all, want: false,
		},
		{
			name: "commercial target for commercial agent",
			mutate: func(tg *domain.Target, a *domain.Agent) {
				tg.IsBusiness = true
				a.PropertyTypes = append(a.PropertyTypes, domain.PropertyCommercial)
			},
			distance: 5, filters: all, want: true,
		},
		{
			name:     "dangerous target for unqualified agent",
			mutate:   func(tg *domain.Target, _ *domain.Agent) { tg.IsDangerous = true },
			distance: 5, filters: all, want: false,
		},
		{
			name: "dangerous target with danger rule off",
			mutate: func(tg *domain.Target, _ *domain.Agent) {
				tg.IsDangerous = true
			},
			distance: 5, filters: domain.SuitabilityFilters{Radius: true, PropertyType: true, Territory: true}, want: true,
		},
		{
			name: "outside territory",
			mutate: func(_ *domain.Target, a *domain.Agent) {
				a.Territory = &domain.TerritoryPreference{Counties: []string{"Pima"}}
			},
			distance: 5, filters: all, want: false,
		},
		{
			name: "history exclusions pass through",
			filters: domain.SuitabilityFilters{
				ExcludeRecentVisits:        true,
				ExcludePriorDeclines:       true,
				ExcludeActiveOpportunities: true,
			},
			distance: 5, want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tg, a := base()
			if tc.mutate != nil {
				tc.mutate(tg, a)
			}
			if got := IsSuitable(tg, a, tc.distance, tc.filters); got != tc.want {
				t.Fatalf("IsSuitable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildCandidatesRespectsMaxDistance(t *testing.T) {
	agent := newAgent("a1", domain.Coordinates{})
	agent.MaxRadiusMiles = 100

	targets := []*domain.Target{
		newTarget("near", north(10)),
		newTarget("far", north(60)),
		newTarget("bad", domain.Coordinates{Lat: 200}),
	}

	criteria := domain.DefaultCriteria()
	cands := BuildCandidates(targets, []*domain.Agent{agent}, criteria, domain.DefaultFilters())

	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	if cands[0].Target.TargetID != "near" {
		t.Fatalf("candidate target = %q, want near", cands[0].Target.TargetID)
	}
	if !approxEqual(cands[0].DistanceMiles, 10, 1e-6) {
		t.Fatalf("distance = %f, want 10", cands[0].DistanceMiles)
	}
}

func TestBuildCandidatesOrderIsTargetsThenAgents(t *testing.T) {
	a1 := newAgent("a1", domain.Coordinates{})
	a2 := newAgent("a2", domain.Coordinates{})
	targets := []*domain.Target{newTarget("t1", north(1)), newTarget("t2", north(2))}

	cands := BuildCandidates(targets, []*domain.Agent{a1, a2}, domain.DefaultCriteria(), domain.DefaultFilters())

	want := [][2]string{{"t1", "a1"}, {"t1", "a2"}, {"t2", "a1"}, {"t2", "a2"}}
	if len(cands) != len(want) {
		t.Fatalf("candidates = %d, want %d", len(cands), len(want))
	}
	for i, w := range want {
		if cands[i].Target.TargetID != w[0] || cands[i].Agent.AgentID != w[1] {
			t.Fatalf("candidate %d = (%s,%s), want %v", i, cands[i].Target.TargetID, cands[i].Agent.AgentID, w)
		}
	}
}

func TestEffectiveFiltersTerritorySwitch(t *testing.T) {
	criteria := domain.DefaultCriteria()
	criteria.RespectTerritories = false

	f := effectiveFilters(criteria, domain.DefaultFilters())
	if f.Territory {
		t.Fatalf("territory rule should be disabled when territories are not respected")
	}
	if !f.Radius {
		t.Fatalf("other rules must be left untouched")
	}
}
