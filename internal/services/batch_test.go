package services

import (
	"context"
	"testing"
	"time"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

// panicProvider blows up before any request is sent.
type panicProvider struct{}

func (panicProvider) MaxWaypoints() int { panic("provider misconfigured") }

func (panicProvider) OptimizeRoute(ctx context.Context, req ports.ProviderRouteRequest) (ports.ProviderRouteResponse, error) {
	panic("unreachable")
}

func TestSequenceBatchPausesBetweenBatches(t *testing.T) {
	sleeps := &sleepRecorder{}
	seq := NewRouteSequencer(WithSleep(sleeps.Sleep))

	reqs := make([]RouteRequest, 7)
	for i := range reqs {
		reqs[i] = triangleRequest()
		reqs[i].AgentID = string(rune('a' + i))
	}

	results := seq.SequenceBatch(context.Background(), reqs)

	if len(results) != len(reqs) {
		t.Fatalf("results = %d, want %d", len(results), len(reqs))
	}
	for i, res := range results {
		if res.AgentID != reqs[i].AgentID {
			t.Fatalf("result %d agent = %q, want %q", i, res.AgentID, reqs[i].AgentID)
		}
		if !res.Success {
			t.Fatalf("result %d failed: %s", i, res.Error)
		}
	}

	// 7 requests in batches of 3 → two pauses.
	delays := sleeps.Delays()
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != time.Second {
		t.Fatalf("pauses = %v, want [1s 1s]", delays)
	}
}

func TestSequenceBatchIsolatesFailures(t *testing.T) {
	seq := NewRouteSequencer(WithProvider(panicProvider{}), WithBatching(3, 0))

	single := RouteRequest{
		AgentID: "single",
		Start:   domain.Coordinates{},
		Targets: []*domain.Target{newTarget("t1", north(1))},
	}
	broken := RouteRequest{AgentID: "broken", Start: domain.Coordinates{}, Targets: []*domain.Target{nil, nil}}
	panics := triangleRequest()
	panics.AgentID = "panics"

	results := seq.SequenceBatch(context.Background(), []RouteRequest{panics, single, broken})

	if results[0].Success || results[0].Error == "" {
		t.Fatalf("panicking request should fail with an error, got %+v", results[0])
	}
	if !results[1].Success {
		t.Fatalf("sibling request should succeed, got %q", results[1].Error)
	}
	if results[2].Success {
		t.Fatalf("request with nil targets should fail")
	}
}

func TestSequenceBatchStopsOnCancelledPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seq := NewRouteSequencer(WithSleep(func(ctx context.Context, d time.Duration) error { return ctx.Err() }))

	reqs := make([]RouteRequest, 4)
	for i := range reqs {
		reqs[i] = triangleRequest()
	}

	results := seq.SequenceBatch(ctx, reqs)
	if !results[0].Success {
		t.Fatalf("first batch runs before any pause")
	}
	if results[3].Success {
		t.Fatalf("request after cancelled pause should fail")
	}
}
