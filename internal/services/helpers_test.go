package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const milesPerDegree = domain.EarthRadiusMiles * math.Pi / 180

// north returns the point the given number of miles due north of (0, 0).
func north(miles float64) domain.Coordinates {
	return domain.Coordinates{Lat: miles / milesPerDegree, Lon: 0}
}

func newAgent(id string, loc domain.Coordinates) *domain.Agent {
	return &domain.Agent{
		AgentID:            id,
		Name:               "Agent " + id,
		Location:           loc,
		LocationUpdatedAt:  testNow.Add(-5 * time.Minute),
		Status:             domain.AgentAvailable,
		MaxRadiusMiles:     25,
		MaxHold:            2,
		MaxMonthlyDeclines: 5,
		SuccessRate:        80,
		PropertyTypes:      []domain.PropertyType{domain.PropertyResidential},
	}
}

func newTarget(id string, loc domain.Coordinates) *domain.Target {
	return &domain.Target{
		TargetID: id,
		Location: loc,
		Address:  id + " Main St",
		County:   "Maricopa",
		City:     "Phoenix",
	}
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func targetIDs(route *domain.Route) []string {
	ids := make([]string, len(route.Points))
	for i, p := range route.Points {
		ids[i] = p.TargetID
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sleepRecorder stands in for real waits and remembers every requested delay.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func (r *sleepRecorder) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

type memoryRouteCache struct {
	mu sync.Mutex
	m  map[string]ports.ProviderRouteResponse
}

func newMemoryRouteCache() *memoryRouteCache {
	return &memoryRouteCache{m: make(map[string]ports.ProviderRouteResponse)}
}

func (c *memoryRouteCache) Get(ctx context.Context, key string) (ports.ProviderRouteResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *memoryRouteCache) Put(ctx context.Context, key string, resp ports.ProviderRouteResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = resp
	return nil
}

func (c *memoryRouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func mustT(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
