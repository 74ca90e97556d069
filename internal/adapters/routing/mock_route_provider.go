package routing

import (
	"context"
	"errors"
	"sync"

	"field-dispatch-service/internal/ports"
)

// MockStep is one scripted provider answer.
type MockStep struct {
	Response ports.ProviderRouteResponse
	Err      error
}

// MockRouteProvider replays scripted answers in order and repeats the
// last one once the script runs out. It records every request.
type MockRouteProvider struct {
	mu       sync.Mutex
	steps    []MockStep
	limit    int
	requests []ports.ProviderRouteRequest
}

func NewMockRouteProvider(limit int, steps ...MockStep) *MockRouteProvider {
	return &MockRouteProvider{steps: steps, limit: limit}
}

func (p *MockRouteProvider) MaxWaypoints() int { return p.limit }

func (p *MockRouteProvider) OptimizeRoute(ctx context.Context, req ports.ProviderRouteRequest) (ports.ProviderRouteResponse, error) {
	if err := ctx.Err(); err != nil {
		return ports.ProviderRouteResponse{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	call := len(p.requests)
	p.requests = append(p.requests, req)

	if len(p.steps) == 0 {
		return ports.ProviderRouteResponse{}, errors.New("mock route provider: no scripted response")
	}
	step := p.steps[min(call, len(p.steps)-1)]
	return step.Response, step.Err
}

// Calls returns how many times OptimizeRoute was invoked.
func (p *MockRouteProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func (p *MockRouteProvider) Requests() []ports.ProviderRouteRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.ProviderRouteRequest(nil), p.requests...)
}
