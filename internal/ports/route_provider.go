package ports

import (
	"context"

	"field-dispatch-service/internal/domain"
)

// Request for an externally optimized visiting order.
// Waypoints exclude Origin; the provider returns a permutation of them.
type ProviderRouteRequest struct {
	Origin    domain.Coordinates
	Waypoints []domain.Coordinates
	Mode      string
	Avoid     []string
}

// One leg of a provider route, in provider order.
type ProviderLeg struct {
	DistanceMeters  int
	DurationSeconds int
}

// Provider answer: WaypointOrder[i] is the index into the request's
// Waypoints visited i-th.
type ProviderRouteResponse struct {
	WaypointOrder   []int
	Legs            []ProviderLeg
	DistanceMeters  int
	DurationSeconds int
}

// Contract for an external service that reorders waypoints.
type RouteProvider interface {
	// Return the optimized visiting order and per-leg metrics.
	OptimizeRoute(ctx context.Context, req ProviderRouteRequest) (ProviderRouteResponse, error)
	// Return the maximum number of waypoints accepted in one request.
	MaxWaypoints() int
}
