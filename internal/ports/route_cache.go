package ports

import "context"

// Optional store for provider answers keyed by request fingerprint.
type RouteCache interface {
	// Return the cached response and whether it was found.
	Get(ctx context.Context, key string) (ProviderRouteResponse, bool, error)
	Put(ctx context.Context, key string, resp ProviderRouteResponse) error
}
