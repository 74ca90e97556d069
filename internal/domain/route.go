package domain

// RouteSource records which path produced a route.
type RouteSource string

const (
	RouteSourceProvider  RouteSource = "provider"
	RouteSourceHeuristic RouteSource = "heuristic"
	RouteSourceTrivial   RouteSource = "trivial"
)

// Represents a single stop in an agent route.
// OriginalIndex is the stop's position in the caller's list and
// OptimizedIndex its position after sequencing.
type RoutePoint struct {
	TargetID                 string
	Location                 Coordinates
	Address                  string
	EstimatedDurationMinutes int
	OriginalIndex            int
	OptimizedIndex           int
}

// Represents the sequenced route for a single agent.
// A Route is transient planning data produced fresh per sequencing call.
type Route struct {
	AgentID            string
	Start              Coordinates
	Points             []RoutePoint
	TotalDistanceMiles float64
	TotalMinutes       float64
	Optimized          bool
	Source             RouteSource
}

// RouteOptimizationResult wraps a Route with before/after metrics.
type RouteOptimizationResult struct {
	AgentID                string
	Success                bool
	Route                  *Route
	OriginalDistanceMiles  float64
	OptimizedDistanceMiles float64
	TimeSavedMinutes       float64
	Error                  string
}
