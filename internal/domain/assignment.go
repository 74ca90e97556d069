package domain

// Fixed-speed travel estimator: 30 mph average and a 15 minute dwell per stop.
const (
	MinutesPerMile        = 2.0
	ServiceMinutesPerStop = 15
)

// EstimateRouteMinutes returns travel time at the fixed average speed plus
// the fixed per-stop service time.
func EstimateRouteMinutes(distanceMiles float64, stops int) float64 {
	return MinutesPerMile*distanceMiles + float64(ServiceMinutesPerStop*stops)
}

// Represents the targets claimed by one agent during an assignment run.
type Assignment struct {
	AgentID            string
	TargetIDs          []string
	TotalDistanceMiles float64
	PriorityScore      float64
	EstimatedMinutes   float64
	Route              *Route
}

// AssignmentResult is the immutable report of one assignment run.
// Failure is signalled through Success and Error, never by panicking.
type AssignmentResult struct {
	RunID               string
	Success             bool
	Assignments         []Assignment
	UnassignedTargetIDs []string
	RouteOptimized      bool
	Error               string
}
