package dto

type RouteRequest struct {
	AgentID string `json:"agent_id" validate:"required"`
	// Nil starts from the agent's last known location.
	Start     *Coordinates `json:"start"`
	TargetIDs []string     `json:"target_ids" validate:"required,min=1,max=200,dive,required"`
}

type OptimizeRoutesRequest struct {
	Routes []RouteRequest `json:"routes" validate:"required,min=1,max=50,dive"`
}

type RoutePointResponse struct {
	TargetID                 string      `json:"target_id"`
	Location                 Coordinates `json:"location"`
	Address                  string      `json:"address"`
	EstimatedDurationMinutes int         `json:"estimated_duration_minutes"`
	OriginalIndex            int         `json:"original_index"`
	OptimizedIndex           int         `json:"optimized_index"`
}

type RouteResponse struct {
	AgentID            string               `json:"agent_id"`
	Start              Coordinates          `json:"start"`
	Points             []RoutePointResponse `json:"points"`
	TotalDistanceMiles float64              `json:"total_distance_miles"`
	TotalMinutes       float64              `json:"total_minutes"`
	Optimized          bool                 `json:"optimized"`
	Source             string               `json:"source"`
}

type RouteResultResponse struct {
	AgentID                string         `json:"agent_id"`
	Success                bool           `json:"success"`
	Route                  *RouteResponse `json:"route,omitempty"`
	OriginalDistanceMiles  float64        `json:"original_distance_miles"`
	OptimizedDistanceMiles float64        `json:"optimized_distance_miles"`
	TimeSavedMinutes       float64        `json:"time_saved_minutes"`
	Error                  string         `json:"error,omitempty"`
}

type OptimizeRoutesResponse struct {
	Results []RouteResultResponse `json:"results"`
}
