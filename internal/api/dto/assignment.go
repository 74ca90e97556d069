package dto

// Pointer fields are optional and fall back to the configured defaults.

type WeightsRequest struct {
	Distance       *float64 `json:"distance" validate:"omitempty,gte=0"`
	Performance    *float64 `json:"performance" validate:"omitempty,gte=0"`
	Workload       *float64 `json:"workload" validate:"omitempty,gte=0"`
	Specialization *float64 `json:"specialization" validate:"omitempty,gte=0"`
}

type CriteriaRequest struct {
	MaxDistanceMiles         *float64        `json:"max_distance_miles" validate:"omitempty,gt=0"`
	Weights                  *WeightsRequest `json:"weights"`
	RequireRouteOptimization *bool           `json:"require_route_optimization"`
	RespectTerritories       *bool           `json:"respect_territories"`
	AllowOverflow            *bool           `json:"allow_overflow"`
}

type FiltersRequest struct {
	Radius                     *bool `json:"radius"`
	PropertyType               *bool `json:"property_type"`
	Danger                     *bool `json:"danger"`
	Territory                  *bool `json:"territory"`
	ExcludeRecentVisits        *bool `json:"exclude_recent_visits"`
	ExcludePriorDeclines       *bool `json:"exclude_prior_declines"`
	ExcludeActiveOpportunities *bool `json:"exclude_active_opportunities"`
}

type AssignmentRequest struct {
	// Empty means every stored target.
	TargetIDs []string         `json:"target_ids" validate:"omitempty,max=5000,dive,required"`
	Criteria  *CriteriaRequest `json:"criteria"`
	Filters   *FiltersRequest  `json:"filters"`
}

type AssignmentResponse struct {
	AgentID            string         `json:"agent_id"`
	TargetIDs          []string       `json:"target_ids"`
	TotalDistanceMiles float64        `json:"total_distance_miles"`
	PriorityScore      float64        `json:"priority_score"`
	EstimatedMinutes   float64        `json:"estimated_minutes"`
	Route              *RouteResponse `json:"route,omitempty"`
}

type AssignmentResultResponse struct {
	RunID               string               `json:"run_id"`
	Success             bool                 `json:"success"`
	Assignments         []AssignmentResponse `json:"assignments"`
	UnassignedTargetIDs []string             `json:"unassigned_target_ids"`
	RouteOptimized      bool                 `json:"route_optimized"`
	Error               string               `json:"error,omitempty"`
}
