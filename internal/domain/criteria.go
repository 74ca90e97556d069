package domain

// ScoringWeights are the non-negative multipliers for the four score
// components. They are not required to sum to 1.
type ScoringWeights struct {
	Distance       float64 `json:"distance" yaml:"distance"`
	Performance    float64 `json:"performance" yaml:"performance"`
	Workload       float64 `json:"workload" yaml:"workload"`
	Specialization float64 `json:"specialization" yaml:"specialization"`
}

// AssignmentCriteria tunes a single assignment run.
type AssignmentCriteria struct {
	MaxDistanceMiles         float64        `json:"max_distance_miles" yaml:"max_distance_miles"`
	Weights                  ScoringWeights `json:"weights" yaml:"weights"`
	RequireRouteOptimization bool           `json:"require_route_optimization" yaml:"require_route_optimization"`
	RespectTerritories       bool           `json:"respect_territories" yaml:"respect_territories"`
	AllowOverflow            bool           `json:"allow_overflow" yaml:"allow_overflow"`
}

// SuitabilityFilters toggles each eligibility rule independently.
//
// ExcludeRecentVisits, ExcludePriorDeclines and ExcludeActiveOpportunities
// are accepted but have no data source yet and always pass.
type SuitabilityFilters struct {
	Radius                     bool `json:"radius" yaml:"radius"`
	PropertyType               bool `json:"property_type" yaml:"property_type"`
	Danger                     bool `json:"danger" yaml:"danger"`
	Territory                  bool `json:"territory" yaml:"territory"`
	ExcludeRecentVisits        bool `json:"exclude_recent_visits" yaml:"exclude_recent_visits"`
	ExcludePriorDeclines       bool `json:"exclude_prior_declines" yaml:"exclude_prior_declines"`
	ExcludeActiveOpportunities bool `json:"exclude_active_opportunities" yaml:"exclude_active_opportunities"`
}

func DefaultCriteria() AssignmentCriteria {
	return AssignmentCriteria{
		MaxDistanceMiles: 50,
		Weights: ScoringWeights{
			Distance:       0.4,
			Performance:    0.3,
			Workload:       0.2,
			Specialization: 0.1,
		},
		RespectTerritories: true,
	}
}

func DefaultFilters() SuitabilityFilters {
	return SuitabilityFilters{
		Radius:       true,
		PropertyType: true,
		Danger:       true,
		Territory:    true,
	}
}
