package dto

import "time"

type TerritoryResponse struct {
	Counties []string `json:"counties"`
	Cities   []string `json:"cities"`
}

type AgentResponse struct {
	AgentID            string             `json:"agent_id"`
	Name               string             `json:"name"`
	Location           Coordinates        `json:"location"`
	LocationUpdatedAt  time.Time          `json:"location_updated_at"`
	Status             string             `json:"status"`
	MaxRadiusMiles     float64            `json:"max_radius_miles"`
	MaxHold            int                `json:"max_hold"`
	MaxMonthlyDeclines int                `json:"max_monthly_declines"`
	CompletedCount     int                `json:"completed_count"`
	DeclinedCount      int                `json:"declined_count"`
	MonthlyDeclines    int                `json:"monthly_declines"`
	LastDeclineReset   time.Time          `json:"last_decline_reset"`
	SuccessRate        float64            `json:"success_rate"`
	ActiveMissions     int                `json:"active_missions"`
	HandlesDangerous   bool               `json:"handles_dangerous"`
	PropertyTypes      []string           `json:"property_types"`
	Language           string             `json:"language,omitempty"`
	Territory          *TerritoryResponse `json:"territory,omitempty"`
}

type ListAgentsResponse struct {
	Agents []AgentResponse `json:"agents"`
}

type AgentActionRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline complete"`
}
