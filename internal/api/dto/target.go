package dto

type TargetResponse struct {
	TargetID                 string      `json:"target_id"`
	Location                 Coordinates `json:"location"`
	Address                  string      `json:"address"`
	IsDangerous              bool        `json:"is_dangerous"`
	IsBusiness               bool        `json:"is_business"`
	County                   string      `json:"county"`
	City                     string      `json:"city"`
	Priority                 float64     `json:"priority"`
	EstimatedDurationMinutes int         `json:"estimated_duration_minutes"`
}

type ListTargetsResponse struct {
	Targets []TargetResponse `json:"targets"`
}
