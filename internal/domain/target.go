package domain

// PropertyType classifies a target for agent property filters.
type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
)

// Represents a single unit of field work handled by the system.
// Targets are created by the import pipeline and are read-only
// once an assignment run begins.
type Target struct {
	TargetID                 string
	Location                 Coordinates
	Address                  string
	IsDangerous              bool
	IsBusiness               bool
	County                   string
	City                     string
	Priority                 float64
	EstimatedDurationMinutes int
}

// PropertyType infers commercial for business targets and residential otherwise.
func (t *Target) PropertyType() PropertyType {
	if t.IsBusiness {
		return PropertyCommercial
	}
	return PropertyResidential
}
