package domain

import (
	"slices"
	"strings"
	"time"
)

// AgentStatus is the operational state of a field agent.
type AgentStatus string

const (
	AgentAvailable AgentStatus = "available"
	AgentBusy      AgentStatus = "busy"
	AgentOffline   AgentStatus = "offline"
	AgentSuspended AgentStatus = "suspended"
)

// Valid reports whether s is a known status.
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentAvailable, AgentBusy, AgentOffline, AgentSuspended:
		return true
	}
	return false
}

// TerritoryPreference limits an agent to a set of counties and/or cities.
// An empty list leaves that dimension unrestricted.
type TerritoryPreference struct {
	Counties []string
	Cities   []string
}

// Field agent holding capacity limits, eligibility flags and running
// performance counters.
type Agent struct {
	AgentID           string
	Name              string
	Location          Coordinates
	LocationUpdatedAt time.Time
	Status            AgentStatus

	MaxRadiusMiles     float64
	MaxHold            int
	MaxMonthlyDeclines int

	CompletedCount   int
	DeclinedCount    int
	MonthlyDeclines  int
	LastDeclineReset time.Time
	SuccessRate      float64
	ActiveMissions   int

	HandlesDangerous bool
	PropertyTypes    []PropertyType
	Language         string
	Territory        *TerritoryPreference
}

// AcceptsPropertyType reports whether the agent works properties of type pt.
func (a *Agent) AcceptsPropertyType(pt PropertyType) bool {
	return slices.Contains(a.PropertyTypes, pt)
}

// InTerritory reports whether county/city satisfy the agent's territory
// preference. Matching is case-insensitive.
func (a *Agent) InTerritory(county, city string) bool {
	if a.Territory == nil {
		return true
	}
	if len(a.Territory.Counties) > 0 && !containsFold(a.Territory.Counties, county) {
		return false
	}
	if len(a.Territory.Cities) > 0 && !containsFold(a.Territory.Cities, city) {
		return false
	}
	return true
}

// Clone returns a deep copy so state transitions never alias caller slices.
func (a *Agent) Clone() *Agent {
	c := *a
	c.PropertyTypes = slices.Clone(a.PropertyTypes)
	if a.Territory != nil {
		c.Territory = &TerritoryPreference{
			Counties: slices.Clone(a.Territory.Counties),
			Cities:   slices.Clone(a.Territory.Cities),
		}
	}
	return &c
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), v) {
			return true
		}
	}
	return false
}
