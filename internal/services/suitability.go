package services

import (
	"field-dispatch-service/internal/domain"
)

// IsSuitable reports whether agent may be offered target. Every enabled
// rule must pass. distanceMiles is the precomputed agent→target distance.
//
// The recent-visit, prior-decline and active-opportunity exclusions have
// no data source and always pass.
func IsSuitable(
	target *domain.Target,
	agent *domain.Agent,
	distanceMiles float64,
	filters domain.SuitabilityFilters,
) bool {
	// Written as a negated <= so NaN distances are rejected.
	if filters.Radius && !(distanceMiles <= agent.MaxRadiusMiles) {
		return false
	}

	if filters.PropertyType && !agent.AcceptsPropertyType(target.PropertyType()) {
		return false
	}

	if filters.Danger && target.IsDangerous && !agent.HandlesDangerous {
		return false
	}

	if filters.Territory && !agent.InTerritory(target.County, target.City) {
		return false
	}

	return true
}

// BuildCandidates pairs every target with every agent and keeps the pairs
// that are within criteria.MaxDistanceMiles and pass the suitability
// filters. Pairs are emitted targets-major in input order, which is the
// order the optimizer falls back to on equal scores.
func BuildCandidates(
	targets []*domain.Target,
	agents []*domain.Agent,
	criteria domain.AssignmentCriteria,
	filters domain.SuitabilityFilters,
) []Candidate {
	candidates := make([]Candidate, 0, len(targets))

	for _, t := range targets {
		if t == nil || !t.Location.Valid() {
			continue
		}

		for _, a := range agents {
			d := domain.DistanceMiles(a.Location, t.Location)

			if criteria.MaxDistanceMiles > 0 && !(d <= criteria.MaxDistanceMiles) {
				continue
			}
			if !IsSuitable(t, a, d, filters) {
				continue
			}

			candidates = append(candidates, Candidate{
				Target:        t,
				Agent:         a,
				DistanceMiles: d,
			})
		}
	}

	return candidates
}

// effectiveFilters folds criteria-level switches into the filter set.
func effectiveFilters(criteria domain.AssignmentCriteria, filters domain.SuitabilityFilters) domain.SuitabilityFilters {
	if !criteria.RespectTerritories {
		filters.Territory = false
	}
	return filters
}
