package services

import (
	"field-dispatch-service/internal/domain"
)

// Candidate is an eligible (target, agent) pairing with its score breakdown.
type Candidate struct {
	Target        *domain.Target
	Agent         *domain.Agent
	DistanceMiles float64

	DistanceScore       float64
	PerformanceScore    float64
	WorkloadScore       float64
	SpecializationScore float64
	Score               float64
}

const (
	specializationBase      = 0.5
	specializationDangerous = 0.3
	specializationBusiness  = 0.2
)

// ScoreCandidates fills in the component and final scores of every
// candidate in place and returns the same slice.
//
// Distance and workload are normalized against the maxima of this
// candidate set, so scores only compare within one run.
func ScoreCandidates(candidates []Candidate, weights domain.ScoringWeights) []Candidate {
	maxDistance := 0.0
	maxWorkload := 0
	for _, c := range candidates {
		if c.DistanceMiles > maxDistance {
			maxDistance = c.DistanceMiles
		}
		if c.Agent.ActiveMissions > maxWorkload {
			maxWorkload = c.Agent.ActiveMissions
		}
	}

	for i := range candidates {
		c := &candidates[i]

		c.DistanceScore = 1.0
		if maxDistance > 0 {
			c.DistanceScore = (maxDistance - c.DistanceMiles) / maxDistance
		}

		c.PerformanceScore = c.Agent.SuccessRate / 100

		c.WorkloadScore = 1.0
		if maxWorkload > 0 {
			c.WorkloadScore = float64(maxWorkload-c.Agent.ActiveMissions) / float64(maxWorkload)
		}

		c.SpecializationScore = specializationScore(c.Target, c.Agent)

		c.Score = weights.Distance*c.DistanceScore +
			weights.Performance*c.PerformanceScore +
			weights.Workload*c.WorkloadScore +
			weights.Specialization*c.SpecializationScore
	}

	return candidates
}

func specializationScore(t *domain.Target, a *domain.Agent) float64 {
	score := specializationBase
	if t.IsDangerous && a.HandlesDangerous {
		score += specializationDangerous
	}
	if t.IsBusiness && a.AcceptsPropertyType(domain.PropertyCommercial) {
		score += specializationBusiness
	}
	return score
}
