package services

import (
	"cmp"
	"slices"

	"field-dispatch-service/internal/domain"
)

// OptimizeAssignments greedily claims targets for agents in descending
// score order.
//
// Equal scores keep candidate order (first seen wins), so identical input
// always yields an identical assignment. An agent stops receiving targets
// once its working load reaches MaxHold unless criteria.AllowOverflow.
// Assignments are returned in agent input order; unassigned target ids in
// target input order.
func OptimizeAssignments(
	targets []*domain.Target,
	agents []*domain.Agent,
	candidates []Candidate,
	criteria domain.AssignmentCriteria,
) ([]domain.Assignment, []string) {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	workload := make(map[string]int, len(agents))
	for _, a := range agents {
		workload[a.AgentID] = a.ActiveMissions
	}

	claimed := make(map[string]struct{}, len(targets))
	byAgent := make(map[string]*domain.Assignment, len(agents))

	for _, c := range sorted {
		targetID := c.Target.TargetID
		agentID := c.Agent.AgentID

		if _, ok := claimed[targetID]; ok {
			continue
		}
		if criteria.MaxDistanceMiles > 0 && c.DistanceMiles > criteria.MaxDistanceMiles {
			continue
		}
		if !criteria.AllowOverflow && workload[agentID] >= c.Agent.MaxHold {
			continue
		}

		asg, ok := byAgent[agentID]
		if !ok {
			asg = &domain.Assignment{AgentID: agentID}
			byAgent[agentID] = asg
		}

		asg.TargetIDs = append(asg.TargetIDs, targetID)
		asg.TotalDistanceMiles += c.DistanceMiles
		asg.PriorityScore += c.Score
		workload[agentID]++
		claimed[targetID] = struct{}{}
	}

	assignments := make([]domain.Assignment, 0, len(byAgent))
	for _, a := range agents {
		asg, ok := byAgent[a.AgentID]
		if !ok {
			continue
		}
		asg.EstimatedMinutes = domain.EstimateRouteMinutes(asg.TotalDistanceMiles, len(asg.TargetIDs))
		assignments = append(assignments, *asg)
		// Guard against duplicate agent entries in the input.
		delete(byAgent, a.AgentID)
	}

	unassigned := make([]string, 0)
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t == nil {
			continue
		}
		if _, ok := seen[t.TargetID]; ok {
			continue
		}
		seen[t.TargetID] = struct{}{}
		if _, ok := claimed[t.TargetID]; !ok {
			unassigned = append(unassigned, t.TargetID)
		}
	}

	return assignments, unassigned
}
