package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/logger"
	"field-dispatch-service/internal/platform/metrics"
)

type AssignTargetsRequest struct {
	Targets  []*domain.Target
	Agents   []*domain.Agent
	Criteria domain.AssignmentCriteria
	Filters  domain.SuitabilityFilters
	// Now is the reference time for location freshness. Zero means time.Now().
	Now time.Time
}

// Assigner runs the assignment pipeline. Sequencer is only used when the
// criteria ask for route optimization; a nil Sequencer skips that step.
type Assigner struct {
	Sequencer *RouteSequencer
	Metrics   *metrics.Collector
	Log       *slog.Logger
}

// AssignTargets is Assigner.Assign without metrics.
func AssignTargets(ctx context.Context, req AssignTargetsRequest, seq *RouteSequencer) domain.AssignmentResult {
	return (&Assigner{Sequencer: seq}).Assign(ctx, req)
}

// Assign filters agents by availability, builds and scores eligible
// pairs, greedily assigns targets and optionally sequences each agent's
// route. Failure is reported on the result.
func (a *Assigner) Assign(ctx context.Context, req AssignTargetsRequest) domain.AssignmentResult {
	start := time.Now()
	runID := uuid.NewString()
	log := logger.FromContext(ctx, a.Log).With("run_id", runID)

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := a.assign(ctx, log, runID, req, now)

	a.Metrics.ObserveAssignment(result.Success, len(result.UnassignedTargetIDs), time.Since(start))
	log.InfoContext(ctx, "assignment run finished",
		"success", result.Success,
		"targets", len(req.Targets),
		"agents", len(req.Agents),
		"assignments", len(result.Assignments),
		"unassigned", len(result.UnassignedTargetIDs),
		"route_optimized", result.RouteOptimized,
		"dur_ms", time.Since(start).Milliseconds(),
	)

	return result
}

func (a *Assigner) assign(
	ctx context.Context,
	log *slog.Logger,
	runID string,
	req AssignTargetsRequest,
	now time.Time,
) domain.AssignmentResult {
	allTargetIDs := make([]string, 0, len(req.Targets))
	for _, t := range req.Targets {
		if t != nil {
			allTargetIDs = append(allTargetIDs, t.TargetID)
		}
	}

	agents := AvailableAgents(req.Agents, now, req.Criteria.AllowOverflow)
	if len(agents) == 0 {
		return domain.AssignmentResult{
			RunID:               runID,
			Success:             false,
			Assignments:         []domain.Assignment{},
			UnassignedTargetIDs: allTargetIDs,
			Error:               domain.ErrNoAgentsAvailable.Error(),
		}
	}

	filters := effectiveFilters(req.Criteria, req.Filters)
	if filters.ExcludeRecentVisits || filters.ExcludePriorDeclines || filters.ExcludeActiveOpportunities {
		log.DebugContext(ctx, "history-based exclusions requested but have no data source; ignoring",
			"exclude_recent_visits", filters.ExcludeRecentVisits,
			"exclude_prior_declines", filters.ExcludePriorDeclines,
			"exclude_active_opportunities", filters.ExcludeActiveOpportunities,
		)
	}

	candidates := BuildCandidates(req.Targets, agents, req.Criteria, filters)
	ScoreCandidates(candidates, req.Criteria.Weights)

	assignments, unassigned := OptimizeAssignments(req.Targets, agents, candidates, req.Criteria)
	log.DebugContext(ctx, "assignment optimized",
		"available_agents", len(agents),
		"candidates", len(candidates),
	)

	result := domain.AssignmentResult{
		RunID:               runID,
		Success:             true,
		Assignments:         assignments,
		UnassignedTargetIDs: unassigned,
	}

	if req.Criteria.RequireRouteOptimization && a.Sequencer != nil && len(assignments) > 0 {
		result.RouteOptimized = a.sequenceAssignments(ctx, log, req, agents, result.Assignments)
	}

	return result
}

// sequenceAssignments attaches a route to each assignment and reorders its
// target ids to match. It reports whether every route was sequenced.
func (a *Assigner) sequenceAssignments(
	ctx context.Context,
	log *slog.Logger,
	req AssignTargetsRequest,
	agents []*domain.Agent,
	assignments []domain.Assignment,
) bool {
	targetsByID := make(map[string]*domain.Target, len(req.Targets))
	for _, t := range req.Targets {
		if t != nil {
			targetsByID[t.TargetID] = t
		}
	}
	agentsByID := make(map[string]*domain.Agent, len(agents))
	for _, ag := range agents {
		agentsByID[ag.AgentID] = ag
	}

	reqs := make([]RouteRequest, len(assignments))
	for i, asg := range assignments {
		targets := make([]*domain.Target, 0, len(asg.TargetIDs))
		for _, id := range asg.TargetIDs {
			targets = append(targets, targetsByID[id])
		}
		reqs[i] = RouteRequest{
			AgentID: asg.AgentID,
			Start:   agentsByID[asg.AgentID].Location,
			Targets: targets,
		}
	}

	allOK := true
	for i, res := range a.Sequencer.SequenceBatch(ctx, reqs) {
		if !res.Success || res.Route == nil {
			allOK = false
			log.WarnContext(ctx, "route sequencing failed", "agent_id", res.AgentID, "err", res.Error)
			continue
		}

		asg := &assignments[i]
		asg.Route = res.Route
		ids := make([]string, len(res.Route.Points))
		for j, p := range res.Route.Points {
			ids[j] = p.TargetID
		}
		asg.TargetIDs = ids
	}

	return allOK
}
