package handlers

import (
	"net/http"
	"time"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/config"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services"
)

type AssignmentHandler struct {
	Targets  ports.TargetRepository
	Agents   ports.AgentRepository
	Assigner *services.Assigner
	Defaults config.AssignmentDefaults
	Now      func() time.Time
}

// Assign runs one assignment pass over stored agents and the requested
// targets. A run with no available agents is still a 200; the failure is
// reported in the body.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()

	var (
		targets []*domain.Target
		err     error
	)
	if len(req.TargetIDs) > 0 {
		targets, err = h.Targets.GetTargets(ctx, req.TargetIDs)
	} else {
		targets, err = h.Targets.ListTargets(ctx)
	}
	if err != nil {
		internalError(w, r, "load targets failed", err)
		return
	}

	agents, err := h.Agents.ListAgents(ctx)
	if err != nil {
		internalError(w, r, "load agents failed", err)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	result := h.Assigner.Assign(ctx, services.AssignTargetsRequest{
		Targets:  targets,
		Agents:   agents,
		Criteria: mergeCriteria(h.Defaults.Criteria, req.Criteria),
		Filters:  mergeFilters(h.Defaults.Filters, req.Filters),
		Now:      now(),
	})

	writeJSON(w, r, http.StatusOK, dto.FromAssignmentResult(result))
}

func mergeCriteria(c domain.AssignmentCriteria, req *dto.CriteriaRequest) domain.AssignmentCriteria {
	if req == nil {
		return c
	}

	setFloat(&c.MaxDistanceMiles, req.MaxDistanceMiles)
	setBool(&c.RequireRouteOptimization, req.RequireRouteOptimization)
	setBool(&c.RespectTerritories, req.RespectTerritories)
	setBool(&c.AllowOverflow, req.AllowOverflow)

	if w := req.Weights; w != nil {
		setFloat(&c.Weights.Distance, w.Distance)
		setFloat(&c.Weights.Performance, w.Performance)
		setFloat(&c.Weights.Workload, w.Workload)
		setFloat(&c.Weights.Specialization, w.Specialization)
	}
	return c
}

func mergeFilters(f domain.SuitabilityFilters, req *dto.FiltersRequest) domain.SuitabilityFilters {
	if req == nil {
		return f
	}

	setBool(&f.Radius, req.Radius)
	setBool(&f.PropertyType, req.PropertyType)
	setBool(&f.Danger, req.Danger)
	setBool(&f.Territory, req.Territory)
	setBool(&f.ExcludeRecentVisits, req.ExcludeRecentVisits)
	setBool(&f.ExcludePriorDeclines, req.ExcludePriorDeclines)
	setBool(&f.ExcludeActiveOpportunities, req.ExcludeActiveOpportunities)
	return f
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
