package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services"
)

type RouteHandler struct {
	Targets   ports.TargetRepository
	Agents    ports.AgentRepository
	Sequencer *services.RouteSequencer
}

// Optimize sequences one route per entry. Entries that cannot be resolved
// (unknown agent or targets) fail individually; the rest are sequenced.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRoutesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()

	results := make([]domain.RouteOptimizationResult, len(req.Routes))
	pending := make([]services.RouteRequest, 0, len(req.Routes))
	pendingIdx := make([]int, 0, len(req.Routes))

	for i, rr := range req.Routes {
		sreq, err := h.resolve(r, rr)
		if errors.Is(err, errUnresolvable) {
			results[i] = domain.RouteOptimizationResult{AgentID: rr.AgentID, Error: err.Error()}
			continue
		}
		if err != nil {
			internalError(w, r, "resolve route request failed", err)
			return
		}
		pending = append(pending, sreq)
		pendingIdx = append(pendingIdx, i)
	}

	for j, res := range h.Sequencer.SequenceBatch(ctx, pending) {
		results[pendingIdx[j]] = res
	}

	out := dto.OptimizeRoutesResponse{Results: make([]dto.RouteResultResponse, 0, len(results))}
	for _, res := range results {
		out.Results = append(out.Results, dto.FromRouteResult(res))
	}

	writeJSON(w, r, http.StatusOK, out)
}

var errUnresolvable = errors.New("unresolvable route request")

func (h *RouteHandler) resolve(r *http.Request, rr dto.RouteRequest) (services.RouteRequest, error) {
	ctx := r.Context()

	agent, err := h.Agents.GetAgent(ctx, rr.AgentID)
	if errors.Is(err, domain.ErrAgentNotFound) {
		return services.RouteRequest{}, fmt.Errorf("%w: agent %q not found", errUnresolvable, rr.AgentID)
	}
	if err != nil {
		return services.RouteRequest{}, err
	}

	targets, err := h.Targets.GetTargets(ctx, rr.TargetIDs)
	if err != nil {
		return services.RouteRequest{}, err
	}
	if len(targets) != len(rr.TargetIDs) {
		return services.RouteRequest{}, fmt.Errorf("%w: %d of %d targets unknown or repeated",
			errUnresolvable, len(rr.TargetIDs)-len(targets), len(rr.TargetIDs))
	}

	start := agent.Location
	if rr.Start != nil {
		start = rr.Start.Domain()
	}

	return services.RouteRequest{AgentID: agent.AgentID, Start: start, Targets: targets}, nil
}
