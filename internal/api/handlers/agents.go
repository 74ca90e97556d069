package handlers

import (
	"errors"
	"net/http"
	"time"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services"
)

type AgentHandler struct {
	Repo ports.AgentRepository
	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Repo.ListAgents(r.Context())
	if err != nil {
		internalError(w, r, "list agents failed", err)
		return
	}

	res := dto.ListAgentsResponse{
		Agents: make([]dto.AgentResponse, 0, len(agents)),
	}
	for _, a := range agents {
		res.Agents = append(res.Agents, dto.FromAgent(a))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Action records an accept, decline or complete event for one agent.
func (h *AgentHandler) Action(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "agent id is required")
		return
	}

	var req dto.AgentActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	action, err := services.ParseAgentAction(req.Action)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	agent, err := services.RecordAgentAction(r.Context(), h.Repo, id, action, now())
	if errors.Is(err, domain.ErrAgentNotFound) {
		writeError(w, r, http.StatusNotFound, "agent not found")
		return
	}
	if err != nil {
		internalError(w, r, "record agent action failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromAgent(agent))
}
