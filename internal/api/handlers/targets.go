package handlers

import (
	"net/http"

	"field-dispatch-service/internal/api/dto"
	"field-dispatch-service/internal/ports"
)

// TargetHandler exposes read-only target retrieval endpoints.
type TargetHandler struct {
	Repo ports.TargetRepository
}

func (h *TargetHandler) List(w http.ResponseWriter, r *http.Request) {
	targets, err := h.Repo.ListTargets(r.Context())
	if err != nil {
		internalError(w, r, "list targets failed", err)
		return
	}

	res := dto.ListTargetsResponse{
		Targets: make([]dto.TargetResponse, 0, len(targets)),
	}
	for _, t := range targets {
		res.Targets = append(res.Targets, dto.FromTarget(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}
