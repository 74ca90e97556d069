package api

import (
	"log/slog"
	"net/http"
	"time"

	"field-dispatch-service/internal/api/handlers"
	"field-dispatch-service/internal/config"
	"field-dispatch-service/internal/platform/metrics"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Targets   ports.TargetRepository
	Agents    ports.AgentRepository
	Sequencer *services.RouteSequencer
	Defaults  config.AssignmentDefaults
	Metrics   *metrics.Collector
	Log       *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	targetHandler := &handlers.TargetHandler{Repo: d.Targets}
	agentHandler := &handlers.AgentHandler{Repo: d.Agents, Now: d.Now}
	assignmentHandler := &handlers.AssignmentHandler{
		Targets: d.Targets,
		Agents:  d.Agents,
		Assigner: &services.Assigner{
			Sequencer: d.Sequencer,
			Metrics:   d.Metrics,
			Log:       log,
		},
		Defaults: d.Defaults,
		Now:      d.Now,
	}
	routeHandler := &handlers.RouteHandler{
		Targets:   d.Targets,
		Agents:    d.Agents,
		Sequencer: d.Sequencer,
	}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", d.Metrics.Handler())
	mux.HandleFunc("GET /targets", targetHandler.List)
	mux.HandleFunc("GET /agents", agentHandler.List)
	mux.HandleFunc("POST /agents/{id}/actions", agentHandler.Action)
	mux.HandleFunc("POST /assignments", assignmentHandler.Assign)
	mux.HandleFunc("POST /routes/optimize", routeHandler.Optimize)

	return requestIDMiddleware(loggingMiddleware(log, d.Metrics, mux))
}
