package ports

import (
	"context"

	"field-dispatch-service/internal/domain"
)

// Port: a boundary for loading and persisting Agent entities.
type AgentRepository interface {
	ListAgents(ctx context.Context) ([]*domain.Agent, error)
	// Return domain.ErrAgentNotFound when id is unknown.
	GetAgent(ctx context.Context, id string) (*domain.Agent, error)
	// UpdateAgent applies fn to the stored agent and persists the result
	// atomically: no other update of the same agent interleaves between the
	// read and the write. Only status and performance counters are written.
	// Return domain.ErrAgentNotFound when id is unknown.
	UpdateAgent(ctx context.Context, id string, fn func(*domain.Agent) (*domain.Agent, error)) (*domain.Agent, error)
}
