package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/ports"
)

// AgentAction is a task lifecycle event reported by an agent.
type AgentAction string

const (
	ActionAccept   AgentAction = "accept"
	ActionDecline  AgentAction = "decline"
	ActionComplete AgentAction = "complete"
)

func ParseAgentAction(s string) (AgentAction, error) {
	switch a := AgentAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAccept, ActionDecline, ActionComplete:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownAction, s)
}

// ApplyAgentAction returns a copy of agent with action applied at now.
//
// The monthly decline counter is zeroed first whenever now falls in a
// different calendar month than the last reset. A decline that brings the
// monthly count to MaxMonthlyDeclines suspends the agent.
func ApplyAgentAction(agent *domain.Agent, action AgentAction, now time.Time) (*domain.Agent, error) {
	if agent == nil {
		return nil, fmt.Errorf("apply agent action: %w", domain.ErrAgentNotFound)
	}

	switch action {
	case ActionAccept, ActionDecline, ActionComplete:
	default:
		return nil, fmt.Errorf("apply agent action: %w: %q", domain.ErrUnknownAction, action)
	}

	a := agent.Clone()

	if monthChanged(a.LastDeclineReset, now) {
		a.MonthlyDeclines = 0
		a.LastDeclineReset = now
	}

	switch action {
	case ActionDecline:
		a.DeclinedCount++
		a.MonthlyDeclines++
		if a.MaxMonthlyDeclines > 0 && a.MonthlyDeclines >= a.MaxMonthlyDeclines {
			a.Status = domain.AgentSuspended
		}
	case ActionComplete:
		a.CompletedCount++
		a.SuccessRate = successRate(a.CompletedCount, a.DeclinedCount)
	}

	return a, nil
}

// RecordAgentAction applies action to the stored agent through the
// repository's atomic update, so concurrent actions for one agent never
// overwrite each other's counters.
func RecordAgentAction(
	ctx context.Context,
	repo ports.AgentRepository,
	agentID string,
	action AgentAction,
	now time.Time,
) (*domain.Agent, error) {
	updated, err := repo.UpdateAgent(ctx, agentID, func(a *domain.Agent) (*domain.Agent, error) {
		return ApplyAgentAction(a, action, now)
	})
	if err != nil {
		return nil, fmt.Errorf("record agent action: agent %q: %w", agentID, err)
	}
	return updated, nil
}

// Compared in UTC so the boundary does not depend on the server's zone.
func monthChanged(last, now time.Time) bool {
	if last.IsZero() {
		return true
	}
	ly, lm, _ := last.UTC().Date()
	ny, nm, _ := now.UTC().Date()
	return ly != ny || lm != nm
}

func successRate(completed, declined int) float64 {
	total := completed + declined
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
