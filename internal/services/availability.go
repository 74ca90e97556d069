package services

import (
	"time"

	"field-dispatch-service/internal/domain"
)

// Agent locations older than this are treated as unknown.
const LocationFreshness = time.Hour

// AvailableAgents returns the agents eligible to receive work at now:
// status available, below the monthly decline limit, below max hold
// (unless allowOverflow), with valid coordinates no older than
// LocationFreshness. A non-positive MaxMonthlyDeclines means no limit.
// Declines counted in an earlier calendar month do not count against the
// limit; the stored counter itself is reset by the next recorded action.
func AvailableAgents(agents []*domain.Agent, now time.Time, allowOverflow bool) []*domain.Agent {
	out := make([]*domain.Agent, 0, len(agents))

	for _, a := range agents {
		if a == nil || a.Status != domain.AgentAvailable {
			continue
		}

		if a.MaxMonthlyDeclines > 0 && monthlyDeclinesAt(a, now) >= a.MaxMonthlyDeclines {
			continue
		}

		if !allowOverflow && a.ActiveMissions >= a.MaxHold {
			continue
		}

		if !a.Location.Valid() {
			continue
		}

		if a.LocationUpdatedAt.IsZero() || now.Sub(a.LocationUpdatedAt) > LocationFreshness {
			continue
		}

		out = append(out, a)
	}

	return out
}

func monthlyDeclinesAt(a *domain.Agent, now time.Time) int {
	if monthChanged(a.LastDeclineReset, now) {
		return 0
	}
	return a.MonthlyDeclines
}
