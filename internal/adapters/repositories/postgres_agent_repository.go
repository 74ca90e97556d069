package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/obs"
)

// Postgres-backed implementation of the AgentRepository port.
type PostgresAgentRepository struct{ DB database }

func NewPostgresAgentRepository(db database) *PostgresAgentRepository {
	return &PostgresAgentRepository{DB: db}
}

const agentColumns = `
	agent_id,
	name,
	lat,
	lon,
	location_updated_at,
	status,
	max_radius_miles,
	max_hold,
	max_monthly_declines,
	completed_count,
	declined_count,
	monthly_declines,
	last_decline_reset,
	success_rate,
	active_missions,
	handles_dangerous,
	property_types,
	language,
	territory_counties,
	territory_cities`

func (r *PostgresAgentRepository) ListAgents(ctx context.Context) (_ []*domain.Agent, err error) {
	defer obs.Time(ctx, "agents.List")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres agent repository: DB is nil")
	}

	rows, err := r.DB.Query(ctx, `SELECT`+agentColumns+` FROM agents ORDER BY agent_id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: query agents table: %w", err)
	}
	defer rows.Close()

	agents := make([]*domain.Agent, 0, 32)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("list agents: %w", err)
		}
		agents = append(agents, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list agents: row iteration: %w", err)
	}
	return agents, nil
}

func (r *PostgresAgentRepository) GetAgent(ctx context.Context, id string) (_ *domain.Agent, err error) {
	defer obs.Time(ctx, "agents.Get")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres agent repository: DB is nil")
	}

	row := r.DB.QueryRow(ctx, `SELECT`+agentColumns+` FROM agents WHERE agent_id = $1`, id)
	a, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get agent %q: %w", id, err)
	}
	return a, nil
}

// UpdateAgent locks the agent row, passes the current state to fn and
// writes back what fn returns, all in one transaction. Concurrent updates
// of the same agent are serialized by the row lock. An error from fn
// rolls the transaction back and is returned unchanged.
func (r *PostgresAgentRepository) UpdateAgent(
	ctx context.Context,
	id string,
	fn func(*domain.Agent) (*domain.Agent, error),
) (_ *domain.Agent, err error) {
	defer obs.Time(ctx, "agents.Update")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres agent repository: DB is nil")
	}

	var updated *domain.Agent
	err = pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT`+agentColumns+` FROM agents WHERE agent_id = $1 FOR UPDATE`, id)
		current, err := scanAgent(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAgentNotFound
		}
		if err != nil {
			return fmt.Errorf("lock agent %q: %w", id, err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil || next.AgentID != id {
			return fmt.Errorf("update agent %q: update returned a different agent", id)
		}

		if err := saveAgent(ctx, tx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// saveAgent writes status and performance counters. Location and
// capability fields are owned by other writers and left untouched.
func saveAgent(ctx context.Context, db querier, a *domain.Agent) error {
	query := `
	UPDATE agents SET
		status = $2,
		completed_count = $3,
		declined_count = $4,
		monthly_declines = $5,
		last_decline_reset = $6,
		success_rate = $7,
		active_missions = $8
	WHERE agent_id = $1
	`
	tag, err := db.Exec(ctx, query,
		a.AgentID,
		string(a.Status),
		a.CompletedCount,
		a.DeclinedCount,
		a.MonthlyDeclines,
		a.LastDeclineReset,
		a.SuccessRate,
		a.ActiveMissions,
	)
	if err != nil {
		return fmt.Errorf("save agent %q: %w", a.AgentID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var (
		a         domain.Agent
		status    string
		propTypes []string
		counties  []string
		cities    []string
	)

	if err := row.Scan(
		&a.AgentID,
		&a.Name,
		&a.Location.Lat,
		&a.Location.Lon,
		&a.LocationUpdatedAt,
		&status,
		&a.MaxRadiusMiles,
		&a.MaxHold,
		&a.MaxMonthlyDeclines,
		&a.CompletedCount,
		&a.DeclinedCount,
		&a.MonthlyDeclines,
		&a.LastDeclineReset,
		&a.SuccessRate,
		&a.ActiveMissions,
		&a.HandlesDangerous,
		&propTypes,
		&a.Language,
		&counties,
		&cities,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}

	a.Status = domain.AgentStatus(status)
	a.PropertyTypes = make([]domain.PropertyType, 0, len(propTypes))
	for _, pt := range propTypes {
		a.PropertyTypes = append(a.PropertyTypes, domain.PropertyType(pt))
	}
	a.Territory = territoryFrom(counties, cities)

	return &a, nil
}

func territoryFrom(counties, cities []string) *domain.TerritoryPreference {
	if len(counties) == 0 && len(cities) == 0 {
		return nil
	}
	return &domain.TerritoryPreference{Counties: counties, Cities: cities}
}
