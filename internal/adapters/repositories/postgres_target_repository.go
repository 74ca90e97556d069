package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/obs"
)

// Postgres-backed implementation of the TargetRepository port.
type PostgresTargetRepository struct{ DB querier }

func NewPostgresTargetRepository(db querier) *PostgresTargetRepository {
	return &PostgresTargetRepository{DB: db}
}

const targetColumns = `
	target_id,
	lat,
	lon,
	address,
	is_dangerous,
	is_business,
	county,
	city,
	priority,
	estimated_duration_minutes`

// Return all targets ordered by id.
func (r *PostgresTargetRepository) ListTargets(ctx context.Context) (_ []*domain.Target, err error) {
	defer obs.Time(ctx, "targets.List")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres target repository: DB is nil")
	}

	rows, err := r.DB.Query(ctx, `SELECT`+targetColumns+` FROM targets ORDER BY target_id`)
	if err != nil {
		return nil, fmt.Errorf("list targets: query targets table: %w", err)
	}

	targets, err := collectTargets(rows)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	return targets, nil
}

// Return the targets with the given ids in the order requested.
// Unknown ids are skipped.
func (r *PostgresTargetRepository) GetTargets(ctx context.Context, ids []string) (_ []*domain.Target, err error) {
	defer obs.Time(ctx, "targets.Get")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres target repository: DB is nil")
	}
	if len(ids) == 0 {
		return []*domain.Target{}, nil
	}

	rows, err := r.DB.Query(ctx, `SELECT`+targetColumns+` FROM targets WHERE target_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get targets: query targets table: %w", err)
	}

	found, err := collectTargets(rows)
	if err != nil {
		return nil, fmt.Errorf("get targets: %w", err)
	}

	return orderTargets(found, ids), nil
}

func collectTargets(rows pgx.Rows) ([]*domain.Target, error) {
	defer rows.Close()

	targets := make([]*domain.Target, 0, 64)
	for rows.Next() {
		var t domain.Target
		if err := rows.Scan(
			&t.TargetID,
			&t.Location.Lat,
			&t.Location.Lon,
			&t.Address,
			&t.IsDangerous,
			&t.IsBusiness,
			&t.County,
			&t.City,
			&t.Priority,
			&t.EstimatedDurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		targets = append(targets, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return targets, nil
}

// orderTargets returns found in the order of ids, dropping unknown and
// repeated ids.
func orderTargets(found []*domain.Target, ids []string) []*domain.Target {
	byID := make(map[string]*domain.Target, len(found))
	for _, t := range found {
		byID[t.TargetID] = t
	}

	out := make([]*domain.Target, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
			delete(byID, id)
		}
	}
	return out
}
