package repositories

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	"field-dispatch-service/internal/domain"
)

type TargetSeed struct {
	TargetID                 string  `yaml:"target_id"`
	Lat                      float64 `yaml:"lat"`
	Lon                      float64 `yaml:"lon"`
	Address                  string  `yaml:"address"`
	IsDangerous              bool    `yaml:"is_dangerous"`
	IsBusiness               bool    `yaml:"is_business"`
	County                   string  `yaml:"county"`
	City                     string  `yaml:"city"`
	Priority                 float64 `yaml:"priority"`
	EstimatedDurationMinutes int     `yaml:"estimated_duration_minutes"`
}

type AgentSeed struct {
	AgentID            string   `yaml:"agent_id"`
	Name               string   `yaml:"name"`
	Lat                float64  `yaml:"lat"`
	Lon                float64  `yaml:"lon"`
	Status             string   `yaml:"status"`
	MaxRadiusMiles     float64  `yaml:"max_radius_miles"`
	MaxHold            int      `yaml:"max_hold"`
	MaxMonthlyDeclines int      `yaml:"max_monthly_declines"`
	SuccessRate        float64  `yaml:"success_rate"`
	ActiveMissions     int      `yaml:"active_missions"`
	HandlesDangerous   bool     `yaml:"handles_dangerous"`
	PropertyTypes      []string `yaml:"property_types"`
	Language           string   `yaml:"language"`
	Counties           []string `yaml:"counties"`
	Cities             []string `yaml:"cities"`
}

// SeedFile is the on-disk shape of demo data.
type SeedFile struct {
	Targets []TargetSeed `yaml:"targets"`
	Agents  []AgentSeed  `yaml:"agents"`
}

// LoadSeed reads and validates a YAML seed file.
func LoadSeed(path string) (*SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", path, err)
	}
	return ParseSeed(b)
}

func ParseSeed(b []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	for i := range f.Targets {
		t := &f.Targets[i]
		t.TargetID = strings.TrimSpace(t.TargetID)
		if t.TargetID == "" {
			return nil, fmt.Errorf("parse seed: target at index %d: target_id cannot be empty", i+1)
		}
		if !(domain.Coordinates{Lat: t.Lat, Lon: t.Lon}).Valid() {
			return nil, fmt.Errorf("parse seed: target %q: invalid coordinates", t.TargetID)
		}
		if t.EstimatedDurationMinutes <= 0 {
			t.EstimatedDurationMinutes = domain.ServiceMinutesPerStop
		}
	}

	for i := range f.Agents {
		a := &f.Agents[i]
		a.AgentID = strings.TrimSpace(a.AgentID)
		if a.AgentID == "" {
			return nil, fmt.Errorf("parse seed: agent at index %d: agent_id cannot be empty", i+1)
		}
		if !(domain.Coordinates{Lat: a.Lat, Lon: a.Lon}).Valid() {
			return nil, fmt.Errorf("parse seed: agent %q: invalid coordinates", a.AgentID)
		}
		if a.Status == "" {
			a.Status = string(domain.AgentAvailable)
		}
		if !domain.AgentStatus(a.Status).Valid() {
			return nil, fmt.Errorf("parse seed: agent %q: unknown status %q", a.AgentID, a.Status)
		}
		if len(a.PropertyTypes) == 0 {
			a.PropertyTypes = []string{string(domain.PropertyResidential)}
		}
		for _, pt := range a.PropertyTypes {
			switch domain.PropertyType(pt) {
			case domain.PropertyResidential, domain.PropertyCommercial:
			default:
				return nil, fmt.Errorf("parse seed: agent %q: unknown property type %q", a.AgentID, pt)
			}
		}
	}

	return &f, nil
}

// Beginner is satisfied by *pgxpool.Pool.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Seed upserts every target and agent in f inside one transaction.
// Agent locations are stamped with now so seeded agents start fresh.
func Seed(ctx context.Context, db Beginner, f *SeedFile, now time.Time) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	targetQuery := `
	INSERT INTO targets (
		target_id, lat, lon, address, is_dangerous, is_business,
		county, city, priority, estimated_duration_minutes
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (target_id) DO UPDATE SET
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		address = EXCLUDED.address,
		is_dangerous = EXCLUDED.is_dangerous,
		is_business = EXCLUDED.is_business,
		county = EXCLUDED.county,
		city = EXCLUDED.city,
		priority = EXCLUDED.priority,
		estimated_duration_minutes = EXCLUDED.estimated_duration_minutes
	`
	for _, t := range f.Targets {
		if _, err := tx.Exec(ctx, targetQuery,
			t.TargetID, t.Lat, t.Lon, t.Address, t.IsDangerous, t.IsBusiness,
			t.County, t.City, t.Priority, t.EstimatedDurationMinutes,
		); err != nil {
			return fmt.Errorf("seed: insert target_id=%s: %w", t.TargetID, err)
		}
	}

	agentQuery := `
	INSERT INTO agents (
		agent_id, name, lat, lon, location_updated_at, status,
		max_radius_miles, max_hold, max_monthly_declines, success_rate,
		active_missions, handles_dangerous, property_types, language,
		territory_counties, territory_cities, last_decline_reset
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $5)
	ON CONFLICT (agent_id) DO UPDATE SET
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		location_updated_at = EXCLUDED.location_updated_at,
		status = EXCLUDED.status,
		max_radius_miles = EXCLUDED.max_radius_miles,
		max_hold = EXCLUDED.max_hold,
		max_monthly_declines = EXCLUDED.max_monthly_declines,
		success_rate = EXCLUDED.success_rate,
		active_missions = EXCLUDED.active_missions,
		handles_dangerous = EXCLUDED.handles_dangerous,
		property_types = EXCLUDED.property_types,
		language = EXCLUDED.language,
		territory_counties = EXCLUDED.territory_counties,
		territory_cities = EXCLUDED.territory_cities
	`
	for _, a := range f.Agents {
		if _, err := tx.Exec(ctx, agentQuery,
			a.AgentID, a.Name, a.Lat, a.Lon, now, a.Status,
			a.MaxRadiusMiles, a.MaxHold, a.MaxMonthlyDeclines, a.SuccessRate,
			a.ActiveMissions, a.HandlesDangerous, a.PropertyTypes, a.Language,
			a.Counties, a.Cities,
		); err != nil {
			return fmt.Errorf("seed: insert agent_id=%s: %w", a.AgentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
