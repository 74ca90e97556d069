// Package config loads service settings from the environment (optionally
// primed from a .env file) and assignment defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	RedisURL    string

	RoutingAPIKey     string
	RoutingBaseURL    string
	RoutingRatePerSec float64
	RouteCacheTTL     time.Duration
	RoutingMode       string
	RoutingAvoid      []string

	CriteriaFile string
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	cfg := Config{
		Env:            Get("APP_ENV", "development"),
		Port:           Get("PORT", "8080"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
		RoutingAPIKey:  strings.TrimSpace(os.Getenv("ROUTING_API_KEY")),
		RoutingBaseURL: Get("ROUTING_BASE_URL", "https://maps.googleapis.com/maps/api"),
		CriteriaFile:   strings.TrimSpace(os.Getenv("CRITERIA_FILE")),
	}

	rate, err := strconv.ParseFloat(Get("ROUTING_RATE_PER_SEC", "5"), 64)
	if err != nil || rate <= 0 {
		return Config{}, fmt.Errorf("load config: ROUTING_RATE_PER_SEC must be a positive number")
	}
	cfg.RoutingRatePerSec = rate

	ttl, err := time.ParseDuration(Get("ROUTE_CACHE_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: ROUTE_CACHE_TTL: %w", err)
	}
	cfg.RouteCacheTTL = ttl

	cfg.RoutingMode = strings.ToLower(Get("ROUTING_MODE", "driving"))
	if !validRoutingModes[cfg.RoutingMode] {
		return Config{}, fmt.Errorf("load config: ROUTING_MODE %q is not one of driving, walking, bicycling, transit", cfg.RoutingMode)
	}

	avoid, err := parseAvoid(os.Getenv("ROUTING_AVOID"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: ROUTING_AVOID: %w", err)
	}
	cfg.RoutingAvoid = avoid

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("load config: DATABASE_URL is required")
	}

	return cfg, nil
}

var (
	validRoutingModes = map[string]bool{"driving": true, "walking": true, "bicycling": true, "transit": true}
	validAvoid        = map[string]bool{"tolls": true, "highways": true, "ferries": true, "indoor": true}
)

// parseAvoid splits a comma separated list of route features to avoid.
func parseAvoid(raw string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		v := strings.ToLower(strings.TrimSpace(part))
		if v == "" {
			continue
		}
		if !validAvoid[v] {
			return nil, fmt.Errorf("unknown feature %q", v)
		}
		out = append(out, v)
	}
	return out, nil
}

// RoutingEnabled reports whether an external routing provider is configured.
func (c Config) RoutingEnabled() bool { return c.RoutingAPIKey != "" }

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
