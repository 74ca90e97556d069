package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"field-dispatch-service/internal/platform/obs"
	"field-dispatch-service/internal/ports"
)

// RedisRouteCache stores provider route answers as JSON with a TTL.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

type cachedRoute struct {
	WaypointOrder   []int       `json:"waypoint_order"`
	Legs            []cachedLeg `json:"legs"`
	DistanceMeters  int         `json:"distance_meters"`
	DurationSeconds int         `json:"duration_seconds"`
}

type cachedLeg struct {
	DistanceMeters  int `json:"distance_meters"`
	DurationSeconds int `json:"duration_seconds"`
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ ports.ProviderRouteResponse, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if c.Client == nil {
		return ports.ProviderRouteResponse{}, false, errors.New("route cache: client is nil")
	}

	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.ProviderRouteResponse{}, false, nil
	}
	if err != nil {
		return ports.ProviderRouteResponse{}, false, fmt.Errorf("route cache get %q: %w", key, err)
	}

	var v cachedRoute
	if err := json.Unmarshal(b, &v); err != nil {
		return ports.ProviderRouteResponse{}, false, fmt.Errorf("route cache decode %q: %w", key, err)
	}

	resp := ports.ProviderRouteResponse{
		WaypointOrder:   v.WaypointOrder,
		Legs:            make([]ports.ProviderLeg, 0, len(v.Legs)),
		DistanceMeters:  v.DistanceMeters,
		DurationSeconds: v.DurationSeconds,
	}
	for _, l := range v.Legs {
		resp.Legs = append(resp.Legs, ports.ProviderLeg{
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
		})
	}

	return resp, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, resp ports.ProviderRouteResponse) (err error) {
	defer obs.Time(ctx, "route.cache.Put")(&err)

	if c.Client == nil {
		return errors.New("route cache: client is nil")
	}

	v := cachedRoute{
		WaypointOrder:   resp.WaypointOrder,
		Legs:            make([]cachedLeg, 0, len(resp.Legs)),
		DistanceMeters:  resp.DistanceMeters,
		DurationSeconds: resp.DurationSeconds,
	}
	for _, l := range resp.Legs {
		v.Legs = append(v.Legs, cachedLeg{
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
		})
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("route cache encode %q: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, b, c.TTL).Err(); err != nil {
		return fmt.Errorf("route cache set %q: %w", key, err)
	}
	return nil
}
