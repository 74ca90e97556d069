package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/logger"
	"field-dispatch-service/internal/platform/metrics"
	"field-dispatch-service/internal/platform/retry"
	"field-dispatch-service/internal/ports"
)

const (
	metersPerMile = 1609.344

	DefaultBatchSize  = 3
	DefaultBatchPause = time.Second
	DefaultTravelMode = "driving"
)

// ErrInvalidProviderResponse marks a provider answer that cannot be mapped
// back onto the requested stops.
var ErrInvalidProviderResponse = errors.New("invalid provider response")

// RouteRequest asks for one agent's stops to be sequenced from Start.
type RouteRequest struct {
	AgentID string
	Start   domain.Coordinates
	Targets []*domain.Target
}

// RouteSequencer orders an agent's stops. With a provider configured it
// asks the provider first and falls back to nearest-neighbor + 2-opt when
// the provider is unavailable, returns garbage or the stop count exceeds
// its limit. Build one with NewRouteSequencer.
type RouteSequencer struct {
	provider ports.RouteProvider
	cache    ports.RouteCache
	retry    retry.Policy

	batchSize  int
	batchPause time.Duration
	sleep      func(ctx context.Context, d time.Duration) error

	mode  string
	avoid []string

	metrics *metrics.Collector
	log     *slog.Logger
}

type SequencerOption func(*RouteSequencer)

func WithProvider(p ports.RouteProvider) SequencerOption {
	return func(s *RouteSequencer) { s.provider = p }
}

func WithCache(c ports.RouteCache) SequencerOption {
	return func(s *RouteSequencer) { s.cache = c }
}

func WithRetryPolicy(p retry.Policy) SequencerOption {
	return func(s *RouteSequencer) { s.retry = p }
}

// WithBatching sets how many requests SequenceBatch runs at once and the
// pause between consecutive batches.
func WithBatching(size int, pause time.Duration) SequencerOption {
	return func(s *RouteSequencer) {
		if size > 0 {
			s.batchSize = size
		}
		if pause >= 0 {
			s.batchPause = pause
		}
	}
}

// WithSleep replaces the wait used for retry backoff and batch pauses.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) SequencerOption {
	return func(s *RouteSequencer) { s.sleep = fn }
}

func WithTravelMode(mode string, avoid ...string) SequencerOption {
	return func(s *RouteSequencer) {
		if mode != "" {
			s.mode = mode
		}
		s.avoid = avoid
	}
}

func WithMetrics(m *metrics.Collector) SequencerOption {
	return func(s *RouteSequencer) { s.metrics = m }
}

func WithLogger(l *slog.Logger) SequencerOption {
	return func(s *RouteSequencer) { s.log = l }
}

func NewRouteSequencer(opts ...SequencerOption) *RouteSequencer {
	s := &RouteSequencer{
		retry:      retry.Default(),
		batchSize:  DefaultBatchSize,
		batchPause: DefaultBatchPause,
		sleep:      sleepContext,
		mode:       DefaultTravelMode,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.retry.Sleep == nil {
		s.retry.Sleep = s.sleep
	}
	if s.retry.Retryable == nil {
		s.retry.Retryable = isRetryableProviderError
	}

	return s
}

// Sequence orders req.Targets into a route starting at req.Start.
// It never returns an error; failures are reported on the result.
func (s *RouteSequencer) Sequence(ctx context.Context, req RouteRequest) domain.RouteOptimizationResult {
	log := logger.FromContext(ctx, s.log).With("agent_id", req.AgentID)

	if !req.Start.Valid() {
		return failedRoute(req.AgentID, fmt.Errorf("sequence route: invalid start location %+v", req.Start))
	}

	points := make([]domain.RoutePoint, 0, len(req.Targets))
	for i, t := range req.Targets {
		if t == nil {
			return failedRoute(req.AgentID, fmt.Errorf("sequence route: target at index %d is nil", i))
		}
		if !t.Location.Valid() {
			return failedRoute(req.AgentID, fmt.Errorf("sequence route: target %q has invalid location", t.TargetID))
		}
		points = append(points, domain.RoutePoint{
			TargetID:                 t.TargetID,
			Location:                 t.Location,
			Address:                  t.Address,
			EstimatedDurationMinutes: t.EstimatedDurationMinutes,
			OriginalIndex:            i,
			OptimizedIndex:           i,
		})
	}

	original := identityOrder(len(points))
	originalDistance := pathDistance(req.Start, points, original)

	if len(points) < 2 {
		route := &domain.Route{
			AgentID:            req.AgentID,
			Start:              req.Start,
			Points:             points,
			TotalDistanceMiles: originalDistance,
			TotalMinutes:       domain.EstimateRouteMinutes(originalDistance, len(points)),
			Source:             domain.RouteSourceTrivial,
		}
		s.metrics.ObserveRoute(string(route.Source))
		return domain.RouteOptimizationResult{
			AgentID:                req.AgentID,
			Success:                true,
			Route:                  route,
			OriginalDistanceMiles:  originalDistance,
			OptimizedDistanceMiles: originalDistance,
		}
	}

	var route *domain.Route

	if s.provider != nil && len(points) <= s.provider.MaxWaypoints() {
		r, err := s.providerRoute(ctx, req, points)
		if err != nil {
			log.WarnContext(ctx, "routing provider failed, using heuristic",
				"stops", len(points), "retries_exhausted", retry.IsExhausted(err), "err", err)
		} else {
			route = r
		}
	} else if s.provider != nil {
		log.DebugContext(ctx, "stop count exceeds provider limit, using heuristic",
			"stops", len(points), "limit", s.provider.MaxWaypoints())
	}

	if route == nil {
		route = s.heuristicRoute(req, points)
	}

	optimizedOrder := make([]int, len(route.Points))
	for i, p := range route.Points {
		optimizedOrder[i] = p.OriginalIndex
	}
	optimizedDistance := pathDistance(req.Start, points, optimizedOrder)

	saved := (originalDistance - optimizedDistance) * domain.MinutesPerMile
	if saved < 0 {
		saved = 0
	}

	s.metrics.ObserveRoute(string(route.Source))

	return domain.RouteOptimizationResult{
		AgentID:                req.AgentID,
		Success:                true,
		Route:                  route,
		OriginalDistanceMiles:  originalDistance,
		OptimizedDistanceMiles: optimizedDistance,
		TimeSavedMinutes:       saved,
	}
}

func (s *RouteSequencer) heuristicRoute(req RouteRequest, points []domain.RoutePoint) *domain.Route {
	order := twoOpt(req.Start, points, nearestNeighborOrder(req.Start, points))
	dist := pathDistance(req.Start, points, order)

	return &domain.Route{
		AgentID:            req.AgentID,
		Start:              req.Start,
		Points:             reorder(points, order),
		TotalDistanceMiles: dist,
		TotalMinutes:       domain.EstimateRouteMinutes(dist, len(points)),
		Optimized:          !isIdentity(order),
		Source:             domain.RouteSourceHeuristic,
	}
}

func (s *RouteSequencer) providerRoute(ctx context.Context, req RouteRequest, points []domain.RoutePoint) (_ *domain.Route, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider route: panic: %v", r)
		}
	}()

	preq := ports.ProviderRouteRequest{
		Origin:    req.Start,
		Waypoints: make([]domain.Coordinates, len(points)),
		Mode:      s.mode,
		Avoid:     s.avoid,
	}
	for i, p := range points {
		preq.Waypoints[i] = p.Location
	}

	key := routeCacheKey(preq)
	resp, hit := s.cachedResponse(ctx, key, len(points))

	if !hit {
		err = s.retry.Do(ctx, func(ctx context.Context, attempt int) error {
			r, callErr := s.provider.OptimizeRoute(ctx, preq)
			if callErr == nil {
				callErr = validateProviderResponse(r, len(points))
			}
			s.metrics.ObserveProviderCall(callErr)
			if callErr != nil {
				logger.FromContext(ctx, s.log).DebugContext(ctx, "routing provider attempt failed",
					"agent_id", req.AgentID, "attempt", attempt, "err", callErr)
				return callErr
			}
			resp = r
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("provider route: %w", err)
		}

		if s.cache != nil {
			if putErr := s.cache.Put(ctx, key, resp); putErr != nil {
				logger.FromContext(ctx, s.log).WarnContext(ctx, "route cache put failed", "err", putErr)
			}
		}
	}

	meters := 0
	seconds := 0
	for _, leg := range resp.Legs {
		meters += leg.DistanceMeters
		seconds += leg.DurationSeconds
	}
	if resp.DistanceMeters > 0 {
		meters = resp.DistanceMeters
	}
	if resp.DurationSeconds > 0 {
		seconds = resp.DurationSeconds
	}

	return &domain.Route{
		AgentID:            req.AgentID,
		Start:              req.Start,
		Points:             reorder(points, resp.WaypointOrder),
		TotalDistanceMiles: float64(meters) / metersPerMile,
		TotalMinutes:       float64(seconds)/60 + float64(domain.ServiceMinutesPerStop*len(points)),
		Optimized:          !isIdentity(resp.WaypointOrder),
		Source:             domain.RouteSourceProvider,
	}, nil
}

func (s *RouteSequencer) cachedResponse(ctx context.Context, key string, stops int) (ports.ProviderRouteResponse, bool) {
	if s.cache == nil {
		return ports.ProviderRouteResponse{}, false
	}

	resp, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx, s.log).WarnContext(ctx, "route cache get failed", "err", err)
		return ports.ProviderRouteResponse{}, false
	}
	if !ok || validateProviderResponse(resp, stops) != nil {
		return ports.ProviderRouteResponse{}, false
	}
	return resp, true
}

// validateProviderResponse checks that the order is a permutation of
// 0..stops-1 and that there is exactly one leg per stop.
func validateProviderResponse(resp ports.ProviderRouteResponse, stops int) error {
	if len(resp.WaypointOrder) != stops {
		return fmt.Errorf("%w: order has %d entries, want %d", ErrInvalidProviderResponse, len(resp.WaypointOrder), stops)
	}
	if len(resp.Legs) != stops {
		return fmt.Errorf("%w: %d legs, want %d", ErrInvalidProviderResponse, len(resp.Legs), stops)
	}

	seen := make([]bool, stops)
	for _, idx := range resp.WaypointOrder {
		if idx < 0 || idx >= stops {
			return fmt.Errorf("%w: waypoint index %d out of range", ErrInvalidProviderResponse, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: waypoint index %d repeated", ErrInvalidProviderResponse, idx)
		}
		seen[idx] = true
	}

	for i, leg := range resp.Legs {
		if leg.DistanceMeters < 0 || leg.DurationSeconds < 0 {
			return fmt.Errorf("%w: leg %d has negative metrics", ErrInvalidProviderResponse, i)
		}
	}
	return nil
}

func isRetryableProviderError(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// routeCacheKey fingerprints everything that can change the provider's answer.
func routeCacheKey(req ports.ProviderRouteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%.6f,%.6f", req.Mode, strings.Join(req.Avoid, ","), req.Origin.Lat, req.Origin.Lon)
	for _, w := range req.Waypoints {
		fmt.Fprintf(&b, "|%.6f,%.6f", w.Lat, w.Lon)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "route:" + hex.EncodeToString(sum[:])
}

func reorder(points []domain.RoutePoint, order []int) []domain.RoutePoint {
	out := make([]domain.RoutePoint, len(order))
	for pos, idx := range order {
		p := points[idx]
		p.OptimizedIndex = pos
		out[pos] = p
	}
	return out
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func isIdentity(order []int) bool {
	for i, idx := range order {
		if i != idx {
			return false
		}
	}
	return true
}

func failedRoute(agentID string, err error) domain.RouteOptimizationResult {
	return domain.RouteOptimizationResult{
		AgentID: agentID,
		Success: false,
		Error:   err.Error(),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
