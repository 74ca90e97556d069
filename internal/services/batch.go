package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/logger"
)

// SequenceBatch sequences every request, running up to the configured
// batch size at once and pausing between batches. Results are returned in
// request order. A failure or panic in one request only fails that
// request's result.
func (s *RouteSequencer) SequenceBatch(ctx context.Context, reqs []RouteRequest) []domain.RouteOptimizationResult {
	results := make([]domain.RouteOptimizationResult, len(reqs))

	size := s.batchSize
	if size < 1 {
		size = 1
	}

	for start := 0; start < len(reqs); start += size {
		if start > 0 && s.batchPause > 0 {
			if err := s.sleep(ctx, s.batchPause); err != nil {
				for i := start; i < len(reqs); i++ {
					results[i] = failedRoute(reqs[i].AgentID, fmt.Errorf("sequence batch: %w", err))
				}
				return results
			}
		}

		end := min(start+size, len(reqs))

		// Plain Group, not WithContext: one failure must not cancel siblings.
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = s.sequenceIsolated(ctx, reqs[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	return results
}

func (s *RouteSequencer) sequenceIsolated(ctx context.Context, req RouteRequest) (res domain.RouteOptimizationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx, s.log).ErrorContext(ctx, "route sequencing panicked", "agent_id", req.AgentID, "panic", r)
			res = failedRoute(req.AgentID, fmt.Errorf("sequence route: panic: %v", r))
		}
	}()
	return s.Sequence(ctx, req)
}
