package services

import (
	"math"

	"field-dispatch-service/internal/domain"
)

// nearestNeighborOrder builds a visiting order greedily: from the current
// location, always travel to the closest unvisited stop.
//
// It does not attempt global optimization; twoOpt refines the result.
// Ties are broken by target id so the order is deterministic.
func nearestNeighborOrder(start domain.Coordinates, points []domain.RoutePoint) []int {
	remaining := make(map[int]struct{}, len(points))
	for i := range points {
		remaining[i] = struct{}{}
	}

	order := make([]int, 0, len(points))
	current := start

	for len(remaining) > 0 {
		best := -1
		minDistance := math.Inf(1)

		// Select next stop by minimum travel distance (greedy step).
		for i := range remaining {
			d := domain.DistanceMiles(current, points[i].Location)
			if d < minDistance || (d == minDistance && (best == -1 || lessStop(points, i, best))) {
				minDistance = d
				best = i
			}
		}

		order = append(order, best)
		delete(remaining, best)
		current = points[best].Location
	}

	return order
}

func lessStop(points []domain.RoutePoint, a, b int) bool {
	if points[a].TargetID != points[b].TargetID {
		return points[a].TargetID < points[b].TargetID
	}
	return a < b
}

// pathDistance is the open-path length from start through points in order.
func pathDistance(start domain.Coordinates, points []domain.RoutePoint, order []int) float64 {
	total := 0.0
	current := start
	for _, idx := range order {
		total += domain.DistanceMiles(current, points[idx].Location)
		current = points[idx].Location
	}
	return total
}
