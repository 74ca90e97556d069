package services

import "field-dispatch-service/internal/domain"

// Smallest gain accepted as an improvement; absorbs float noise so the
// search always terminates.
const twoOptEpsilon = 1e-9

// twoOpt repeatedly reverses sub-segments of the open path start→order
// and keeps any reversal that strictly shortens it, until no improving
// reversal remains. The returned order is never longer than the input.
func twoOpt(start domain.Coordinates, points []domain.RoutePoint, order []int) []int {
	out := make([]int, len(order))
	copy(out, order)

	n := len(out)
	if n < 2 {
		return out
	}

	loc := func(pos int) domain.Coordinates {
		if pos < 0 {
			return start
		}
		return points[out[pos]].Location
	}

	improved := true
	for improved {
		improved = false
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				prev := loc(i - 1)
				before := domain.DistanceMiles(prev, loc(i))
				after := domain.DistanceMiles(prev, loc(j))

				// The path is open: reversing a tail segment has no outgoing edge.
				if j < n-1 {
					next := loc(j + 1)
					before += domain.DistanceMiles(loc(j), next)
					after += domain.DistanceMiles(loc(i), next)
				}

				if after-before < -twoOptEpsilon {
					reverse(out, i, j)
					improved = true
				}
			}
		}
	}

	return out
}

func reverse(order []int, i, j int) {
	for i < j {
		order[i], order[j] = order[j], order[i]
		i++
		j--
	}
}
