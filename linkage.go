package protoclust

import "math"

// Minimax computes the minimax linkage between two disjoint member sets g
// and h. For each candidate center c in g ∪ h, r(c) is the largest distance
// from c to any other member; the result is the smallest r(c) and the c
// achieving it, preferring the smallest point index on ties.
//
// g and h must be sorted ascending and non-empty. Distances always come from
// the point-level oracle: the radius of a union does not follow from the
// radii of its parts.
func Minimax(d PointDistances, g, h []int) (radius float64, center int) {
	return MinimaxRadius(d, mergeSorted(g, h))
}

// MinimaxRadius is Minimax over a single sorted member set. A singleton has
// radius 0 and is its own center.
func MinimaxRadius(d PointDistances, members []int) (radius float64, center int) {
	if len(members) == 0 {
		return math.Inf(1), -1
	}
	if len(members) == 1 {
		return 0, members[0]
	}

	radius = math.Inf(1)
	center = -1
	for _, c := range members {
		// Candidates are visited in ascending order, so once a later
		// candidate's running max reaches the best radius it cannot win.
		r := 0.0
		pruned := false
		for _, p := range members {
			if p == c {
				continue
			}
			if v := d.Distance(c, p); v > r {
				r = v
				if center >= 0 && r >= radius {
					pruned = true
					break
				}
			}
		}
		if pruned {
			continue
		}
		if center < 0 || r < radius {
			radius = r
			center = c
		}
	}
	return radius, center
}

// mergeSorted returns the sorted union of two sorted, disjoint slices.
func mergeSorted(g, h []int) []int {
	out := make([]int, 0, len(g)+len(h))
	a, b := 0, 0
	for a < len(g) && b < len(h) {
		if g[a] < h[b] {
			out = append(out, g[a])
			a++
		} else {
			out = append(out, h[b])
			b++
		}
	}
	out = append(out, g[a:]...)
	out = append(out, h[b:]...)
	return out
}
