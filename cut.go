package protoclust

import (
	"cmp"
	"fmt"
	"slices"
)

// Cut flattens the hierarchy into k clusters by applying the n-k merges
// with the smallest radii. labels[i] is the flat cluster of point i,
// numbered in order of each cluster's smallest point; prototypes[c] is the
// prototype of flat cluster c.
//
// Minimax linkage has no inversions, so a merge's radius is never below the
// radii of the clusters it joins and the applied merges always form whole
// subtrees.
func (r *Result) Cut(k int) (labels, prototypes []int, err error) {
	n := r.N()
	if k < 1 || k > n {
		return nil, nil, fmt.Errorf("protoclust: cut into %d clusters, want 1..%d: %w", k, n, ErrInvalidInput)
	}
	return r.flatten(r.lowestMerges(n - k))
}

// CutHeight flattens the hierarchy by applying every merge whose radius is
// at most h.
func (r *Result) CutHeight(h float64) (labels, prototypes []int, err error) {
	var apply []int
	for _, l := range r.lowestMerges(len(r.Merges)) {
		if r.Merges[l].Distance > h {
			break
		}
		apply = append(apply, l)
	}
	return r.flatten(apply)
}

// lowestMerges returns the indices of the count lowest merges, ordered by
// radius and then by merge order, so children precede parents.
func (r *Result) lowestMerges(count int) []int {
	order := make([]int, len(r.Merges))
	for l := range order {
		order[l] = l
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(r.Merges[a].Distance, r.Merges[b].Distance)
	})
	return order[:count]
}

func (r *Result) flatten(apply []int) (labels, prototypes []int, err error) {
	n := r.N()
	uf := NewUnionFind(n)
	// top maps a union-find root to the highest cluster id in its set.
	top := make(map[int]int, len(apply))
	applied := make([]bool, len(r.Merges))

	for _, l := range apply {
		m := r.Merges[l]
		newID := n + l
		for _, child := range [2]int{m.Left, m.Right} {
			if child >= n && !applied[child-n] {
				return nil, nil, fmt.Errorf("protoclust: merge %d applied before its child %d: %w", l, child, ErrInvariantViolation)
			}
		}
		root := uf.Apply(m, newID)
		if got := uf.Size(root); got != m.Size {
			return nil, nil, fmt.Errorf("protoclust: merge %d joins %d points, recorded size %d: %w", l, got, m.Size, ErrInvariantViolation)
		}
		top[root] = newID
		applied[l] = true
	}

	labels = make([]int, n)
	flat := make(map[int]int)
	for i := 0; i < n; i++ {
		root := uf.Find(i)
		id, ok := top[root]
		if !ok {
			id = i
		}
		label, seen := flat[id]
		if !seen {
			label = len(prototypes)
			flat[id] = label
			prototypes = append(prototypes, r.Centers[id])
		}
		labels[i] = label
	}
	return labels, prototypes, nil
}
