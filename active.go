package protoclust

import (
	"fmt"
	"slices"
)

// activeSet is the ascending list of cluster ids not yet absorbed by a
// merge. New ids are always larger than every existing id, so add appends.
type activeSet struct {
	ids []int
}

func newActiveSet(n int) *activeSet {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return &activeSet{ids: ids}
}

func (a *activeSet) len() int { return len(a.ids) }

// replace removes the merged pair i, j and appends newID.
func (a *activeSet) replace(i, j, newID int) error {
	for _, id := range [2]int{i, j} {
		k, found := slices.BinarySearch(a.ids, id)
		if !found {
			return fmt.Errorf("protoclust: cluster %d is not active: %w", id, ErrInvariantViolation)
		}
		a.ids = slices.Delete(a.ids, k, k+1)
	}
	if len(a.ids) > 0 && a.ids[len(a.ids)-1] >= newID {
		return fmt.Errorf("protoclust: new cluster %d is not above active id %d: %w",
			newID, a.ids[len(a.ids)-1], ErrInvariantViolation)
	}
	a.ids = append(a.ids, newID)
	return nil
}
