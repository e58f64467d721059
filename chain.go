package protoclust

import (
	"fmt"
	"slices"
)

// Chain is the nearest-neighbor chain: a path of active cluster ids where
// each entry is the nearest neighbor of the one before it. Growth stops as
// soon as the last two entries are reciprocal nearest neighbors. After that
// pair is merged the rest of the path stays valid, so the next Grow resumes
// from it rather than from a fresh seed.
type Chain struct {
	store *DistanceStore
	ids   []int
}

// NewChain returns an empty chain reading cluster distances from store.
func NewChain(store *DistanceStore) *Chain {
	return &Chain{store: store}
}

// Len returns the number of ids on the chain.
func (c *Chain) Len() int { return len(c.ids) }

// IDs returns a copy of the chain, oldest entry first.
func (c *Chain) IDs() []int { return slices.Clone(c.ids) }

// Grow extends the chain until its last two entries are reciprocal nearest
// neighbors. active must list the active ids in ascending order and contain
// at least two ids. An empty chain is seeded with active[0].
//
// Nearest-neighbor ties go to the smallest id, which rules out cycles; a
// chain that has not closed after len(active) probes, or that revisits one
// of its own earlier entries, means the store is corrupt.
func (c *Chain) Grow(active []int) error {
	if len(active) < 2 {
		return fmt.Errorf("protoclust: grow with %d active clusters: %w", len(active), ErrInvariantViolation)
	}
	if len(c.ids) == 0 {
		c.ids = append(c.ids, active[0])
	}

	for probe := 0; probe < len(active); probe++ {
		last := c.ids[len(c.ids)-1]
		next, err := c.nearest(last, active)
		if err != nil {
			return err
		}
		if len(c.ids) >= 2 && next == c.ids[len(c.ids)-2] {
			return nil
		}
		if slices.Contains(c.ids, next) {
			return fmt.Errorf("protoclust: chain %v revisits cluster %d: %w", c.ids, next, ErrInvariantViolation)
		}
		c.ids = append(c.ids, next)
	}
	return fmt.Errorf("protoclust: chain did not close within %d probes: %w", len(active), ErrInvariantViolation)
}

// nearest returns the active id closest to id, smallest id on ties.
func (c *Chain) nearest(id int, active []int) (int, error) {
	best := -1
	var bestDist float64
	for _, a := range active {
		if a == id {
			continue
		}
		d, err := c.store.Get(id, a)
		if err != nil {
			return -1, fmt.Errorf("protoclust: nearest neighbor of %d: %w: %w", id, ErrInvariantViolation, err)
		}
		if best < 0 || d < bestDist {
			best, bestDist = a, d
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("protoclust: no nearest neighbor for %d: %w", id, ErrInvariantViolation)
	}
	return best, nil
}

// RNN returns the reciprocal nearest-neighbor pair found by the last Grow:
// the second-to-last and last chain entries.
func (c *Chain) RNN() (i, j int, ok bool) {
	if len(c.ids) < 2 {
		return -1, -1, false
	}
	return c.ids[len(c.ids)-2], c.ids[len(c.ids)-1], true
}

// RemoveRNN pops the merged pair i, j off the end of the chain and keeps
// the prefix for the next Grow.
func (c *Chain) RemoveRNN(i, j int) error {
	a, b, ok := c.RNN()
	if !ok || !((a == i && b == j) || (a == j && b == i)) {
		return fmt.Errorf("protoclust: chain %v does not end in pair (%d, %d): %w", c.ids, i, j, ErrInvariantViolation)
	}
	c.ids = c.ids[:len(c.ids)-2]
	return nil
}
