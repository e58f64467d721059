package protoclust

import "fmt"

// DistanceStore holds minimax distances between clusters. It is sized once
// for every cluster id a run can create (n leaves plus n-1 merges, 2n-1
// slots) and tracks which slots are active, so removing merged clusters
// never shifts the ids of the others.
//
// Cells are kept in condensed lower-triangular order: the pair (i, j) with
// i > j lives at i*(i-1)/2 + j.
type DistanceStore struct {
	slots  int
	cells  []float64
	active []bool
}

// NewDistanceStore allocates a store for d.Len() points and fills the leaf
// slots 0..n-1 from d. Leaf slots start active.
func NewDistanceStore(d PointDistances) *DistanceStore {
	n := d.Len()
	slots := 2*n - 1
	if slots < 1 {
		slots = 1
	}
	s := &DistanceStore{
		slots:  slots,
		cells:  make([]float64, slots*(slots-1)/2),
		active: make([]bool, slots),
	}
	for i := 0; i < n; i++ {
		row := i * (i - 1) / 2
		for j := 0; j < i; j++ {
			s.cells[row+j] = d.Distance(i, j)
		}
		s.active[i] = true
	}
	return s
}

// Slots returns the number of cluster ids the store can address.
func (s *DistanceStore) Slots() int { return s.slots }

// Active reports whether id is an addressable, active slot.
func (s *DistanceStore) Active(id int) bool {
	return id >= 0 && id < s.slots && s.active[id]
}

func (s *DistanceStore) index(i, j int) int {
	if i < j {
		i, j = j, i
	}
	return i*(i-1)/2 + j
}

// Get returns the stored distance between two active clusters.
func (s *DistanceStore) Get(i, j int) (float64, error) {
	if i == j {
		return 0, fmt.Errorf("protoclust: get(%d, %d): %w", i, j, ErrUndefinedSelfDistance)
	}
	if !s.Active(i) {
		return 0, fmt.Errorf("protoclust: get(%d, %d): id %d: %w", i, j, i, ErrOutOfRange)
	}
	if !s.Active(j) {
		return 0, fmt.Errorf("protoclust: get(%d, %d): id %d: %w", i, j, j, ErrOutOfRange)
	}
	return s.cells[s.index(i, j)], nil
}

// Insert writes the distances from newID to each of ids (dists[k] belongs to
// ids[k]) and marks newID active. Every id in ids must be active and newID
// must not be.
func (s *DistanceStore) Insert(newID int, ids []int, dists []float64) error {
	if newID < 0 || newID >= s.slots {
		return fmt.Errorf("protoclust: insert %d: %w", newID, ErrOutOfRange)
	}
	if s.active[newID] {
		return fmt.Errorf("protoclust: insert %d: slot already active: %w", newID, ErrOutOfRange)
	}
	if len(ids) != len(dists) {
		return fmt.Errorf("protoclust: insert %d: %d ids but %d distances: %w",
			newID, len(ids), len(dists), ErrOutOfRange)
	}
	for k, a := range ids {
		if a == newID {
			return fmt.Errorf("protoclust: insert %d: %w", newID, ErrUndefinedSelfDistance)
		}
		if !s.Active(a) {
			return fmt.Errorf("protoclust: insert %d: id %d: %w", newID, a, ErrOutOfRange)
		}
		s.cells[s.index(newID, a)] = dists[k]
	}
	s.active[newID] = true
	return nil
}

// Deactivate marks i and j inactive. Their cells are left in place.
func (s *DistanceStore) Deactivate(i, j int) error {
	if i == j {
		return fmt.Errorf("protoclust: deactivate(%d, %d): %w", i, j, ErrUndefinedSelfDistance)
	}
	if !s.Active(i) {
		return fmt.Errorf("protoclust: deactivate(%d, %d): id %d: %w", i, j, i, ErrOutOfRange)
	}
	if !s.Active(j) {
		return fmt.Errorf("protoclust: deactivate(%d, %d): id %d: %w", i, j, j, ErrOutOfRange)
	}
	s.active[i] = false
	s.active[j] = false
	return nil
}
