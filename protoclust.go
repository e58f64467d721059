package protoclust

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
)

// minParallelRows is the smallest update row worth splitting across workers.
const minParallelRows = 64

// Config controls minimax-linkage clustering.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Metric is the distance function used by Cluster to build the
	// point-level distance matrix from feature vectors. Ignored by
	// ClusterPrecomputed, ClusterDistances and New.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Workers controls the number of goroutines used to compute pairwise
	// distances and to recompute the distance row of each new cluster.
	// 0 means runtime.NumCPU(); 1 runs everything on the calling goroutine.
	// Default: 0 (auto).
	Workers int

	// Tolerance is the largest allowed difference between distance(i, j)
	// and distance(j, i). Must be >= 0. Default: 0 (exact symmetry).
	Tolerance float64

	// Observer, if set, is called once per completed merge.
	Observer Observer
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Metric: EuclideanMetric{},
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("protoclust: Workers must be >= 0 (0 means runtime.NumCPU()), got %d: %w", cfg.Workers, ErrInvalidInput)
	}
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return fmt.Errorf("protoclust: Tolerance must be >= 0, got %f: %w", cfg.Tolerance, ErrInvalidInput)
	}
	if m, ok := cfg.Metric.(MinkowskiMetric); ok && m.P < 1 {
		return fmt.Errorf("protoclust: MinkowskiMetric.P must be >= 1, got %f: %w", m.P, ErrInvalidInput)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// Protoclust runs the nearest-neighbor-chain merge loop one iteration at a
// time. Most callers want ClusterDistances; Step is exposed so a caller can
// drive the loop itself, for example to report progress.
//
// A Protoclust is not safe for concurrent use.
type Protoclust struct {
	cfg  Config
	n    int
	dist PointDistances

	store  *DistanceStore
	chain  *Chain
	active *activeSet

	// members holds the sorted points of every active cluster; entries of
	// absorbed clusters are released after their merge.
	members [][]int
	centers []int
	radii   []float64
	merges  []Merge

	// err is the first failure; once set, the run cannot continue.
	err error
}

// New validates d and prepares a run over its d.Len() points.
func New(d PointDistances, cfg Config) (*Protoclust, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateDistances(d, cfg.Tolerance); err != nil {
		return nil, err
	}

	n := d.Len()
	store := NewDistanceStore(d)
	p := &Protoclust{
		cfg:     cfg,
		n:       n,
		dist:    d,
		store:   store,
		chain:   NewChain(store),
		active:  newActiveSet(n),
		members: make([][]int, store.Slots()),
		centers: make([]int, store.Slots()),
		radii:   make([]float64, store.Slots()),
		merges:  make([]Merge, 0, n-1),
	}
	for i := 0; i < n; i++ {
		p.members[i] = []int{i}
		p.centers[i] = i
	}
	return p, nil
}

// Iteration returns the number of merges completed so far.
func (p *Protoclust) Iteration() int { return len(p.merges) }

// Done reports whether all n-1 merges have been computed.
func (p *Protoclust) Done() bool { return len(p.merges) == p.n-1 }

// Step performs the next merge: it grows the chain to a reciprocal
// nearest-neighbor pair, merges the pair into cluster n+Iteration(), and
// computes the new cluster's distance to every other active cluster.
// After a failure every later call returns the same error.
func (p *Protoclust) Step() (Merge, error) {
	if p.err != nil {
		return Merge{}, p.err
	}
	if p.Done() {
		return Merge{}, fmt.Errorf("protoclust: all %d merges already computed", p.n-1)
	}

	l := len(p.merges)
	m, err := p.merge(l)
	if err != nil {
		p.err = err
		return Merge{}, err
	}
	p.merges = append(p.merges, m)

	if p.cfg.Observer != nil {
		p.cfg.Observer.OnMerge(l, m)
	}
	return m, nil
}

func (p *Protoclust) merge(l int) (Merge, error) {
	if err := p.chain.Grow(p.active.ids); err != nil {
		return Merge{}, err
	}
	i, j, ok := p.chain.RNN()
	if !ok {
		return Merge{}, fmt.Errorf("protoclust: iteration %d: chain holds no pair: %w", l, ErrInvariantViolation)
	}

	newID := p.n + l
	merged := mergeSorted(p.members[i], p.members[j])
	radius, center := MinimaxRadius(p.dist, merged)
	p.members[newID] = merged
	p.centers[newID] = center
	p.radii[newID] = radius

	others := make([]int, 0, p.active.len()-2)
	otherMembers := make([][]int, 0, p.active.len()-2)
	for _, a := range p.active.ids {
		if a != i && a != j {
			others = append(others, a)
			otherMembers = append(otherMembers, p.members[a])
		}
	}
	workers := p.cfg.Workers
	if len(others) < minParallelRows {
		workers = 1
	}
	row := MinimaxRow(p.dist, merged, otherMembers, workers)

	if err := p.store.Insert(newID, others, row); err != nil {
		return Merge{}, fmt.Errorf("protoclust: iteration %d: %w: %w", l, ErrInvariantViolation, err)
	}
	if err := p.store.Deactivate(i, j); err != nil {
		return Merge{}, fmt.Errorf("protoclust: iteration %d: %w: %w", l, ErrInvariantViolation, err)
	}
	if err := p.active.replace(i, j, newID); err != nil {
		return Merge{}, err
	}
	if err := p.chain.RemoveRNN(i, j); err != nil {
		return Merge{}, err
	}
	p.members[i] = nil
	p.members[j] = nil

	if err := p.checkPartition(); err != nil {
		return Merge{}, fmt.Errorf("protoclust: iteration %d: %w", l, err)
	}

	return Merge{Left: i, Right: j, Distance: radius, Size: len(merged)}, nil
}

// checkPartition verifies that the active clusters' members cover every
// point exactly once.
func (p *Protoclust) checkPartition() error {
	seen := make([]bool, p.n)
	count := 0
	for _, a := range p.active.ids {
		for _, pt := range p.members[a] {
			if pt < 0 || pt >= p.n {
				return fmt.Errorf("cluster %d holds unknown point %d: %w", a, pt, ErrInvariantViolation)
			}
			if seen[pt] {
				return fmt.Errorf("point %d appears more than once among active clusters: %w", pt, ErrInvariantViolation)
			}
			seen[pt] = true
			count++
		}
	}
	if count != p.n {
		return fmt.Errorf("active clusters cover %d of %d points: %w", count, p.n, ErrInvariantViolation)
	}
	return nil
}

// Run performs every remaining merge and returns the complete result. On
// failure it returns no result.
func (p *Protoclust) Run() (*Result, error) {
	for !p.Done() {
		if _, err := p.Step(); err != nil {
			return nil, err
		}
	}
	if p.err != nil {
		return nil, p.err
	}

	root := 2*p.n - 2
	if p.active.len() != 1 || p.active.ids[0] != root {
		p.err = fmt.Errorf("protoclust: run ended with active clusters %v: %w", p.active.ids, ErrInvariantViolation)
		return nil, p.err
	}
	if err := p.checkPartition(); err != nil {
		p.err = fmt.Errorf("protoclust: final cluster: %w", err)
		return nil, p.err
	}

	return &Result{
		Merges:  slices.Clone(p.merges),
		Centers: slices.Clone(p.centers),
		Radii:   slices.Clone(p.radii),
	}, nil
}

// ClusterDistances performs minimax-linkage clustering over the points
// described by d. The Config.Metric field is ignored.
func ClusterDistances(d PointDistances, cfg Config) (*Result, error) {
	p, err := New(d, cfg)
	if err != nil {
		return nil, err
	}
	return p.Run()
}

// ClusterPrecomputed performs minimax-linkage clustering on a precomputed
// distance matrix. distMatrix is a flat []float64 of length n*n in row-major
// order, where distMatrix[i*n+j] is the distance between points i and j.
// The Config.Metric field is ignored since distances are already computed.
func ClusterPrecomputed(distMatrix []float64, n int, cfg Config) (*Result, error) {
	d, err := NewDenseMatrix(distMatrix, n)
	if err != nil {
		return nil, err
	}
	return ClusterDistances(d, cfg)
}

// Cluster performs minimax-linkage clustering on feature vectors.
// Each element is a point (float64 slice); all points must have the same
// dimensionality. Pairwise distances are computed with cfg.Metric.
func Cluster(data [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	n := len(data)
	if n < 2 {
		return nil, fmt.Errorf("protoclust: need at least 2 points, got %d: %w", n, ErrInvalidInput)
	}

	dims := len(data[0])
	flatData := make([]float64, n*dims)
	for i, row := range data {
		if len(row) != dims {
			return nil, fmt.Errorf("protoclust: point %d has %d dimensions, want %d: %w", i, len(row), dims, ErrInvalidInput)
		}
		copy(flatData[i*dims:], row)
	}

	distMatrix := ComputePairwiseDistancesParallel(flatData, n, dims, cfg.Metric, cfg.Workers)
	return ClusterPrecomputed(distMatrix, n, cfg)
}

// IsInvariantViolation reports whether err signals corrupted internal state
// rather than bad input.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}
