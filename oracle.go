package protoclust

import (
	"fmt"
	"log"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// PointDistances is the point-level distance oracle the clustering core
// depends on. Distance is only called with i != j, both in [0, Len()).
// Implementations must be symmetric with a zero diagonal; ValidateDistances
// checks this once before clustering starts.
type PointDistances interface {
	Len() int
	Distance(i, j int) float64
}

// DenseMatrix is a PointDistances backed by a flat n×n row-major slice,
// the same layout ComputePairwiseDistances produces.
type DenseMatrix struct {
	n    int
	data []float64
}

// NewDenseMatrix wraps distMatrix, where distMatrix[i*n+j] is the distance
// between points i and j. The slice is not copied.
func NewDenseMatrix(distMatrix []float64, n int) (*DenseMatrix, error) {
	if n < 0 || len(distMatrix) != n*n {
		return nil, fmt.Errorf("protoclust: distMatrix length %d does not match n*n = %d (n=%d): %w",
			len(distMatrix), n*n, n, ErrInvalidInput)
	}
	return &DenseMatrix{n: n, data: distMatrix}, nil
}

func (m *DenseMatrix) Len() int                  { return m.n }
func (m *DenseMatrix) Distance(i, j int) float64 { return m.data[i*m.n+j] }

// MatrixDistances adapts a gonum matrix (typically *mat.SymDense) into a
// PointDistances.
type MatrixDistances struct {
	m mat.Matrix
	n int
}

// FromMatrix wraps m. It returns ErrInvalidInput if m is not square.
func FromMatrix(m mat.Matrix) (*MatrixDistances, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("protoclust: distance matrix is %dx%d, want square: %w", r, c, ErrInvalidInput)
	}
	return &MatrixDistances{m: m, n: r}, nil
}

func (m *MatrixDistances) Len() int                  { return m.n }
func (m *MatrixDistances) Distance(i, j int) float64 { return m.m.At(i, j) }

// MemoizedDistances lazily evaluates a distance function and caches every
// unordered pair, so each pair is computed at most once. Evaluation is
// serialized under a lock; reads of cached pairs proceed concurrently.
type MemoizedDistances struct {
	n  int
	fn func(i, j int) float64

	mu       sync.RWMutex
	cache    []float64
	computed []bool
}

// NewMemoizedDistances returns an oracle over n points that calls fn(i, j)
// with i < j on first use of the pair (i, j) or (j, i).
func NewMemoizedDistances(n int, fn func(i, j int) float64) *MemoizedDistances {
	size := 0
	if n > 1 {
		size = n * (n - 1) / 2
	}
	return &MemoizedDistances{
		n:        n,
		fn:       fn,
		cache:    make([]float64, size),
		computed: make([]bool, size),
	}
}

func (m *MemoizedDistances) Len() int { return m.n }

func (m *MemoizedDistances) Distance(i, j int) float64 {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	// Row-major upper triangle: row i holds pairs (i, i+1..n-1).
	k := i*(2*m.n-i-1)/2 + j - i - 1

	m.mu.RLock()
	if m.computed[k] {
		d := m.cache[k]
		m.mu.RUnlock()
		return d
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.computed[k] {
		m.cache[k] = m.fn(i, j)
		m.computed[k] = true
	}
	return m.cache[k]
}

// ValidateDistances checks that d describes at least two points, has a zero
// diagonal, and has symmetric, non-negative, non-NaN entries. Entries i, j
// and j, i may differ by at most tol. Infinite distances are accepted with
// a logged warning.
func ValidateDistances(d PointDistances, tol float64) error {
	n := d.Len()
	if n < 2 {
		return fmt.Errorf("protoclust: need at least 2 points, got %d: %w", n, ErrInvalidInput)
	}

	hasInf := false
	for i := 0; i < n; i++ {
		if v := d.Distance(i, i); v != 0 {
			return fmt.Errorf("protoclust: distance(%d, %d) = %g, want 0: %w", i, i, v, ErrInvalidInput)
		}
		for j := i + 1; j < n; j++ {
			dij := d.Distance(i, j)
			dji := d.Distance(j, i)
			if math.IsNaN(dij) || math.IsNaN(dji) {
				return fmt.Errorf("protoclust: distance(%d, %d) is NaN: %w", i, j, ErrInvalidInput)
			}
			if dij < 0 || dji < 0 {
				return fmt.Errorf("protoclust: distance(%d, %d) is negative: %w", i, j, ErrInvalidInput)
			}
			if math.IsInf(dij, 1) || math.IsInf(dji, 1) {
				if dij != dji {
					return fmt.Errorf("protoclust: distance(%d, %d) is not symmetric: %w", i, j, ErrInvalidInput)
				}
				hasInf = true
				continue
			}
			if math.Abs(dij-dji) > tol {
				return fmt.Errorf("protoclust: distance(%d, %d) = %g but distance(%d, %d) = %g: %w",
					i, j, dij, j, i, dji, ErrInvalidInput)
			}
		}
	}

	if hasInf {
		log.Printf("protoclust: distance oracle contains +Inf entries (disconnected points)")
	}
	return nil
}
