package protoclust

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// denseFromPoints builds a Euclidean DenseMatrix over pos.
func denseFromPoints(t *testing.T, pos [][]float64) *DenseMatrix {
	t.Helper()
	n := len(pos)
	dims := len(pos[0])
	flat := make([]float64, 0, n*dims)
	for _, p := range pos {
		flat = append(flat, p...)
	}
	d, err := NewDenseMatrix(ComputePairwiseDistances(flat, n, dims, EuclideanMetric{}), n)
	require.NoError(t, err)
	return d
}

// linePoints places one point per coordinate on the real line.
func linePoints(xs ...float64) [][]float64 {
	pos := make([][]float64, len(xs))
	for i, x := range xs {
		pos[i] = []float64{x}
	}
	return pos
}

// randomPoints returns n uniformly random points in [0, 100)^dims. Continuous
// coordinates make distance ties vanishingly unlikely.
func randomPoints(seed int64, n, dims int) [][]float64 {
	rng := randSource(seed)
	pos := make([][]float64, n)
	for i := range pos {
		pos[i] = make([]float64, dims)
		for j := range pos[i] {
			pos[i][j] = rng.Float64() * 100
		}
	}
	return pos
}

func randSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// testConfig runs sequentially.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 1
	return cfg
}
