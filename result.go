package protoclust

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Merge is one row of the linkage record: clusters Left and Right were
// joined at minimax radius Distance into a new cluster with Size points.
// The new cluster's id is n plus the row index.
type Merge struct {
	Left     int
	Right    int
	Distance float64
	Size     int
}

// Result contains the output of a minimax-linkage clustering over n points.
type Result struct {
	// Merges has n-1 rows in the order the merges happened. Ids below n are
	// input points; id n+l is the cluster created by Merges[l].
	Merges []Merge

	// Centers maps every cluster id in [0, 2n-1) to its prototype, the
	// input point that minimizes the maximum distance to the cluster's
	// members. Leaves are their own prototype.
	Centers []int

	// Radii maps every cluster id in [0, 2n-1) to its minimax radius, the
	// largest distance from the prototype to any member. Leaves have radius 0.
	Radii []float64
}

// N returns the number of input points.
func (r *Result) N() int { return len(r.Merges) + 1 }

// Linkage returns the merge table in scipy format: each row is
// [left, right, distance, size].
func (r *Result) Linkage() [][4]float64 {
	rows := make([][4]float64, len(r.Merges))
	for l, m := range r.Merges {
		rows[l] = [4]float64{float64(m.Left), float64(m.Right), m.Distance, float64(m.Size)}
	}
	return rows
}

// LinkageMatrix returns Linkage as an (n-1)×4 gonum matrix.
func (r *Result) LinkageMatrix() *mat.Dense {
	data := make([]float64, 0, 4*len(r.Merges))
	for _, row := range r.Linkage() {
		data = append(data, row[:]...)
	}
	return mat.NewDense(len(r.Merges), 4, data)
}

// Members returns the sorted input points belonging to cluster id.
func (r *Result) Members(id int) ([]int, error) {
	n := r.N()
	if id < 0 || id >= 2*n-1 {
		return nil, fmt.Errorf("protoclust: cluster id %d outside [0, %d): %w", id, 2*n-1, ErrOutOfRange)
	}
	var members []int
	stack := []int{id}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c < n {
			members = append(members, c)
			continue
		}
		m := r.Merges[c-n]
		stack = append(stack, m.Left, m.Right)
	}
	slices.Sort(members)
	return members, nil
}
