package protoclust

// UnionFind tracks which points of an n-point hierarchy have been joined by
// the merges applied so far. It covers all 2*n - 1 cluster ids so that a
// merged id can stand in for its set. Only the n points carry weight, so
// Size counts points, not ids.
type UnionFind struct {
	parent []int
	size   []int
}

// NewUnionFind creates a UnionFind over the cluster ids of an n-point
// hierarchy, with every id in its own set.
func NewUnionFind(n int) *UnionFind {
	total := max(2*n-1, 1)
	uf := &UnionFind{
		parent: make([]int, total),
		size:   make([]int, total),
	}
	for id := range uf.parent {
		uf.parent[id] = id
	}
	for i := 0; i < n; i++ {
		uf.size[i] = 1
	}
	return uf
}

// Find returns the representative of the set containing x. Paths are
// halved on the way up.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union joins the sets containing x and y, hanging the set with fewer
// points under the other, and returns the representative of the result.
func (uf *UnionFind) Union(x, y int) int {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return rx
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	return rx
}

// Apply records merge m as cluster id newID: both children and newID end
// up in one set, whose representative is returned.
func (uf *UnionFind) Apply(m Merge, newID int) int {
	uf.Union(m.Left, newID)
	return uf.Union(m.Right, newID)
}

// Size returns the number of points in the set containing x.
func (uf *UnionFind) Size(x int) int { return uf.size[uf.Find(x)] }
