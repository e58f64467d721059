package protoclust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	require.Len(t, uf.parent, 9, "2*5-1 cluster ids")

	for id := 0; id < 9; id++ {
		assert.Equal(t, id, uf.Find(id))
		// Points weigh 1; merged ids carry no points of their own.
		want := 0
		if id < 5 {
			want = 1
		}
		assert.Equal(t, want, uf.Size(id), "id %d", id)
	}
}

func TestUnionFind_MultipleUnions(t *testing.T) {
	uf := NewUnionFind(6)
	uf.Union(0, 1)
	uf.Union(1, 2)
	uf.Union(3, 4)
	uf.Union(4, 5)

	assert.Equal(t, uf.Find(0), uf.Find(2))
	assert.NotEqual(t, uf.Find(0), uf.Find(3))

	uf.Union(2, 4)
	root := uf.Find(0)
	for i := 1; i < 6; i++ {
		assert.Equal(t, root, uf.Find(i), "point %d", i)
	}
	assert.Equal(t, 6, uf.Size(5))
}

func TestUnionFind_PathHalving(t *testing.T) {
	uf := NewUnionFind(4)
	// Build the chain 0 → 1 → 2 → 3 by hand.
	uf.parent[0], uf.parent[1], uf.parent[2] = 1, 2, 3

	require.Equal(t, 3, uf.Find(0))
	assert.Equal(t, 2, uf.parent[0], "0 skips to its grandparent")
	assert.Equal(t, 3, uf.parent[2])
}

func TestUnionFind_UnionBySize(t *testing.T) {
	uf := NewUnionFind(4)
	uf.Union(0, 1)
	uf.Union(0, 2)
	bigRoot := uf.Find(0)

	// A single point hangs under the larger set.
	assert.Equal(t, bigRoot, uf.Union(3, 0))
	assert.Equal(t, 4, uf.Size(3))
}

func TestUnionFind_Apply(t *testing.T) {
	// Points 0..3 merged as 4 = {2,3}, 5 = {1,4}, 6 = {0,5}.
	uf := NewUnionFind(4)
	merges := []Merge{
		{Left: 2, Right: 3, Distance: 1, Size: 2},
		{Left: 1, Right: 4, Distance: 1.5, Size: 3},
		{Left: 0, Right: 5, Distance: 2.5, Size: 4},
	}
	for l, m := range merges {
		root := uf.Apply(m, 4+l)
		assert.Equal(t, m.Size, uf.Size(root), "merge %d", l)
		assert.Equal(t, root, uf.Find(4+l))
	}
	assert.Equal(t, uf.Find(0), uf.Find(3))
}
