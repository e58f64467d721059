// Package protoclust implements agglomerative hierarchical clustering with
// minimax linkage (Bien and Tibshirani, "Hierarchical Clustering With
// Prototypes via Minimax Linkage").
//
// Every cluster in the hierarchy is represented by a prototype: an actual
// input point whose largest distance to any member of the cluster is as
// small as possible. That largest distance is the cluster's minimax radius,
// and two clusters are merged at the radius of their union.
//
// Basic usage:
//
//	cfg := protoclust.DefaultConfig()
//	result, err := protoclust.Cluster(data, cfg)
//	// result.Merges[l] joins two clusters into cluster n+l
//	// result.Centers[id] is the prototype (a point index) of cluster id
//	// result.Radii[id] is the minimax radius of cluster id
//
// For precomputed distance matrices:
//
//	result, err := protoclust.ClusterPrecomputed(distMatrix, n, cfg)
//
// Any type with Len and Distance methods can serve as the distance oracle,
// including a gonum matrix via FromMatrix or a lazily evaluated function via
// NewMemoizedDistances:
//
//	result, err := protoclust.ClusterDistances(oracle, cfg)
//
// # Algorithm
//
// Merges are found with the nearest-neighbor-chain algorithm: a path of
// nearest-neighbor hops is grown until its last two clusters are each
// other's nearest neighbors, that pair is merged, and the rest of the path
// is reused for the next merge. Minimax linkage is reducible, so this yields
// the same hierarchy as repeatedly merging the globally closest pair. Each
// new cluster's distance to every other cluster is recomputed from the
// point-level distances. That recomputation dominates the running time and is
// spread across Config.Workers goroutines.
//
// Ties are broken deterministically: chains start from the smallest active
// cluster id, nearest-neighbor ties go to the smallest id, and prototype ties
// go to the smallest point index.
package protoclust
