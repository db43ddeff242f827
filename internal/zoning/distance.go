package zoning

import "math"

// LazyDistance memoizes pairwise distances between tree nodes. For two
// leaves the distance is Euclidean between centroids; for a merged zone
// it is the weight-averaged distance over its children, computed
// recursively. Only the normalized pair (min, max) is stored, keyed on
// the higher index, so the cache is upper triangular.
//
// Termination of the recursion relies on the append-order invariant:
// children always have a lower index than their parent, so recursing into
// children strictly decreases the higher index of the pair.
type LazyDistance struct {
	matrix []map[int]float64
	data   *ZoneData
	tree   *Tree
}

// NewLazyDistance creates an empty cache with one row per atomic zone.
func NewLazyDistance(data *ZoneData, tree *Tree) *LazyDistance {
	matrix := make([]map[int]float64, tree.NumLeafs())
	for i := range matrix {
		matrix[i] = make(map[int]float64)
	}
	return &LazyDistance{matrix: matrix, data: data, tree: tree}
}

// Get returns the distance between zones i and j, computing and caching
// it on first use. Symmetric: Get(i, j) == Get(j, i).
func (d *LazyDistance) Get(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	if dij, ok := d.matrix[i][j]; ok {
		return dij
	}

	var dij float64
	if children := d.tree.Children(j); children != nil {
		for _, c := range children {
			dij += d.data.Weight(c) * d.Get(i, c)
		}
		dij /= d.data.Weight(j)
	} else {
		// j is a leaf, and i <= j, so i is a leaf as well.
		ci, cj := d.data.Centroid(i), d.data.Centroid(j)
		dij = math.Hypot(ci.X-cj.X, ci.Y-cj.Y)
	}

	d.matrix[i][j] = dij
	return dij
}

// AddZone appends one empty cache row for a newly merged zone. Called
// once per merge, after the tree and data have been extended.
func (d *LazyDistance) AddZone() {
	d.matrix = append(d.matrix, make(map[int]float64))
}
