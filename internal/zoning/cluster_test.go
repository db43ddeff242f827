package zoning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquareData(t *testing.T) *ZoneData {
	t.Helper()

	d, err := NewZoneData(
		[]float64{10, 10, 10, 10},
		[]float64{10, 10, 10, 10},
		[]float64{1, 1, 1, 1},
		[]Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	)
	require.NoError(t, err)
	return d
}

func TestClusterBuilder_UnitSquare(t *testing.T) {
	t.Parallel()

	data := unitSquareData(t)
	builder, err := NewClusterBuilder(data, 0.5)
	require.NoError(t, err)

	tree, err := builder.Create()
	require.NoError(t, err)

	// 4 atomic zones, fully connected adjacency: exactly 3 merges.
	assert.Equal(t, 7, tree.Size())
	assert.Equal(t, 4, tree.NumLeafs())

	root := tree.LastAdded()
	assert.False(t, tree.HasParent(root))
	for i := 0; i < root; i++ {
		assert.True(t, tree.HasParent(i), "zone %d must be merged into the hierarchy", i)
	}

	// Root aggregates all atomic attributes.
	assert.InDelta(t, 4.0, data.Weight(root), 1e-12)
	assert.InDelta(t, 40.0, data.Origin(root), 1e-12)
	assert.InDelta(t, 40.0, data.Destination(root), 1e-12)
}

func TestClusterBuilder_WeightConservation(t *testing.T) {
	t.Parallel()

	d, err := NewZoneData(
		[]float64{5, 7, 2, 9, 4},
		[]float64{3, 1, 8, 2, 6},
		[]float64{1, 2, 3, 4, 5},
		[]Point{{0, 0}, {2, 0.3}, {1, 2}, {3, 1.5}, {0.5, 3}},
	)
	require.NoError(t, err)

	builder, err := NewClusterBuilder(d, 0.2)
	require.NoError(t, err)
	tree, err := builder.Create()
	require.NoError(t, err)

	// At every merged node the attributes equal the sums over its leaves.
	for node := tree.NumLeafs(); node < tree.Size(); node++ {
		var weight, origin, destination float64
		for _, leaf := range tree.Leafs(node) {
			weight += d.Weight(leaf)
			origin += d.Origin(leaf)
			destination += d.Destination(leaf)
		}
		assert.InDelta(t, weight, d.Weight(node), 1e-9)
		assert.InDelta(t, origin, d.Origin(node), 1e-9)
		assert.InDelta(t, destination, d.Destination(node), 1e-9)
	}
}

func TestClusterBuilder_CentroidInsideHull(t *testing.T) {
	t.Parallel()

	d, err := NewZoneData(
		[]float64{1, 1, 1, 1},
		[]float64{1, 1, 1, 1},
		[]float64{1, 2, 3, 4},
		[]Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}},
	)
	require.NoError(t, err)

	builder, err := NewClusterBuilder(d, 0.1)
	require.NoError(t, err)
	tree, err := builder.Create()
	require.NoError(t, err)

	// The weighted-average centroid of any merged zone stays inside the
	// bounding box of its leaf centroids.
	for node := tree.NumLeafs(); node < tree.Size(); node++ {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, leaf := range tree.Leafs(node) {
			c := d.Centroid(leaf)
			minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
			minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
		}
		c := d.Centroid(node)
		assert.GreaterOrEqual(t, c.X, minX)
		assert.LessOrEqual(t, c.X, maxX)
		assert.GreaterOrEqual(t, c.Y, minY)
		assert.LessOrEqual(t, c.Y, maxY)
	}
}

func TestClusterBuilder_MergesNearestPairFirst(t *testing.T) {
	t.Parallel()

	// Two tight pairs far apart: each pair must merge before the pairs
	// merge with each other.
	d, err := NewZoneData(
		[]float64{1, 1, 1, 1},
		[]float64{1, 1, 1, 1},
		[]float64{1, 1, 1, 1},
		[]Point{{0, 0}, {0.1, 0.05}, {100, 0}, {100.15, 0.08}},
	)
	require.NoError(t, err)

	builder, err := NewClusterBuilder(d, 0.5)
	require.NoError(t, err)
	tree, err := builder.Create()
	require.NoError(t, err)
	require.Equal(t, 7, tree.Size())

	assert.ElementsMatch(t, []int{0, 1}, tree.Leafs(4))
	assert.ElementsMatch(t, []int{2, 3}, tree.Leafs(5))
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, tree.Leafs(6))
}

func TestClusterBuilder_PriorityIsFinite(t *testing.T) {
	t.Parallel()

	data := unitSquareData(t)
	builder, err := NewClusterBuilder(data, 0.5)
	require.NoError(t, err)

	p := builder.priority([]int{0, 1})
	assert.False(t, math.IsNaN(p), "the log-domain criterion must not produce NaN for valid candidates")
}
