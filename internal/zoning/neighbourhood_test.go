package zoning

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSystemFixture(t *testing.T, nbhSize int) (*ZoneData, *Tree, *LazyDistance, []map[int]struct{}) {
	t.Helper()

	d, err := NewZoneData(
		[]float64{10, 12, 8, 9, 11, 7},
		[]float64{10, 9, 11, 12, 8, 10},
		[]float64{1, 1, 2, 1, 3, 1},
		[]Point{{0, 0}, {1, 0.2}, {0.3, 1}, {4, 4}, {5, 4.2}, {4.5, 5}},
	)
	require.NoError(t, err)

	builder, err := NewClusterBuilder(d, 0.4)
	require.NoError(t, err)
	tree, err := builder.Create()
	require.NoError(t, err)
	require.Equal(t, 2*tree.NumLeafs()-1, tree.Size())

	dist := builder.DistanceMatrix()
	nbhs := NewNeighbourhoodBuilder(d, 0.4, nbhSize, tree, dist).Create()
	return d, tree, dist, nbhs
}

func TestNeighbourhoodBuilder_SizeOneIsRoot(t *testing.T) {
	t.Parallel()

	_, tree, _, nbhs := buildSystemFixture(t, 1)

	root := tree.LastAdded()
	require.Len(t, nbhs, tree.NumLeafs())
	for i, nbh := range nbhs {
		assert.Equal(t, map[int]struct{}{root: {}}, nbh, "zone %d", i)
	}
}

func TestNeighbourhoodBuilder_CoversAllLeafsExactlyOnce(t *testing.T) {
	t.Parallel()

	_, tree, _, nbhs := buildSystemFixture(t, 4)

	// Each neighbourhood is a cut through the tree: the leaf sets of its
	// members partition the atomic zones.
	for i, nbh := range nbhs {
		var covered []int
		for member := range nbh {
			covered = append(covered, tree.Leafs(member)...)
		}
		sort.Ints(covered)
		want := make([]int, tree.NumLeafs())
		for j := range want {
			want[j] = j
		}
		assert.Equal(t, want, covered, "neighbourhood of zone %d", i)
	}
}

func TestNeighbourhoodBuilder_TargetSizeIsNotAHardCap(t *testing.T) {
	t.Parallel()

	_, tree, _, nbhs := buildSystemFixture(t, 4)

	for _, nbh := range nbhs {
		assert.GreaterOrEqual(t, len(nbh), 4)
		// Binary merges: one expansion step adds at most one net member.
		assert.LessOrEqual(t, len(nbh), 5)
	}

	// Exhausting the tree caps the neighbourhood at the leaf count.
	_, _, _, exhausted := buildSystemFixture(t, 100)
	for _, nbh := range exhausted {
		assert.Len(t, nbh, tree.NumLeafs())
	}
}

func TestNeighbourhoodBuilder_RefinementKeepsLeafCoverage(t *testing.T) {
	t.Parallel()

	_, tree, _, small := buildSystemFixture(t, 2)
	_, _, _, large := buildSystemFixture(t, 5)

	// A larger target only subdivides aggregate members: every member of
	// the larger neighbourhood descends from some member of the smaller.
	for i := range small {
		ancestors := small[i]
		for member := range large[i] {
			node := member
			found := false
			for {
				if _, ok := ancestors[node]; ok {
					found = true
					break
				}
				if !tree.HasParent(node) {
					break
				}
				node = tree.Parent(node)
			}
			assert.True(t, found, "member %d of zone %d's larger neighbourhood has no ancestor in the smaller one", member, i)
		}
	}
}
