package zoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_AppendParent(t *testing.T) {
	t.Parallel()

	tr := NewTree(4)
	assert.Equal(t, 4, tr.NumLeafs())
	assert.Equal(t, 4, tr.Size())
	assert.Equal(t, 3, tr.LastAdded())

	p, err := tr.AppendParent([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 4, p)
	assert.Equal(t, 5, tr.Size())
	assert.Equal(t, 4, tr.LastAdded())

	assert.True(t, tr.HasParent(0))
	assert.True(t, tr.HasParent(1))
	assert.False(t, tr.HasParent(2))
	assert.False(t, tr.HasParent(4))
	assert.Equal(t, 4, tr.Parent(0))
	assert.Equal(t, -1, tr.Parent(4))

	assert.True(t, tr.HasChildren(4))
	assert.False(t, tr.HasChildren(0))
	assert.ElementsMatch(t, []int{0, 1}, tr.Children(4))
}

func TestTree_AppendParentErrors(t *testing.T) {
	t.Parallel()

	tr := NewTree(3)
	_, err := tr.AppendParent([]int{0, 5})
	assert.Error(t, err, "out of range child must be rejected")

	_, err = tr.AppendParent([]int{0, 1})
	require.NoError(t, err)
	_, err = tr.AppendParent([]int{0, 2})
	assert.Error(t, err, "a child may only receive a parent once")
}

func TestTree_ChildIndicesBelowParent(t *testing.T) {
	t.Parallel()

	tr := NewTree(4)
	merges := [][]int{{0, 1}, {2, 3}, {4, 5}}
	for _, m := range merges {
		_, err := tr.AppendParent(m)
		require.NoError(t, err)
	}

	for p := 0; p < tr.Size(); p++ {
		for _, c := range tr.Children(p) {
			assert.Less(t, c, p)
		}
	}
}

func TestTree_Leafs(t *testing.T) {
	t.Parallel()

	tr := NewTree(4)
	_, err := tr.AppendParent([]int{0, 1})
	require.NoError(t, err)
	_, err = tr.AppendParent([]int{2, 3})
	require.NoError(t, err)
	root, err := tr.AppendParent([]int{4, 5})
	require.NoError(t, err)

	assert.Equal(t, []int{2}, tr.Leafs(2), "a leaf is its own leaf set")
	assert.ElementsMatch(t, []int{0, 1}, tr.Leafs(4))
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, tr.Leafs(root))
}

func TestTree_MapLeafsToNGroups(t *testing.T) {
	t.Parallel()

	// 0+1 -> 4, 2+3 -> 5, 4+5 -> 6
	tr := NewTree(4)
	for _, m := range [][]int{{0, 1}, {2, 3}, {4, 5}} {
		_, err := tr.AppendParent(m)
		require.NoError(t, err)
	}

	one, err := tr.MapLeafsToNGroups(1, false)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 6, 6, 6}, one)

	two, err := tr.MapLeafsToNGroups(2, false)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 5, 5}, two)

	twoRenumbered, err := tr.MapLeafsToNGroups(2, true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1}, twoRenumbered)

	four, err := tr.MapLeafsToNGroups(4, true)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, four)

	_, err = tr.MapLeafsToNGroups(0, false)
	assert.Error(t, err)
	_, err = tr.MapLeafsToNGroups(5, false)
	assert.Error(t, err)
}

func TestTree_MapLeafsToNGroupsRequiresFullHierarchy(t *testing.T) {
	t.Parallel()

	tr := NewTree(4)
	_, err := tr.AppendParent([]int{0, 1})
	require.NoError(t, err)

	_, err = tr.MapLeafsToNGroups(2, false)
	assert.Error(t, err, "a partial hierarchy must be rejected")
}
