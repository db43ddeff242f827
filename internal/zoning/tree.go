package zoning

import (
	"fmt"
	"sort"
)

// Tree is the append-only merge hierarchy over zones. The first NumLeafs
// indices are the atomic zones; every merge appends one parent node with
// the next index, so children always have a lower index than their parent.
// The last appended node is the root of the (possibly partial) hierarchy.
type Tree struct {
	numLeafs int
	parent   []int   // -1 while a node has no parent
	children [][]int // nil for leaves
}

// NewTree creates a tree holding numLeafs atomic zones and no merges.
func NewTree(numLeafs int) *Tree {
	t := &Tree{
		numLeafs: numLeafs,
		parent:   make([]int, numLeafs),
		children: make([][]int, numLeafs),
	}
	for i := range t.parent {
		t.parent[i] = -1
	}
	return t
}

// AppendParent creates a new node owning exactly the given children and
// returns its index. Each child must exist and must not already have a
// parent; a parent is assigned exactly once, at creation.
func (t *Tree) AppendParent(children []int) (int, error) {
	newIndex := len(t.parent)
	for _, c := range children {
		if c < 0 || c >= newIndex {
			return 0, fmt.Errorf("child index %d out of range [0, %d)", c, newIndex)
		}
		if t.parent[c] != -1 {
			return 0, fmt.Errorf("child %d already has parent %d", c, t.parent[c])
		}
	}

	owned := make([]int, len(children))
	copy(owned, children)
	t.children = append(t.children, owned)
	t.parent = append(t.parent, -1)
	for _, c := range children {
		t.parent[c] = newIndex
	}
	return newIndex, nil
}

// HasParent reports whether node index has been merged into a parent.
func (t *Tree) HasParent(index int) bool {
	return t.parent[index] != -1
}

// Parent returns the parent of node index, or -1 if it has none.
func (t *Tree) Parent(index int) int {
	return t.parent[index]
}

// HasChildren reports whether node index is a merged zone.
func (t *Tree) HasChildren(index int) bool {
	return t.children[index] != nil
}

// Children returns the child indices of node index, nil for leaves.
// The returned slice is owned by the tree and must not be modified.
func (t *Tree) Children(index int) []int {
	return t.children[index]
}

// NumLeafs returns the number of atomic zones.
func (t *Tree) NumLeafs() int {
	return t.numLeafs
}

// Size returns the total number of nodes, leaves and merged zones.
func (t *Tree) Size() int {
	return len(t.parent)
}

// LastAdded returns the highest index present, which is the root once the
// hierarchy is fully merged.
func (t *Tree) LastAdded() int {
	return len(t.parent) - 1
}

// Leafs collects all atomic zones under node, the node itself if it is a
// leaf. Traversal order is breadth-first.
func (t *Tree) Leafs(node int) []int {
	var leafs []int
	queue := []int{node}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if t.children[n] == nil {
			leafs = append(leafs, n)
			continue
		}
		queue = append(queue, t.children[n]...)
	}
	return leafs
}

// MapLeafsToNGroups cuts the fully merged hierarchy into exactly n groups
// by treating the last n-1 merges as not yet performed, and maps every
// leaf to the group root it falls under at that cut. With renumber the
// group roots are replaced by consecutive 0-based ids in ascending root
// index order.
//
// The index arithmetic requires a single fully merged binary-style
// hierarchy: exactly numLeafs-1 merges must have happened.
func (t *Tree) MapLeafsToNGroups(n int, renumber bool) ([]int, error) {
	if t.Size() != 2*t.numLeafs-1 {
		return nil, fmt.Errorf("tree is not fully merged: size %d, want %d", t.Size(), 2*t.numLeafs-1)
	}
	if n < 1 || n > t.numLeafs {
		return nil, fmt.Errorf("group count %d out of range [1, %d]", n, t.numLeafs)
	}

	// Merges with index >= cut are undone; a leaf's group is its highest
	// ancestor below the cut.
	cut := 2*t.numLeafs - n
	out := make([]int, t.numLeafs)
	for leaf := 0; leaf < t.numLeafs; leaf++ {
		node := leaf
		for t.parent[node] != -1 && t.parent[node] < cut {
			node = t.parent[node]
		}
		out[leaf] = node
	}

	if renumber {
		ids := make(map[int]int)
		for _, root := range out {
			if _, seen := ids[root]; !seen {
				ids[root] = 0
			}
		}
		roots := make([]int, 0, len(ids))
		for root := range ids {
			roots = append(roots, root)
		}
		sort.Ints(roots)
		for i, root := range roots {
			ids[root] = i
		}
		for i, root := range out {
			out[i] = ids[root]
		}
	}
	return out, nil
}
