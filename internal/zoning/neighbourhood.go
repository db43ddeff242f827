package zoning

import (
	"container/heap"
	"math"
)

// nbhEntry is a tree node queued for expansion, with its negated
// interaction criterion as priority.
type nbhEntry struct {
	priority float64
	node     int
}

type nbhQueue []nbhEntry

func (q nbhQueue) Len() int            { return len(q) }
func (q nbhQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q nbhQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nbhQueue) Push(x interface{}) { *q = append(*q, x.(nbhEntry)) }
func (q *nbhQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// NeighbourhoodBuilder derives, for each atomic zone, a multi-resolution
// set of tree nodes to interact with. Starting from the root, the node
// with the strongest modelled interaction is repeatedly replaced by its
// children until the target neighbourhood size is reached or only leaves
// remain.
type NeighbourhoodBuilder struct {
	distance *LazyDistance
	tree     *Tree
	data     *ZoneData
	beta     float64
	nbhSize  int
}

// NewNeighbourhoodBuilder prepares the builder over a finished hierarchy
// and its populated distance cache.
func NewNeighbourhoodBuilder(data *ZoneData, beta float64, nbhSize int, tree *Tree, distance *LazyDistance) *NeighbourhoodBuilder {
	return &NeighbourhoodBuilder{
		distance: distance,
		tree:     tree,
		data:     data,
		beta:     beta,
		nbhSize:  nbhSize,
	}
}

// The expansion criterion for node j seen from leaf i is the log of the
// modelled interaction volume,
//
//	log(O_i) + log(D_j) + beta*(d_ii + d_jj - d_ij) + log(1 - exp(-2*beta*(d_ii + d_jj)))
//
// negated because the min-heap pops the smallest priority first and the
// strongest interaction should expand first. Origins and destinations are
// strictly positive by construction, so the logs are defined.
func (b *NeighbourhoodBuilder) priority(i, j int) float64 {
	dii := b.distance.Get(i, i)
	djj := b.distance.Get(j, j)
	dij := b.distance.Get(i, j)

	return -(math.Log(b.data.Origin(i)) + math.Log(b.data.Destination(j)) +
		b.beta*(dii+djj-dij) + math.Log(1-math.Exp(-2*b.beta*(dii+djj))))
}

// Create builds one neighbourhood per atomic zone. Each neighbourhood is
// a set of node indices mixing leaves and aggregates. The target size is
// not a hard cap: expansion replaces a node with all of its children at
// once, so the final set may exceed the target by the branching factor
// minus one, and may fall short if the whole tree is consumed.
func (b *NeighbourhoodBuilder) Create() []map[int]struct{} {
	neighbourhoods := make([]map[int]struct{}, 0, b.tree.NumLeafs())
	root := b.tree.LastAdded()

	for i := 0; i < b.tree.NumLeafs(); i++ {
		var q nbhQueue
		nbh := map[int]struct{}{root: {}}
		heap.Push(&q, nbhEntry{priority: b.priority(i, root), node: root})

		for len(nbh) < b.nbhSize && q.Len() > 0 {
			j := heap.Pop(&q).(nbhEntry).node
			children := b.tree.Children(j)
			if children == nil {
				continue
			}
			delete(nbh, j)
			for _, c := range children {
				nbh[c] = struct{}{}
				// Leaf children are terminal and never expanded further.
				if b.tree.HasChildren(c) {
					heap.Push(&q, nbhEntry{priority: b.priority(i, c), node: c})
				}
			}
		}
		neighbourhoods = append(neighbourhoods, nbh)
	}
	return neighbourhoods
}
