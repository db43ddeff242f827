package zoning

import (
	"container/heap"
	"fmt"
	"math"
)

// mergeCandidate is a set of zones considered for merging, with the
// precomputed log-criterion as its queue priority.
type mergeCandidate struct {
	priority float64
	members  []int
}

// candidateQueue is a min-heap of merge candidates; the lowest
// log-criterion is popped first.
type candidateQueue []mergeCandidate

func (q candidateQueue) Len() int            { return len(q) }
func (q candidateQueue) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q candidateQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *candidateQueue) Push(x interface{}) { *q = append(*q, x.(mergeCandidate)) }
func (q *candidateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ClusterBuilder merges adjacent zones bottom-up into a hierarchy. Every
// adjacent pair starts as a merge candidate on a priority queue; the best
// candidate is merged, the new zone is queued against each of its
// neighbours, and the loop runs until the queue is empty. Candidates
// whose members were merged away in the meantime are discarded on pop.
type ClusterBuilder struct {
	data      *ZoneData
	beta      float64
	queue     candidateQueue
	adjacency *Adjacency
	tree      *Tree
	distance  *LazyDistance
}

// NewClusterBuilder prepares the merge engine: adjacency from the leaf
// centroids, an empty tree and an empty distance cache.
func NewClusterBuilder(data *ZoneData, beta float64) (*ClusterBuilder, error) {
	numLeafs := data.Size()
	adjacency, err := NewAdjacency(data.LeafCentroids(numLeafs))
	if err != nil {
		return nil, fmt.Errorf("failed to build adjacency: %w", err)
	}
	tree := NewTree(numLeafs)
	return &ClusterBuilder{
		data:      data,
		beta:      beta,
		adjacency: adjacency,
		tree:      tree,
		distance:  NewLazyDistance(data, tree),
	}, nil
}

// The merge criterion is the gain in modelled intra-zonal interaction,
//
//	w_C*exp(beta*d_C) - sum_c w_c*exp(beta*d_cc)
//
// which is always positive for a valid candidate, so its log is defined.
// It is evaluated entirely in log space: with x_c = beta*d_cc + log(w_c)
// and x_C = beta*d_C + log(w_C), shifting by x_max = max(x_C, max x_c)
// keeps every exponent <= 0, so the sum cannot overflow. Severe underflow
// rounds the log to -Inf, which is an acceptable (very favorable)
// priority.
//
// The formula is written for any candidate size even though candidates
// are always pairs in practice.
func (b *ClusterBuilder) priority(candidate []int) float64 {
	d := b.distance
	w := b.data

	var wCombi float64
	for _, c := range candidate {
		wCombi += w.Weight(c)
	}

	// Internal distance of the candidate once merged.
	var dCombi float64
	for _, a := range candidate {
		for _, c := range candidate {
			dCombi += d.Get(a, c) * w.Weight(a) * w.Weight(c)
		}
	}
	dCombi /= wCombi * wCombi

	xCombi := b.beta*dCombi + math.Log(wCombi)
	xMax := xCombi
	xs := make([]float64, len(candidate))
	for i, c := range candidate {
		xs[i] = b.beta*d.Get(c, c) + math.Log(w.Weight(c))
		if xs[i] > xMax {
			xMax = xs[i]
		}
	}

	sum := math.Exp(xCombi - xMax)
	for _, x := range xs {
		sum -= math.Exp(x - xMax)
	}
	return xMax + math.Log(sum)
}

func (b *ClusterBuilder) pushCandidate(candidate []int) {
	heap.Push(&b.queue, mergeCandidate{priority: b.priority(candidate), members: candidate})
}

// mergeZones performs one merge: the tree, the attribute store, the
// distance cache and the adjacency index are each extended by exactly one
// entry, then every neighbour of the new zone becomes a fresh candidate.
func (b *ClusterBuilder) mergeZones(children []int) error {
	newParent, err := b.tree.AppendParent(children)
	if err != nil {
		return err
	}
	if err := b.data.AppendParent(children); err != nil {
		return err
	}
	b.distance.AddZone()

	combined := b.adjacency.Merge(children)
	for adjacent := range combined {
		b.pushCandidate([]int{adjacent, newParent})
	}
	return nil
}

// Create runs the merge loop to completion and returns the hierarchy.
// With a connected adjacency graph the result is a single root; each
// disconnected component otherwise resolves to its own root. An empty
// candidate set yields a valid all-leaf tree.
func (b *ClusterBuilder) Create() (*Tree, error) {
	// Seed with every adjacent pair, each counted once.
	for i := 0; i < b.adjacency.Size(); i++ {
		for j := range b.adjacency.Neighbours(i) {
			if i < j {
				b.pushCandidate([]int{i, j})
			}
		}
	}

	for b.queue.Len() > 0 {
		candidate := heap.Pop(&b.queue).(mergeCandidate)
		// Stale candidates reference zones already merged away.
		stale := false
		for _, c := range candidate.members {
			if b.tree.HasParent(c) {
				stale = true
				break
			}
		}
		if stale {
			continue
		}
		if err := b.mergeZones(candidate.members); err != nil {
			return nil, fmt.Errorf("merge of %v failed: %w", candidate.members, err)
		}
	}

	return b.tree, nil
}

// DistanceMatrix returns the lazy distance cache populated during the
// merge loop, for reuse by the neighbourhood builder.
func (b *ClusterBuilder) DistanceMatrix() *LazyDistance {
	return b.distance
}
