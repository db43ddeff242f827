package zoning

import "fmt"

// ZoneSystem is the build-once adaptive zoning result: the merge
// hierarchy over the atomic zones plus one custom neighbourhood per
// atomic zone. After construction it is read-only.
//
// Implements the adaptive zoning method of Hagen-Zanker and Jin (2012):
// zones are clustered bottom-up under a spatial-interaction criterion,
// then each atomic zone receives a multi-resolution neighbourhood sized
// to trade accuracy against model cost.
type ZoneSystem struct {
	beta           float64
	nbhSize        int
	data           *ZoneData
	tree           *Tree
	distance       *LazyDistance
	neighbourhoods []map[int]struct{}

	// Built lazily on first request.
	transposed [][]int
}

// NewZoneSystem validates the input attributes, builds the full merge
// hierarchy and derives the per-zone neighbourhoods. All slices must have
// one entry per atomic zone; origins, destinations and weights must be
// strictly positive; beta controls the spatial decay and nbhSize is the
// target neighbourhood size.
func NewZoneSystem(origins, destinations, weights []float64, centroids []Point, beta float64, nbhSize int) (*ZoneSystem, error) {
	if nbhSize < 1 {
		return nil, fmt.Errorf("neighbourhood size %d must be positive", nbhSize)
	}

	data, err := NewZoneData(origins, destinations, weights, centroids)
	if err != nil {
		return nil, fmt.Errorf("invalid zone data: %w", err)
	}

	clusterer, err := NewClusterBuilder(data, beta)
	if err != nil {
		return nil, err
	}
	tree, err := clusterer.Create()
	if err != nil {
		return nil, fmt.Errorf("clustering failed: %w", err)
	}
	distance := clusterer.DistanceMatrix()

	neighbourhooder := NewNeighbourhoodBuilder(data, beta, nbhSize, tree, distance)
	return &ZoneSystem{
		beta:           beta,
		nbhSize:        nbhSize,
		data:           data,
		tree:           tree,
		distance:       distance,
		neighbourhoods: neighbourhooder.Create(),
	}, nil
}

// Tree returns the merge hierarchy.
func (s *ZoneSystem) Tree() *Tree {
	return s.tree
}

// Neighbourhoods returns the per-atomic-zone neighbourhood sets, indexed
// by atomic zone.
func (s *ZoneSystem) Neighbourhoods() []map[int]struct{} {
	return s.neighbourhoods
}

// Beta returns the spatial decay parameter the system was built with.
func (s *ZoneSystem) Beta() float64 {
	return s.beta
}

// NeighbourhoodSize returns the target neighbourhood size.
func (s *ZoneSystem) NeighbourhoodSize() int {
	return s.nbhSize
}

// NumAtomicZones returns the number of atomic (leaf) zones.
func (s *ZoneSystem) NumAtomicZones() int {
	return s.tree.NumLeafs()
}

// NumZones returns the total number of zones including aggregates.
func (s *ZoneSystem) NumZones() int {
	return s.tree.Size()
}

// LeafCentroids returns the centroids of the atomic zones.
func (s *ZoneSystem) LeafCentroids() []Point {
	return s.data.LeafCentroids(s.tree.NumLeafs())
}

// TransposedNeighbourhoods inverts the neighbourhood lists: entry z holds
// the atomic zones that include zone z in their neighbourhood. The
// inversion is computed once and cached.
func (s *ZoneSystem) TransposedNeighbourhoods() [][]int {
	if s.transposed != nil {
		return s.transposed
	}

	transposed := make([][]int, s.NumZones())
	for i, nbh := range s.neighbourhoods {
		for j := range nbh {
			transposed[j] = append(transposed[j], i)
		}
	}
	s.transposed = transposed
	return transposed
}

// MapLeafZonesToNeighbourhood tags every atomic zone with the member of
// center's neighbourhood it falls under. With renumber, members are
// replaced by consecutive 0-based ids. Atomic zones outside the
// neighbourhood's coverage keep the zero tag.
func (s *ZoneSystem) MapLeafZonesToNeighbourhood(center int, renumber bool) ([]int, error) {
	if center < 0 || center >= s.NumAtomicZones() {
		return nil, fmt.Errorf("center %d out of range [0, %d)", center, s.NumAtomicZones())
	}

	out := make([]int, s.tree.NumLeafs())
	index := 0
	for neighbour := range s.neighbourhoods[center] {
		for _, leaf := range s.tree.Leafs(neighbour) {
			if renumber {
				out[leaf] = index
			} else {
				out[leaf] = neighbour
			}
		}
		index++
	}
	return out, nil
}

// MapLeafZonesToNClusters cuts the hierarchy into n groups and maps every
// atomic zone to its group, optionally renumbered consecutively.
func (s *ZoneSystem) MapLeafZonesToNClusters(n int, renumber bool) ([]int, error) {
	return s.tree.MapLeafsToNGroups(n, renumber)
}
