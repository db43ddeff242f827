package zoning

import (
	"fmt"

	"github.com/fogleman/delaunay"
)

// Adjacency tracks which zones share a border. The initial relation is
// derived from a Delaunay triangulation of the atomic zone centroids: two
// zones are adjacent iff they share a triangle edge. Merges extend the
// relation by one entry and rewrite the neighbours' sets in place.
type Adjacency struct {
	adjacents []map[int]struct{}
}

// NewAdjacency triangulates the centroids and builds the symmetric
// adjacency sets. Fails on degenerate geometry: fewer than 3 centroids,
// or centroids that admit no triangle (all collinear or coincident).
func NewAdjacency(centroids []Point) (*Adjacency, error) {
	if len(centroids) < 3 {
		return nil, fmt.Errorf("need at least 3 centroids for triangulation, got %d", len(centroids))
	}

	points := make([]delaunay.Point, len(centroids))
	for i, c := range centroids {
		points[i] = delaunay.Point{X: c.X, Y: c.Y}
	}
	triangulation, err := delaunay.Triangulate(points)
	if err != nil {
		return nil, fmt.Errorf("delaunay triangulation failed: %w", err)
	}
	if len(triangulation.Triangles) == 0 {
		return nil, fmt.Errorf("degenerate centroid geometry: triangulation produced no triangles")
	}

	adjacents := make([]map[int]struct{}, len(centroids))
	for i := range adjacents {
		adjacents[i] = make(map[int]struct{})
	}
	// Triangles is a flat list of vertex index triples.
	tris := triangulation.Triangles
	for t := 0; t < len(tris); t += 3 {
		a, b, c := tris[t], tris[t+1], tris[t+2]
		adjacents[a][b] = struct{}{}
		adjacents[a][c] = struct{}{}
		adjacents[b][a] = struct{}{}
		adjacents[b][c] = struct{}{}
		adjacents[c][a] = struct{}{}
		adjacents[c][b] = struct{}{}
	}

	return &Adjacency{adjacents: adjacents}, nil
}

// Merge records that the given children were merged into a new zone with
// the next index. The new zone adopts the union of its children's
// neighbours minus the children themselves; every affected neighbour has
// the children replaced by the new zone. Returns the new zone's
// neighbour set.
func (a *Adjacency) Merge(children []int) map[int]struct{} {
	newIndex := len(a.adjacents)

	childSet := make(map[int]struct{}, len(children))
	for _, c := range children {
		childSet[c] = struct{}{}
	}

	merged := make(map[int]struct{})
	for _, c := range children {
		for n := range a.adjacents[c] {
			if _, isChild := childSet[n]; !isChild {
				merged[n] = struct{}{}
			}
		}
	}
	a.adjacents = append(a.adjacents, merged)

	for n := range merged {
		for _, c := range children {
			delete(a.adjacents[n], c)
		}
		a.adjacents[n][newIndex] = struct{}{}
	}

	return merged
}

// Size returns the number of zones with an adjacency entry.
func (a *Adjacency) Size() int {
	return len(a.adjacents)
}

// Neighbours returns the adjacency set of zone i. The set is owned by the
// index and must not be modified.
func (a *Adjacency) Neighbours(i int) map[int]struct{} {
	return a.adjacents[i]
}
