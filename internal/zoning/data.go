package zoning

import "fmt"

// Point is a zone centroid in plane coordinates.
type Point struct {
	X float64
	Y float64
}

// ZoneData stores the per-zone attributes: origin and destination volumes,
// weight and centroid. The first entries belong to the atomic zones; one
// entry is appended per merge, in lockstep with the tree. Inputs are
// copied at construction, so the caller keeps ownership of its slices.
type ZoneData struct {
	origins      []float64
	destinations []float64
	weights      []float64
	centroids    []Point
}

// NewZoneData validates and copies the attribute vectors of the atomic
// zones. All four slices must have equal length; weights, origins and
// destinations must be strictly positive (the merge and neighbourhood
// criteria take their logarithms).
func NewZoneData(origins, destinations, weights []float64, centroids []Point) (*ZoneData, error) {
	n := len(origins)
	if len(destinations) != n || len(weights) != n || len(centroids) != n {
		return nil, fmt.Errorf("zone attribute lengths differ: origins %d, destinations %d, weights %d, centroids %d",
			n, len(destinations), len(weights), len(centroids))
	}
	for i := 0; i < n; i++ {
		if origins[i] <= 0 {
			return nil, fmt.Errorf("origin of zone %d is %g, must be positive", i, origins[i])
		}
		if destinations[i] <= 0 {
			return nil, fmt.Errorf("destination of zone %d is %g, must be positive", i, destinations[i])
		}
		if weights[i] <= 0 {
			return nil, fmt.Errorf("weight of zone %d is %g, must be positive", i, weights[i])
		}
	}

	d := &ZoneData{
		origins:      make([]float64, n),
		destinations: make([]float64, n),
		weights:      make([]float64, n),
		centroids:    make([]Point, n),
	}
	copy(d.origins, origins)
	copy(d.destinations, destinations)
	copy(d.weights, weights)
	copy(d.centroids, centroids)
	return d, nil
}

// AppendParent appends the aggregated attributes of a merged zone: sums
// for origin, destination and weight, and the weight-weighted average of
// the children's centroids.
func (d *ZoneData) AppendParent(children []int) error {
	var origin, destination, weight float64
	for _, c := range children {
		origin += d.origins[c]
		destination += d.destinations[c]
		weight += d.weights[c]
	}
	// Unreachable with validated inputs, but the centroid division and the
	// criterion logs both depend on it.
	if weight <= 0 {
		return fmt.Errorf("combined weight %g of merged zone is not positive", weight)
	}

	var x, y float64
	for _, c := range children {
		x += d.centroids[c].X * d.weights[c]
		y += d.centroids[c].Y * d.weights[c]
	}

	d.origins = append(d.origins, origin)
	d.destinations = append(d.destinations, destination)
	d.weights = append(d.weights, weight)
	d.centroids = append(d.centroids, Point{X: x / weight, Y: y / weight})
	return nil
}

// Size returns the number of zones with stored attributes.
func (d *ZoneData) Size() int {
	return len(d.origins)
}

// Origin returns the origin volume of zone i.
func (d *ZoneData) Origin(i int) float64 {
	return d.origins[i]
}

// Destination returns the destination volume of zone i.
func (d *ZoneData) Destination(i int) float64 {
	return d.destinations[i]
}

// Weight returns the weight of zone i.
func (d *ZoneData) Weight(i int) float64 {
	return d.weights[i]
}

// Centroid returns the centroid of zone i.
func (d *ZoneData) Centroid(i int) Point {
	return d.centroids[i]
}

// LeafCentroids returns a copy of the first n centroids, the atomic zones.
func (d *ZoneData) LeafCentroids(n int) []Point {
	out := make([]Point, n)
	copy(out, d.centroids[:n])
	return out
}
