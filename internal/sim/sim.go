// Package sim solves the doubly constrained spatial interaction model
// Tij = ai*bj*Oi*Dj*exp(-beta*dij) and calibrates the beta decay
// parameter against an observed average trip distance. It is used to pick
// the beta fed into the adaptive zoning build.
package sim

import (
	"fmt"
	"math"

	"adazone/internal/zoning"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	maxIterations = 100
	precision     = 1e-6
)

// Result holds the solved interaction model.
type Result struct {
	Trips           *mat.Dense // modelled origin-destination flows
	AverageDistance float64    // trip-weighted average distance
	A               []float64  // origin balancing factors
	B               []float64  // destination balancing factors
}

// DistanceMatrixFromPoints computes the dense matrix of straight-line
// distances between all point pairs.
func DistanceMatrixFromPoints(points []zoning.Point) *mat.Dense {
	n := len(points)
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.Set(i, j, math.Hypot(points[i].X-points[j].X, points[i].Y-points[j].Y))
		}
	}
	return d
}

// DoublyConstrained solves the model by iterative proportional fitting:
// the balancing factors a and b are updated in turn until b converges or
// the iteration limit is hit.
func DoublyConstrained(orig, dest []float64, distance *mat.Dense, beta float64) (*Result, error) {
	m, n := distance.Dims()
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("empty distance matrix")
	}
	if len(orig) != m || len(dest) != n {
		return nil, fmt.Errorf("shape mismatch: distance is %dx%d, origins %d, destinations %d",
			m, n, len(orig), len(dest))
	}

	// prior_ij = Oi * Dj * exp(-beta * dij)
	prior := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			prior.Set(i, j, orig[i]*dest[j]*math.Exp(-beta*distance.At(i, j)))
		}
	}

	a := make([]float64, m)
	b := make([]float64, n)
	for i := range a {
		a[i] = 1
	}
	for j := range b {
		b[j] = 1
	}

	rowSum := make([]float64, m)
	colSum := make([]float64, n)
	for iter := 0; iter < maxIterations; iter++ {
		// a = orig / (prior * b)
		bv := mat.NewVecDense(n, b)
		var pb mat.VecDense
		pb.MulVec(prior, bv)
		for i := 0; i < m; i++ {
			rowSum[i] = pb.AtVec(i)
			a[i] = orig[i] / rowSum[i]
		}

		// b = dest / (a^T * prior)
		av := mat.NewVecDense(m, a)
		var ap mat.VecDense
		ap.MulVec(prior.T(), av)
		converged := true
		for j := 0; j < n; j++ {
			colSum[j] = ap.AtVec(j)
			bNew := dest[j] / colSum[j]
			if diff := bNew - b[j]; diff*diff >= precision {
				converged = false
			}
			b[j] = bNew
		}
		if converged {
			break
		}
	}

	trips := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			trips.Set(i, j, a[i]*b[j]*prior.At(i, j))
		}
	}

	var weighted mat.Dense
	weighted.MulElem(trips, distance)
	average := mat.Sum(&weighted) / mat.Sum(trips)

	return &Result{Trips: trips, AverageDistance: average, A: a, B: b}, nil
}

// CalibrateBeta finds the beta that reproduces the target average trip
// distance by bisection. Higher beta means stronger decay and shorter
// average trips, so the target must lie between the averages produced by
// the two bounds.
func CalibrateBeta(orig, dest []float64, distance *mat.Dense, targetAverage, betaMin, betaMax float64) (float64, error) {
	atMin, err := DoublyConstrained(orig, dest, distance, betaMin)
	if err != nil {
		return 0, err
	}
	atMax, err := DoublyConstrained(orig, dest, distance, betaMax)
	if err != nil {
		return 0, err
	}

	if atMin.AverageDistance < targetAverage {
		return 0, fmt.Errorf("beta lower bound %g is too high: average distance %g below target %g",
			betaMin, atMin.AverageDistance, targetAverage)
	}
	if atMax.AverageDistance > targetAverage {
		return 0, fmt.Errorf("beta upper bound %g is too low: average distance %g above target %g",
			betaMax, atMax.AverageDistance, targetAverage)
	}

	for betaMax-betaMin > 1e-6 {
		beta := (betaMin + betaMax) / 2
		r, err := DoublyConstrained(orig, dest, distance, beta)
		if err != nil {
			return 0, err
		}
		if r.AverageDistance < targetAverage {
			betaMax = beta
		} else {
			betaMin = beta
		}
	}

	return (betaMin + betaMax) / 2, nil
}

// TotalTrips returns the summed flow of a solved model.
func (r *Result) TotalTrips() float64 {
	return mat.Sum(r.Trips)
}

// RowTotals returns the per-origin flow sums, which match the origin
// constraints when the model has converged.
func (r *Result) RowTotals() []float64 {
	m, n := r.Trips.Dims()
	out := make([]float64, m)
	for i := 0; i < m; i++ {
		out[i] = floats.Sum(r.Trips.RawRowView(i)[:n])
	}
	return out
}
