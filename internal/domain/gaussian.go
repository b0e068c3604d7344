package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"
)

// GaussianLatitudes returns the n Gaussian latitudes in degrees, south to
// north. They are the arcsines of the Gauss-Legendre nodes on [-1, 1].
func GaussianLatitudes(n int) []float64 {
	if n <= 0 {
		return nil
	}
	nodes := make([]float64, n)
	weights := make([]float64, n)
	quad.Legendre{}.FixedLocations(nodes, weights, -1, 1)

	lat := make([]float64, n)
	for i, x := range nodes {
		lat[i] = Rad2Deg(math.Asin(x))
	}
	sort.Float64s(lat)
	return lat
}
