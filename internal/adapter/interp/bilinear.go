package interp

import (
	"fmt"
	"math"
	"sort"
)

// GridCell represents a cell in a regular grid with four corner values.
type GridCell struct {
	// Corner coordinates (forming a rectangle).
	X0, X1 float64 // X boundaries (e.g., longitude).
	Y0, Y1 float64 // Y boundaries (e.g., latitude).

	// Values at the four corners:
	// V00: value at (X0, Y0).
	// V10: value at (X1, Y0).
	// V01: value at (X0, Y1).
	// V11: value at (X1, Y1).
	V00, V10, V01, V11 float64
}

// BilinearInterpolate performs bilinear interpolation within a grid cell
// Formula:
//
//	f(x,y) ≈ (1-t)(1-u)f(x0,y0) + t(1-u)f(x1,y0) + (1-t)u*f(x0,y1) + tu*f(x1,y1)
//
// where:
//
//	t = (x - x0) / (x1 - x0)
//	u = (y - y0) / (y1 - y0)
func BilinearInterpolate(cell GridCell, x, y float64) (float64, error) {
	// Validate grid cell.
	if cell.X1 <= cell.X0 {
		return 0, fmt.Errorf("invalid grid cell: X1 must be > X0")
	}
	if cell.Y1 <= cell.Y0 {
		return 0, fmt.Errorf("invalid grid cell: Y1 must be > Y0")
	}

	// Check if point is within cell (with small tolerance for floating point).
	const epsilon = 1e-9
	if x < cell.X0-epsilon || x > cell.X1+epsilon {
		return 0, fmt.Errorf("x coordinate %.6f is outside grid cell [%.6f, %.6f]", x, cell.X0, cell.X1)
	}
	if y < cell.Y0-epsilon || y > cell.Y1+epsilon {
		return 0, fmt.Errorf("y coordinate %.6f is outside grid cell [%.6f, %.6f]", y, cell.Y0, cell.Y1)
	}

	// Calculate normalized coordinates (0 to 1).
	t := (x - cell.X0) / (cell.X1 - cell.X0)
	u := (y - cell.Y0) / (cell.Y1 - cell.Y0)

	// Clamp to [0, 1] to handle edge cases with floating point precision.
	t = math.Max(0, math.Min(1, t))
	u = math.Max(0, math.Min(1, u))

	// Bilinear interpolation formula.
	result := (1-t)*(1-u)*cell.V00 +
		t*(1-u)*cell.V10 +
		(1-t)*u*cell.V01 +
		t*u*cell.V11

	return result, nil
}

// Grid is a rectilinear (y, x) plane of float32 values.
type Grid struct {
	X        []float64 // Strictly increasing.
	Y        []float64 // Strictly increasing or decreasing.
	Values   []float32 // len(Y)*len(X), row-major (y, x).
	Periodic bool      // X is a longitude circle in degrees.
}

// NewGrid validates and wraps a plane.
func NewGrid(x, y []float64, values []float32, periodic bool) (*Grid, error) {
	g := &Grid{X: x, Y: y, Values: values, Periodic: periodic}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks if the grid is valid.
func (g *Grid) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 X coordinates")
	}
	if len(g.Y) < 2 {
		return fmt.Errorf("grid must have at least 2 Y coordinates")
	}
	if len(g.Values) != len(g.X)*len(g.Y) {
		return fmt.Errorf("grid has %d values, expected %dx%d", len(g.Values), len(g.Y), len(g.X))
	}
	for i := 1; i < len(g.X); i++ {
		if g.X[i] <= g.X[i-1] {
			return fmt.Errorf("X coordinates must be strictly increasing")
		}
	}
	if g.Periodic && g.X[len(g.X)-1]-g.X[0] >= 360 {
		return fmt.Errorf("periodic X coordinates must span less than 360 degrees")
	}
	inc := g.Y[1] > g.Y[0]
	for i := 1; i < len(g.Y); i++ {
		if (g.Y[i] > g.Y[i-1]) != inc || g.Y[i] == g.Y[i-1] {
			return fmt.Errorf("Y coordinates must be strictly monotonic")
		}
	}
	return nil
}

func (g *Grid) at(j, i int) float64 {
	return float64(g.Values[j*len(g.X)+i])
}

// InterpolateAt performs bilinear interpolation at a given point.
func (g *Grid) InterpolateAt(x, y float64) (float64, error) {
	// Locate x. A periodic axis closes the gap between the last and first
	// columns.
	x0, x1 := 0, 0
	var xLo, xHi float64
	if g.Periodic {
		first := g.X[0]
		x = first + math.Mod(math.Mod(x-first, 360)+360, 360)
	}
	if i, ok := interval(g.X, x); ok {
		x0, x1 = i, i+1
		xLo, xHi = g.X[i], g.X[i+1]
	} else if g.Periodic {
		x0, x1 = len(g.X)-1, 0
		xLo, xHi = g.X[x0], g.X[0]+360
	} else {
		return 0, fmt.Errorf("x coordinate %.6f is outside grid range [%.6f, %.6f]", x, g.X[0], g.X[len(g.X)-1])
	}

	j, ok := interval(g.Y, y)
	if !ok {
		return 0, fmt.Errorf("y coordinate %.6f is outside grid range [%.6f, %.6f]", y, g.Y[0], g.Y[len(g.Y)-1])
	}
	y0, y1 := j, j+1
	if g.Y[y0] > g.Y[y1] {
		y0, y1 = y1, y0
	}

	cell := GridCell{
		X0:  xLo,
		X1:  xHi,
		Y0:  g.Y[y0],
		Y1:  g.Y[y1],
		V00: g.at(y0, x0),
		V10: g.at(y0, x1),
		V01: g.at(y1, x0),
		V11: g.at(y1, x1),
	}
	return BilinearInterpolate(cell, x, y)
}

// interval returns i such that v lies between axis[i] and axis[i+1]. The
// axis may be increasing or decreasing.
func interval(axis []float64, v float64) (int, bool) {
	n := len(axis)
	inc := axis[n-1] > axis[0]
	i := sort.Search(n, func(k int) bool {
		if inc {
			return axis[k] >= v
		}
		return axis[k] <= v
	})
	switch {
	case i == n:
		return 0, false
	case i == 0:
		if axis[0] != v {
			return 0, false
		}
		return 0, true
	default:
		return i - 1, true
	}
}
