package domain

import (
	"fmt"
	"math"
)

const earthRadius = 6371000.0 // m

// PolarStereoLatLon converts polar stereographic grid positions to
// latitudes and longitudes in degrees. d60 is the grid length at 60°
// (metres) and dgrw the orientation of the grid relative to Greenwich.
// Results are laid out (y, x), row-major.
func PolarStereoLatLon(x, y []float64, d60, dgrw float64, south bool) (lat, lon []float64) {
	re := 1.866025 * earthRadius / d60
	re2 := re * re

	lat = make([]float64, len(x)*len(y))
	lon = make([]float64, len(x)*len(y))
	for j, yv := range y {
		for i, xv := range x {
			dlon := Rad2Deg(math.Atan2(yv, xv))
			if xv < 0 {
				dlon += 180 * sign(yv)
			}
			dlon -= dgrw
			if dlon > 180 {
				dlon -= 360
			}
			if dlon < -180 {
				dlon += 360
			}

			r2 := xv*xv + yv*yv
			dlat := Rad2Deg(math.Asin((re2 - r2) / (re2 + r2)))

			if south {
				dlat, dlon = -dlat, -dlon
			}
			lat[j*len(x)+i] = dlat
			lon[j*len(x)+i] = dlon
		}
	}
	return lat, lon
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// AddLatLon appends latitude and longitude fields for every distinct pair
// of compatible x/y coordinate axes found in the dataset. Only polar
// stereographic grids are projected; other grids are reported and skipped.
func AddLatLon(ds *Dataset, diag *Diagnostics) {
	var xs, ys []HorizontalAxis
	seen := make(map[GridDescriptor]bool)
	for _, v := range ds.Variables {
		if v.X.Kind == HorizontalCoordinate && v.Y.Kind == HorizontalCoordinate &&
			v.X.Descriptor.Compatible(v.Y.Descriptor) && !seen[v.X.Descriptor] {
			seen[v.X.Descriptor] = true
			xs = append(xs, v.X)
			ys = append(ys, v.Y)
		}
	}

	for n := range xs {
		x, y := xs[n], ys[n]
		d := x.Descriptor
		switch d.Grtyp {
		case GridPolarNorth, GridPolarSouth:
		default:
			diag.Warn(fmt.Sprintf("cannot compute latitudes and longitudes for grid type %q", rune(d.Grtyp)))
			continue
		}
		if d.IG3 == 0 {
			diag.Warn("polar stereographic grid has no grid length (ig3=0)")
			continue
		}

		lat, lon := PolarStereoLatLon(x.Values, y.Values, float64(d.IG3), float64(d.IG4), d.Grtyp == GridPolarSouth)
		ds.Fields = append(ds.Fields,
			&Field2D{Name: ds.uniqueName("latitudes"), Units: "degrees_north", Y: y, X: x, Values: lat},
			&Field2D{Name: ds.uniqueName("longitudes"), Units: "degrees_east", Y: y, X: x, Values: lon},
		)
	}
}
