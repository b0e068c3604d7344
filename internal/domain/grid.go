package domain

import (
	"gonum.org/v1/gonum/floats"
)

// GridType is the single-character grid type code of a record.
type GridType byte

// Grid types handled by the resolver and the projection.
const (
	GridLatLon      GridType = 'A' // Global lat-lon, cell-centred.
	GridLatLonPoles GridType = 'B' // Global lat-lon including the poles.
	GridGaussian    GridType = 'G' // Gaussian latitudes.
	GridMesh        GridType = 'Z' // Positions from >> and ^^ providers.
	GridRotated     GridType = 'E' // Provider values are longitudes/latitudes.
	GridPolarNorth  GridType = 'N' // Polar stereographic, northern hemisphere.
	GridPolarSouth  GridType = 'S' // Polar stereographic, southern hemisphere.
)

func (g GridType) String() string { return string(rune(g)) }

// CoordProvider is a loaded >> or ^^ record: the positions of a Z grid along
// one direction.
type CoordProvider struct {
	Role       string // XCoordName or YCoordName.
	Descriptor GridDescriptor
	NI, NJ     int
	Values     []float64
}

// Matches reports whether the provider describes the grid whose descriptor
// integers are ig1, ig2 and ig3.
func (p *CoordProvider) Matches(ig1, ig2, ig3 int32) bool {
	d := p.Descriptor
	return d.IP1 == ig1 && d.IP2 == ig2 && d.IP3 == ig3
}

// Axis wraps the provider values as a horizontal axis.
func (p *CoordProvider) Axis() HorizontalAxis {
	if p.Descriptor.Grtyp == GridRotated {
		kind := HorizontalLongitude
		if p.Role == YCoordName {
			kind = HorizontalLatitude
		}
		return HorizontalAxis{Kind: kind, Values: p.Values}
	}
	return HorizontalAxis{Kind: HorizontalCoordinate, Values: p.Values, Descriptor: p.Descriptor}
}

// NeedsMesh reports whether the variable's horizontal axes come from
// coordinate providers resolved in the second phase.
func (v *Variable) NeedsMesh() bool {
	return v.Identity.Grtyp == GridMesh
}

// ResolveAnalyticGrid sets the horizontal axes of A, B and G grids. Z grids
// keep their index axes for ResolveMeshGrid. Any other grid type is a
// coordinate resolution failure.
func ResolveAnalyticGrid(v *Variable) error {
	id := v.Identity
	ni, nj := int(id.NI), int(id.NJ)

	var x, y []float64
	switch id.Grtyp {
	case GridLatLon:
		x = make([]float64, ni)
		for i := range x {
			x[i] = 360 / float64(ni) * float64(i)
		}
		y = make([]float64, nj)
		for k := range y {
			y[k] = -90 + 180/float64(nj)*(float64(k)+0.5)
		}
	case GridLatLonPoles:
		if ni < 2 || nj < 2 {
			return variableErrorf(v.Name, ErrCoordinateResolution, "grid B needs at least 2x2 points, got %dx%d", ni, nj)
		}
		x = make([]float64, ni)
		for i := range x {
			x[i] = 360 / float64(ni-1) * float64(i)
		}
		y = make([]float64, nj)
		for k := range y {
			y[k] = -90 + 180/float64(nj-1)*float64(k) - 90
		}
	case GridGaussian:
		if id.IG1 != 0 {
			return variableErrorf(v.Name, ErrCoordinateResolution, "only global gaussian grids are supported (ig1=%d)", id.IG1)
		}
		x = make([]float64, ni)
		for i := range x {
			x[i] = 360 / float64(ni) * float64(i)
		}
		y = GaussianLatitudes(nj)
	case GridMesh:
		v.X = IndexAxis(ni)
		v.Y = IndexAxis(nj)
		return nil
	default:
		return variableErrorf(v.Name, ErrCoordinateResolution, "unsupported grid type %q", rune(id.Grtyp))
	}

	switch id.IG1 {
	case 0:
	case 1:
		floats.AddConst(90, y)
		floats.Scale(0.5, y)
	case 2:
		floats.AddConst(-90, y)
		floats.Scale(0.5, y)
	default:
		return variableErrorf(v.Name, ErrCoordinateResolution, "unknown hemisphere flag ig1=%d", id.IG1)
	}
	if id.IG2 == 1 {
		floats.Reverse(y)
	}

	v.X = HorizontalAxis{Kind: HorizontalLongitude, Values: x}
	v.Y = HorizontalAxis{Kind: HorizontalLatitude, Values: y}
	return nil
}

// ResolveMeshGrid sets the horizontal axes of a Z grid variable from the
// providers. Exactly one >> and one ^^ must match the variable's descriptor
// and shape.
func ResolveMeshGrid(v *Variable, providers []*CoordProvider) error {
	id := v.Identity
	var xs, ys []*CoordProvider
	for _, p := range providers {
		if !p.Matches(id.IG1, id.IG2, id.IG3) {
			continue
		}
		switch p.Role {
		case XCoordName:
			if p.NI == int(id.NI) {
				xs = append(xs, p)
			}
		case YCoordName:
			if p.NJ == int(id.NJ) {
				ys = append(ys, p)
			}
		}
	}
	if len(xs) != 1 {
		return variableErrorf(v.Name, ErrCoordinateResolution, "found %d matching %s records, expected 1", len(xs), XCoordName)
	}
	if len(ys) != 1 {
		return variableErrorf(v.Name, ErrCoordinateResolution, "found %d matching %s records, expected 1", len(ys), YCoordName)
	}

	x, y := xs[0].Axis(), ys[0].Axis()
	if x.Len() != int(id.NI) || y.Len() != int(id.NJ) {
		return variableErrorf(v.Name, ErrCoordinateResolution, "coordinate lengths %dx%d do not match grid %dx%d",
			x.Len(), y.Len(), id.NI, id.NJ)
	}
	v.X, v.Y = x, y
	return nil
}
