package domain

import "fmt"

// LoadProvider reads the values of a >> or ^^ variable. The provider must
// hold a single level and forecast. Only the first time step is used.
func LoadProvider(v *Variable) (*CoordProvider, error) {
	role := v.Identity.Nomvar
	if role != XCoordName && role != YCoordName {
		return nil, fmt.Errorf("%s is not a horizontal coordinate provider", role)
	}
	if len(v.Forecast) != 1 || v.Level.Len() != 1 {
		return nil, variableErrorf(role, ErrCoordinateResolution,
			"provider has %d forecasts and %d levels, expected 1 each", len(v.Forecast), v.Level.Len())
	}

	block, err := v.Read(Selection{T: []int{0}})
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(block.Values))
	for i, f := range block.Values {
		values[i] = float64(f)
	}

	id := v.Identity
	return &CoordProvider{
		Role: role,
		Descriptor: GridDescriptor{
			Grtyp: id.Grtyp,
			IP1:   int32(v.Level.Codes[0]),
			IP2:   int32(v.Forecast[0]),
			IP3:   id.IP3,
			IG1:   id.IG1,
			IG2:   id.IG2,
			IG3:   id.IG3,
			IG4:   id.IG4,
		},
		NI:     int(id.NI),
		NJ:     int(id.NJ),
		Values: values,
	}, nil
}

// AttachCoordinates replaces the index or coordinate x/y axes of ordinary
// variables with matching providers. When several providers match, the last
// one wins. Longitude and latitude axes are left alone, as are providers whose
// length differs from the axis.
func AttachCoordinates(vars []*Variable, providers []*CoordProvider) {
	for _, v := range vars {
		if v.Identity.Nomvar == XCoordName || v.Identity.Nomvar == YCoordName {
			continue
		}
		id := v.Identity
		for _, p := range providers {
			if !p.Matches(id.IG1, id.IG2, id.IG3) {
				continue
			}
			switch p.Role {
			case XCoordName:
				if !v.X.IsGeophysical() && len(p.Values) == v.X.Len() {
					v.X = p.Axis()
				}
			case YCoordName:
				if !v.Y.IsGeophysical() && len(p.Values) == v.Y.Len() {
					v.Y = p.Axis()
				}
			}
		}
	}
}
