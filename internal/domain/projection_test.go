package domain

import (
	"math"
	"testing"
)

func TestPolarStereoLatLon_Pole(t *testing.T) {
	for _, south := range []bool{false, true} {
		lat, lon := PolarStereoLatLon([]float64{0}, []float64{0}, 60000, 0, south)
		want := 90.0
		if south {
			want = -90
		}
		if math.Abs(lat[0]-want) > 1e-12 {
			t.Errorf("south=%v: expected latitude %g at the pole, got %g", south, want, lat[0])
		}
		if lon[0] != 0 {
			t.Errorf("south=%v: expected longitude 0 at the pole, got %g", south, lon[0])
		}
	}
}

func TestPolarStereoLatLon_Layout(t *testing.T) {
	x := []float64{-1, 0, 1}
	y := []float64{-2, 2}
	d60 := 1.866025 * earthRadius // re = 1 grid unit
	lat, lon := PolarStereoLatLon(x, y, d60, 0, false)
	if len(lat) != 6 || len(lon) != 6 {
		t.Fatalf("expected 6 points, got %d/%d", len(lat), len(lon))
	}

	// Point (j=1, i=2): x=1, y=2.
	r2 := 5.0
	wantLat := Rad2Deg(math.Asin((1 - r2) / (1 + r2)))
	wantLon := Rad2Deg(math.Atan2(2, 1))
	if math.Abs(lat[5]-wantLat) > 1e-9 || math.Abs(lon[5]-wantLon) > 1e-9 {
		t.Errorf("expected (%g, %g), got (%g, %g)", wantLat, wantLon, lat[5], lon[5])
	}

	// Point (j=0, i=0): x=-1, y=-2 adds -180 then wraps.
	got := lon[0]
	want := Rad2Deg(math.Atan2(-2, -1)) - 180 + 360
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected wrapped longitude %g, got %g", want, got)
	}
}

func TestPolarStereoLatLon_Orientation(t *testing.T) {
	_, lon := PolarStereoLatLon([]float64{1}, []float64{0}, 60000, 100, false)
	if math.Abs(lon[0]+100) > 1e-12 {
		t.Errorf("expected -100, got %g", lon[0])
	}
	_, lon = PolarStereoLatLon([]float64{1}, []float64{0}, 60000, -200, false)
	if math.Abs(lon[0]-(-160)) > 1e-12 {
		t.Errorf("expected -160 after wrapping, got %g", lon[0])
	}
}

func TestAddLatLon(t *testing.T) {
	polar := GridDescriptor{Grtyp: GridPolarNorth, IP1: 1, IG3: 60000, IG4: 0}
	other := GridDescriptor{Grtyp: 'L', IP1: 2}

	mk := func(d GridDescriptor) *Variable {
		return &Variable{
			Identity: Identity{Nomvar: "TT"},
			X:        HorizontalAxis{Kind: HorizontalCoordinate, Values: []float64{0, 1}, Descriptor: d},
			Y:        HorizontalAxis{Kind: HorizontalCoordinate, Values: []float64{0}, Descriptor: d},
		}
	}

	ds := NewDataset(nil)
	ds.Add(mk(polar))
	ds.Add(mk(polar))
	ds.Add(mk(other))
	diag := NewDiagnostics(nil)
	AddLatLon(ds, diag)

	if len(ds.Fields) != 2 {
		t.Fatalf("expected one latitude/longitude pair, got %d fields", len(ds.Fields))
	}
	if ds.Fields[0].Name != "latitudes" || ds.Fields[1].Name != "longitudes" {
		t.Errorf("unexpected names %s, %s", ds.Fields[0].Name, ds.Fields[1].Name)
	}
	if math.Abs(ds.Fields[0].Values[0]-90) > 1e-12 {
		t.Errorf("expected 90 at the pole, got %g", ds.Fields[0].Values[0])
	}
	if len(diag.Warnings()) != 1 {
		t.Errorf("expected a warning for the unsupported grid, got %v", diag.Warnings())
	}
}
