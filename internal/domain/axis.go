package domain

import (
	"fmt"
	"time"
)

// TimeKind distinguishes calendar time axes from plain index axes.
type TimeKind int

const (
	// TimeIndex is a degenerate axis of raw date codes (all zero).
	TimeIndex TimeKind = iota
	// TimeCalendar is an axis of decoded calendar instants.
	TimeCalendar
)

// TimeEpoch is the reference instant of calendar axes.
var TimeEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeUnits is the CF units string matching TimeEpoch.
const TimeUnits = "hours since 1980-01-01 00:00:00"

// TimeAxis is the decoded time axis of a variable.
type TimeAxis struct {
	Kind  TimeKind
	Codes []int64     // Raw packed dates, in axis order.
	Times []time.Time // Calendar axes only.
}

// Hours returns the axis as hours since TimeEpoch, or the raw codes for an
// index axis.
func (a TimeAxis) Hours() []float64 {
	out := make([]float64, len(a.Codes))
	switch a.Kind {
	case TimeCalendar:
		for i, t := range a.Times {
			out[i] = t.Sub(TimeEpoch).Hours()
		}
	case TimeIndex:
		for i, c := range a.Codes {
			out[i] = float64(c)
		}
	default:
		panic(fmt.Sprintf("unhandled time axis kind %d", a.Kind))
	}
	return out
}

// Len returns the axis length.
func (a TimeAxis) Len() int { return len(a.Codes) }

// LevelKind is the decoded kind of a packed level code.
type LevelKind int

// Level kinds, in the order of their codes.
const (
	LevelHeight            LevelKind = iota // 0: metres above sea level.
	LevelSigma                              // 1: sigma, 0..1.
	LevelPressure                           // 2: millibars.
	LevelGeneric                            // 3: arbitrary code.
	LevelHeightAboveGround                  // 4: metres above ground.
	LevelHybrid                             // 5: hybrid pressure-sigma, 0..1.
	LevelTheta                              // 6: potential temperature.
)

// levelKindCount bounds the valid kinds.
const levelKindCount = 7

// Valid reports whether k is one of the enumerated kinds.
func (k LevelKind) Valid() bool { return k >= 0 && k < levelKindCount }

// String returns the short name used for output dimensions.
func (k LevelKind) String() string {
	switch k {
	case LevelHeight:
		return "height"
	case LevelSigma:
		return "sigma"
	case LevelPressure:
		return "pres"
	case LevelGeneric:
		return "level"
	case LevelHeightAboveGround:
		return "height_agl"
	case LevelHybrid:
		return "hybrid"
	case LevelTheta:
		return "theta"
	default:
		return fmt.Sprintf("kind%d", int(k))
	}
}

// Units returns the physical units of the level values.
func (k LevelKind) Units() string {
	switch k {
	case LevelHeight, LevelHeightAboveGround:
		return "m"
	case LevelSigma:
		return "sigma_level"
	case LevelPressure:
		return "hPa"
	case LevelHybrid:
		return "hybrid_level"
	case LevelTheta:
		return "K"
	case LevelGeneric:
		return ""
	default:
		return ""
	}
}

// VerticalAxis is the decoded level axis of a variable.
type VerticalAxis struct {
	Kind   LevelKind
	Codes  []int64
	Values []float64

	// Hybrid coefficients, one per level. Empty for other kinds.
	A, B []float64
}

// Len returns the axis length.
func (a VerticalAxis) Len() int { return len(a.Codes) }

// Pressure returns the pressure (Pa) at hybrid level i for surface pressure ps.
func (a VerticalAxis) Pressure(i int, ps float64) float64 {
	return a.A[i] + a.B[i]*ps
}

// HorizontalKind tags the variants of a horizontal axis.
type HorizontalKind int

const (
	// HorizontalIndex is a plain 0..n-1 index.
	HorizontalIndex HorizontalKind = iota
	// HorizontalCoordinate carries provider values that are not geophysical.
	HorizontalCoordinate
	// HorizontalLongitude is a geophysical longitude axis in degrees east.
	HorizontalLongitude
	// HorizontalLatitude is a geophysical latitude axis in degrees north.
	HorizontalLatitude
)

// GridDescriptor is the grid type and descriptor integers of a record.
// For coordinate providers the ip codes identify the grid being described.
type GridDescriptor struct {
	Grtyp         GridType
	IP1, IP2, IP3 int32
	IG1, IG2, IG3 int32
	IG4           int32
}

// Compatible reports whether two descriptors belong to one grid definition.
func (d GridDescriptor) Compatible(o GridDescriptor) bool {
	return d == o
}

// HorizontalAxis is an x (i) or y (j) axis.
type HorizontalAxis struct {
	Kind       HorizontalKind
	Values     []float64
	Descriptor GridDescriptor // HorizontalCoordinate only.
}

// IndexAxis returns a 0..n-1 axis.
func IndexAxis(n int) HorizontalAxis {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i)
	}
	return HorizontalAxis{Kind: HorizontalIndex, Values: v}
}

// Len returns the axis length.
func (a HorizontalAxis) Len() int { return len(a.Values) }

// IsGeophysical reports whether the axis holds longitudes or latitudes.
func (a HorizontalAxis) IsGeophysical() bool {
	return a.Kind == HorizontalLongitude || a.Kind == HorizontalLatitude
}
