package domain

import (
	"fmt"
	"math"
)

// HybridRef is the reference metadata carried by an HY record.
type HybridRef struct {
	Etiket string
	IG1    int32 // Reference pressure p0, hPa.
	IG2    int32 // Exponent, times 1000.
}

// HybridTable indexes HY companions by etiket. It is built from the groups
// before the per-group decode and is read-only afterwards.
type HybridTable map[string][]HybridRef

// NewHybridTable collects one reference per HY group.
func NewHybridTable(groups []*Group) HybridTable {
	t := make(HybridTable)
	for _, g := range groups {
		if g.Identity.Nomvar != HybridName {
			continue
		}
		ref := HybridRef{Etiket: g.Identity.Etiket, IG1: g.Identity.IG1, IG2: g.Identity.IG2}
		t[ref.Etiket] = append(t[ref.Etiket], ref)
	}
	return t
}

// DecodeLevel splits a packed level code into its kind and physical value.
func DecodeLevel(code int64) (LevelKind, float64) {
	kind := LevelKind(code >> 24)
	exp := (code & 0xFFFFFF) >> 20
	mantissa := code & 0xFFFFF
	return kind, float64(mantissa) * 10000 / math.Pow10(int(exp))
}

// EncodeLevel packs a level value. It picks the smallest exponent that
// represents value exactly.
func EncodeLevel(kind LevelKind, value float64) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("invalid level kind %d", kind)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative level %g cannot be encoded", value)
	}
	for exp := 0; exp < 16; exp++ {
		m := math.Round(value * math.Pow10(exp) / 10000)
		if m >= 1<<20 {
			break
		}
		if math.Abs(m*10000/math.Pow10(exp)-value) <= 1e-9*math.Max(1, value) {
			return int64(kind)<<24 | int64(exp)<<20 | int64(m), nil
		}
	}
	return 0, fmt.Errorf("level %g cannot be encoded", value)
}

// DecodeLevels builds the vertical axis of a variable from its distinct level
// codes. Hybrid levels take their reference pressure and exponent from the
// single HY companion sharing the variable's etiket.
func DecodeLevels(name string, codes []int64, etiket string, hybrids HybridTable) (VerticalAxis, error) {
	if len(codes) == 0 {
		return VerticalAxis{}, variableErrorf(name, ErrGroupIncomplete, "no levels")
	}

	kind := LevelKind(codes[0] >> 24)
	values := make([]float64, len(codes))
	for i, c := range codes {
		k, v := DecodeLevel(c)
		if k != kind {
			return VerticalAxis{}, variableErrorf(name, ErrIncompatibleMetadata, "incompatible level types %d and %d", kind, k)
		}
		values[i] = v
	}

	axis := VerticalAxis{Kind: kind, Codes: codes, Values: values}
	switch kind {
	case LevelHeight, LevelSigma, LevelPressure, LevelGeneric, LevelHeightAboveGround, LevelTheta:
		return axis, nil
	case LevelHybrid:
		refs := hybrids[etiket]
		if len(refs) != 1 {
			return VerticalAxis{}, variableErrorf(name, ErrCoordinateResolution,
				"found %d %s records with etiket %q, expected 1", len(refs), HybridName, etiket)
		}
		if err := hybridCoefficients(&axis, refs[0]); err != nil {
			return VerticalAxis{}, variableErrorf(name, ErrCoordinateResolution, "%v", err)
		}
		return axis, nil
	default:
		return VerticalAxis{}, variableErrorf(name, ErrIncompatibleMetadata, "unsupported level kind %d", kind)
	}
}

// hybridCoefficients fills A and B. Levels above the model lid are clamped to
// the lid. The lid must sit strictly above the reference pressure.
func hybridCoefficients(axis *VerticalAxis, ref HybridRef) error {
	p0 := float64(ref.IG1) * 100
	if p0 <= 0 {
		return fmt.Errorf("%s reference pressure %d hPa must be positive", HybridName, ref.IG1)
	}
	plid := axis.Values[0] * 100
	exp := float64(ref.IG2) / 1000
	etaTop := plid / p0
	if etaTop >= 1 {
		return fmt.Errorf("model lid %g Pa is not above reference pressure %g Pa", plid, p0)
	}

	axis.A = make([]float64, len(axis.Values))
	axis.B = make([]float64, len(axis.Values))
	for i, l := range axis.Values {
		if l < etaTop {
			l = etaTop
			axis.Values[i] = l
		}
		b := math.Pow((l-etaTop)/(1-etaTop), exp)
		axis.B[i] = b
		axis.A[i] = p0 * (l - b)
	}
	return nil
}
