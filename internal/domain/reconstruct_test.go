package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cube builds a complete group of nt dates x nf forecasts x nz levels. Dates
// vary slowest; the payload handle is the record position.
func cube(t *testing.T, name string, nt, nf, nz int) []RawRecordHeader {
	t.Helper()
	var out []RawRecordHeader
	for ti := 0; ti < nt; ti++ {
		for fi := 0; fi < nf; fi++ {
			for zi := 0; zi < nz; zi++ {
				h := record(name, 4, 2, legacyDateLimit+int64(ti)*900, mustLevel(t, LevelPressure, float64(1000-100*zi)), int32(6*fi))
				h.Data = uint64(len(out))
				out = append(out, h)
			}
		}
	}
	return out
}

func TestReconstruct_Complete(t *testing.T) {
	headers := cube(t, "TT", 2, 3, 4)
	groups := GroupHeaders(headers)
	require.Len(t, groups, 1)

	v, err := Reconstruct(groups[0])
	require.NoError(t, err)

	lk := v.Lookup()
	assert.Equal(t, len(headers), lk.NT*lk.NF*lk.NZ)
	assert.Equal(t, 0, lk.Missing())
	assert.Equal(t, [6]int{2, 3, 4, 1, 2, 4}, v.Shape())
	assert.Equal(t, []int64{0, 6, 12}, v.Forecast)

	for ti := 0; ti < 2; ti++ {
		for fi := 0; fi < 3; fi++ {
			for zi := 0; zi < 4; zi++ {
				hi, ok := lk.At(ti, fi, zi)
				require.True(t, ok)
				assert.Equal(t, uint64((ti*3+fi)*4+zi), v.Headers()[hi].Data)
			}
		}
	}
}

func TestReconstruct_FirstSeenOrder(t *testing.T) {
	headers := []RawRecordHeader{
		record("TT", 4, 2, 0, 30, 12),
		record("TT", 4, 2, 0, 10, 12),
		record("TT", 4, 2, 0, 30, 0),
		record("TT", 4, 2, 0, 10, 0),
	}
	v, err := Reconstruct(GroupHeaders(headers)[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 0}, v.Forecast)
	assert.Equal(t, []int64{30, 10}, v.Level.Codes)
}

func TestReconstruct_MissingRecords(t *testing.T) {
	tests := []struct {
		name    string
		headers []RawRecordHeader
	}{
		{
			name: "product mismatch",
			headers: []RawRecordHeader{
				record("TT", 4, 2, 0, 1, 0),
				record("TT", 4, 2, 0, 2, 0),
				record("TT", 4, 2, 0, 1, 6),
			},
		},
		{
			name: "duplicate cell",
			headers: []RawRecordHeader{
				record("TT", 4, 2, 0, 1, 0),
				record("TT", 4, 2, 0, 2, 0),
				record("TT", 4, 2, 0, 1, 6),
				record("TT", 4, 2, 0, 1, 6),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconstruct(GroupHeaders(tt.headers)[0])
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrGroupIncomplete))

			var verr *VariableError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "TT", verr.Variable)
		})
	}
}

func TestReconstruct_InvalidShape(t *testing.T) {
	tests := []struct {
		name       string
		ni, nj, nk int32
	}{
		{"negative ni and nj", -1, -1, 1},
		{"zero nj", 4, 0, 1},
		{"zero nk", 4, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := record("TT", tt.ni, tt.nj, 0, 0, 0)
			h.NK = tt.nk
			_, err := Reconstruct(GroupHeaders([]RawRecordHeader{h})[0])
			assert.ErrorIs(t, err, ErrIncompatibleMetadata)
		})
	}
}

func TestDecodeGroup_MixedLevelKinds(t *testing.T) {
	headers := []RawRecordHeader{
		record("TT", 4, 2, 0, mustLevel(t, LevelPressure, 500), 0),
		record("TT", 4, 2, 0, mustLevel(t, LevelSigma, 0.5), 0),
	}
	_, err := DecodeGroup(GroupHeaders(headers)[0], nil, NewDiagnostics(nil))
	assert.ErrorIs(t, err, ErrIncompatibleMetadata)
}

func TestDecodeGroup_UnsupportedGrid(t *testing.T) {
	h := record("TT", 4, 2, 0, 0, 0)
	h.Grtyp = 'L'
	_, err := DecodeGroup(GroupHeaders([]RawRecordHeader{h})[0], nil, NewDiagnostics(nil))
	assert.ErrorIs(t, err, ErrCoordinateResolution)
}

func TestDecodeGroup_Axes(t *testing.T) {
	headers := cube(t, "TT", 2, 1, 2)
	v, err := DecodeGroup(GroupHeaders(headers)[0], nil, NewDiagnostics(nil))
	require.NoError(t, err)

	assert.Equal(t, TimeCalendar, v.Time.Kind)
	assert.Equal(t, []float64{0, 1}, v.Time.Hours())
	assert.Equal(t, LevelPressure, v.Level.Kind)
	assert.Equal(t, []float64{1000, 900}, v.Level.Values)
	assert.Equal(t, []float64{0, 90, 180, 270}, v.X.Values)
	assert.Equal(t, []float64{-45, 45}, v.Y.Values)
	assert.Equal(t, "TT", v.Attrs["nomvar"])
}
