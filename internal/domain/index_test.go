package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupHeaders_Partition(t *testing.T) {
	var headers []RawRecordHeader
	for _, name := range []string{"TT", "UU", "TT", "GZ", "UU", "TT"} {
		h := record(name, 4, 2, 0, int32(len(headers)), 0)
		h.Data = uint64(len(headers))
		headers = append(headers, h)
	}

	groups := GroupHeaders(headers)
	require.Len(t, groups, 3)
	assert.Equal(t, "TT", groups[0].Identity.Nomvar)
	assert.Equal(t, "UU", groups[1].Identity.Nomvar)
	assert.Equal(t, "GZ", groups[2].Identity.Nomvar)

	seen := make(map[uint64]int)
	total := 0
	for _, g := range groups {
		prev := -1
		for _, h := range g.Headers {
			seen[h.Data]++
			total++
			assert.Greater(t, int(h.Data), prev, "input order kept within %s", g.Identity.Nomvar)
			prev = int(h.Data)
		}
	}
	assert.Equal(t, len(headers), total)
	for i := range headers {
		assert.Equal(t, 1, seen[uint64(i)], "header %d", i)
	}
}

func TestGroupHeaders_ForecastsShareAGroup(t *testing.T) {
	headers := []RawRecordHeader{
		record("TT", 4, 2, 0, 0, 0),
		record("TT", 4, 2, 0, 0, 6),
		record("TT", 4, 2, 0, 0, 12),
	}
	groups := GroupHeaders(headers)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Headers, 3)
}

func TestGroupHeaders_ProvidersKeepTheirCodes(t *testing.T) {
	a := record(XCoordName, 4, 1, 0, 7, 3)
	b := record(XCoordName, 4, 1, 0, 8, 3)
	c := record(XCoordName, 4, 1, 0, 7, 4)

	groups := GroupHeaders([]RawRecordHeader{a, b, c})
	require.Len(t, groups, 3)
	for _, g := range groups {
		assert.True(t, g.IsCoordinateProvider())
	}
}

func TestGroupHeaders_IdentityFields(t *testing.T) {
	base := record("TT", 4, 2, 0, 0, 0)
	tests := []struct {
		name   string
		modify func(h *RawRecordHeader)
	}{
		{"etiket", func(h *RawRecordHeader) { h.SetLabel("R2") }},
		{"typvar", func(h *RawRecordHeader) { h.SetKind("A") }},
		{"shape", func(h *RawRecordHeader) { h.NI = 8 }},
		{"grid", func(h *RawRecordHeader) { h.Grtyp = byte(GridGaussian) }},
		{"ip3", func(h *RawRecordHeader) { h.IP3 = 1 }},
		{"ig4", func(h *RawRecordHeader) { h.IG4 = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.modify(&other)
			assert.Len(t, GroupHeaders([]RawRecordHeader{base, other}), 2)
		})
	}
}

func TestRawRecordHeader_TextFields(t *testing.T) {
	var h RawRecordHeader
	h.SetName("TT  ")
	h.SetLabel("A_VERY_LONG_LABEL")
	h.SetKind("P")

	assert.Equal(t, "TT", h.Name())
	assert.Equal(t, "A_VERY_LONG_", h.Label())
	assert.Equal(t, "P", h.Kind())
	assert.Equal(t, byte(0), h.Etiket[12])
}
