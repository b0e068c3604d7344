package ncout

import (
	"io"
	"path/filepath"
	"testing"

	nativecdf "github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/fhs/go-netcdf/netcdf"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/fstd2nc/internal/adapter/store/rawfile"
	"go.ngs.io/fstd2nc/internal/domain"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// buildDataset writes a small record file and assembles it.
func buildDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.raw")
	w, err := rawfile.Create(path)
	require.NoError(t, err)

	mk := func(name string, dateo int64, ip1 int32) domain.RawRecordHeader {
		h := domain.RawRecordHeader{NI: 4, NJ: 2, NK: 1, Grtyp: 'A', Dateo: dateo, IP1: ip1}
		h.SetName(name)
		h.SetKind("P")
		h.SetLabel("R1")
		return h
	}
	p1000, err := domain.EncodeLevel(domain.LevelPressure, 1000)
	require.NoError(t, err)
	p500, err := domain.EncodeLevel(domain.LevelPressure, 500)
	require.NoError(t, err)

	n := 0
	for _, dateo := range []int64{123200000, 123200900} {
		for _, ip1 := range []int32{int32(p1000), int32(p500)} {
			values := make([]float32, 8)
			for i := range values {
				values[i] = float32(n*10 + i)
			}
			require.NoError(t, w.Write(mk("TT", dateo, ip1), values))
			n++
		}
		require.NoError(t, w.Write(mk("PN", dateo, 0), make([]float32, 8)))
	}
	require.NoError(t, w.Close())

	src := rawfile.NewStore(true)
	headers, err := src.ReadHeaders(path)
	require.NoError(t, err)

	diag := domain.NewDiagnostics(nil)
	ds := domain.NewDataset(map[string]any{"source": "in.raw"})
	for _, g := range domain.GroupHeaders(headers) {
		v, err := domain.DecodeGroup(g, nil, diag)
		require.NoError(t, err)
		v.Bind(path, src)
		ds.Add(v)
	}
	return ds
}

func dimNames(t *testing.T, v netcdf.Var) []string {
	t.Helper()
	dims, err := v.Dims()
	require.NoError(t, err)
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i], err = d.Name()
		require.NoError(t, err)
	}
	return names
}

func TestWriter_Write(t *testing.T) {
	ds := buildDataset(t)
	out := filepath.Join(t.TempDir(), "out.nc")
	require.NoError(t, NewWriter(quietLogger()).Write(out, ds))

	nc, err := netcdf.OpenFile(out, netcdf.NOWRITE)
	require.NoError(t, err)
	defer nc.Close()

	tt, err := nc.Var("TT")
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "forecast", "pres", "lat", "lon"}, dimNames(t, tt))

	values := make([]float32, 2*1*2*2*4)
	require.NoError(t, tt.ReadFloat32s(values))
	assert.Equal(t, float32(0), values[0])
	assert.Equal(t, float32(11), values[9])
	assert.Equal(t, float32(37), values[31])

	pn, err := nc.Var("PN")
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "forecast", "lat", "lon"}, dimNames(t, pn))

	timeVar, err := nc.Var("time")
	require.NoError(t, err)
	hours := make([]float64, 2)
	require.NoError(t, timeVar.ReadFloat64s(hours))
	assert.Equal(t, []float64{0, 1}, hours)

	pres, err := nc.Var("pres")
	require.NoError(t, err)
	levels := make([]float64, 2)
	require.NoError(t, pres.ReadFloat64s(levels))
	assert.Equal(t, []float64{1000, 500}, levels)
}

func TestWriter_ReadBackPureGo(t *testing.T) {
	ds := buildDataset(t)
	out := filepath.Join(t.TempDir(), "out.nc")
	require.NoError(t, NewWriter(quietLogger()).Write(out, ds))

	nc, err := nativecdf.Open(out)
	require.NoError(t, err)
	defer nc.Close()

	assert.Subset(t, nc.ListVariables(), []string{"TT", "PN", "time", "forecast", "pres", "lat", "lon"})

	lat, err := nc.GetVariable("lat")
	require.NoError(t, err)
	assert.Equal(t, []string{"lat"}, lat.Dimensions)
	assert.Equal(t, []float64{-45, 45}, lat.Values)

	units, ok := lat.Attributes.Get("units")
	require.True(t, ok)
	assert.Equal(t, "degrees_north", units)

	source, ok := nc.Attributes().Get("source")
	require.True(t, ok)
	assert.Equal(t, "in.raw", source)
}

func TestPlan_SharesEqualDims(t *testing.T) {
	p := newPlan()
	a := p.dim(kDim(3))
	b := p.dim(kDim(3))
	c := p.dim(kDim(4))
	assert.Same(t, a, b)
	assert.Equal(t, "k", a.name)
	assert.Equal(t, "k_1", c.name)
	assert.Len(t, p.dims, 2)

	levels := domain.VerticalAxis{Kind: domain.LevelHybrid, Values: []float64{0.5, 1}, A: []float64{1, 0}, B: []float64{0.1, 1}}
	other := levels
	other.B = []float64{0.2, 1}
	assert.NotSame(t, p.dim(levelDim(levels)), p.dim(levelDim(other)))
}
