// Package synth writes small demonstration record files.
package synth

import (
	"fmt"
	"math"
	"time"

	"go.ngs.io/fstd2nc/internal/adapter/store/rawfile"
	"go.ngs.io/fstd2nc/internal/domain"
)

// Grid identifiers shared by the mesh variable and its coordinate records.
const (
	MeshIP1 = 1001
	MeshIP2 = 2002
	MeshIP3 = 0
)

// Options controls the content of a demo file.
type Options struct {
	Start  time.Time
	Steps  int       // Number of valid times, one hour apart.
	NI, NJ int       // Global lat/lon grid shape.
	D60    int32     // Polar grid length at 60 degrees, meters.
	DGRW   int32     // Polar grid orientation, degrees.
	Etiket string
}

// DefaultOptions returns a small file layout that exercises every grid kind.
func DefaultOptions() Options {
	return Options{
		Start:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Steps:  2,
		NI:     8,
		NJ:     4,
		D60:    100000,
		DGRW:   21,
		Etiket: "DEMO",
	}
}

// Summary counts what was written.
type Summary struct {
	Records   int
	Variables []string
}

type builder struct {
	w    *rawfile.Writer
	opts Options
	sum  Summary
	seen map[string]bool
}

// Write creates path with:
//   - TT on a global lat/lon grid at two pressure levels,
//   - PN on the same grid at the surface,
//   - UU on a mesh grid located by >> and ^^ polar stereographic records,
//   - QQ on hybrid levels with its HY reference record.
func Write(path string, opts Options) (*Summary, error) {
	if opts.Steps <= 0 || opts.NI < 2 || opts.NJ < 1 {
		return nil, fmt.Errorf("invalid options: steps=%d grid=%dx%d", opts.Steps, opts.NI, opts.NJ)
	}
	w, err := rawfile.Create(path)
	if err != nil {
		return nil, err
	}
	b := &builder{w: w, opts: opts, seen: make(map[string]bool)}
	if err := b.writeAll(); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &b.sum, nil
}

func (b *builder) writeAll() error {
	o := b.opts
	p1000, err := domain.EncodeLevel(domain.LevelPressure, 1000)
	if err != nil {
		return err
	}
	p500, err := domain.EncodeLevel(domain.LevelPressure, 500)
	if err != nil {
		return err
	}
	eta := make([]int64, 0, 3)
	for _, l := range []float64{0.5, 0.75, 1} {
		code, err := domain.EncodeLevel(domain.LevelHybrid, l)
		if err != nil {
			return err
		}
		eta = append(eta, code)
	}

	lat := make([]float64, o.NJ)
	for j := range lat {
		lat[j] = -90 + 180/float64(o.NJ)*(float64(j)+0.5)
	}

	for step := 0; step < o.Steps; step++ {
		dateo := domain.EncodeDate(o.Start.Add(time.Duration(step) * time.Hour))

		for n, ip1 := range []int64{p1000, p500} {
			h := b.header("TT", 'A', o.NI, o.NJ, dateo, ip1)
			err := b.put(h, o.NI, o.NJ, func(i, j int) float32 {
				lon := 360 / float64(o.NI) * float64(i)
				return float32(15 - 30*float64(n) - 0.3*math.Abs(lat[j]) + lon/100 + float64(step))
			})
			if err != nil {
				return err
			}
		}
		h := b.header("PN", 'A', o.NI, o.NJ, dateo, 0)
		err := b.put(h, o.NI, o.NJ, func(i, j int) float32 {
			return float32(1013 - 0.2*math.Abs(lat[j]) + float64(i))
		})
		if err != nil {
			return err
		}

		h = b.header("UU", 'Z', 5, 4, dateo, 0)
		h.IG1, h.IG2, h.IG3 = MeshIP1, MeshIP2, MeshIP3
		if err := b.put(h, 5, 4, func(i, j int) float32 { return float32(i - j + step) }); err != nil {
			return err
		}

		for k, ip1 := range eta {
			h := b.header("QQ", 'A', o.NI, o.NJ, dateo, ip1)
			if err := b.put(h, o.NI, o.NJ, func(i, j int) float32 { return float32(k*100 + j*o.NI + i) }); err != nil {
				return err
			}
		}
	}

	// Coordinate and reference records carry a single time step.
	dateo := domain.EncodeDate(o.Start)
	x := b.header(domain.XCoordName, 'N', 5, 1, dateo, MeshIP1)
	x.IP2, x.IP3 = MeshIP2, MeshIP3
	x.IG3, x.IG4 = o.D60, o.DGRW
	if err := b.put(x, 5, 1, func(i, _ int) float32 { return float32(i) - 2 }); err != nil {
		return err
	}
	y := b.header(domain.YCoordName, 'N', 1, 4, dateo, MeshIP1)
	y.IP2, y.IP3 = MeshIP2, MeshIP3
	y.IG3, y.IG4 = o.D60, o.DGRW
	if err := b.put(y, 1, 4, func(_, j int) float32 { return float32(j) - 1.5 }); err != nil {
		return err
	}

	hy := b.header(domain.HybridName, 'X', 1, 1, dateo, eta[0])
	hy.IG1, hy.IG2 = 1000, 1600
	return b.put(hy, 1, 1, func(_, _ int) float32 { return 0 })
}

func (b *builder) header(name string, grtyp byte, ni, nj int, dateo, ip1 int64) domain.RawRecordHeader {
	h := domain.RawRecordHeader{
		NI:    int32(ni),
		NJ:    int32(nj),
		NK:    1,
		Grtyp: grtyp,
		Dateo: dateo,
		IP1:   int32(ip1),
		Deet:  900,
		Npas:  0,
	}
	h.SetName(name)
	h.SetKind("P")
	h.SetLabel(b.opts.Etiket)
	return h
}

func (b *builder) put(h domain.RawRecordHeader, ni, nj int, f func(i, j int) float32) error {
	values := make([]float32, ni*nj)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			values[j*ni+i] = f(i, j)
		}
	}
	if err := b.w.Write(h, values); err != nil {
		return err
	}
	b.sum.Records++
	if name := h.Name(); !b.seen[name] {
		b.seen[name] = true
		b.sum.Variables = append(b.sum.Variables, name)
	}
	return nil
}
