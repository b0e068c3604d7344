package domain

import (
	"fmt"
)

// PayloadReader fills payload buffers from the physical records.
//
// ReadPayload returns len(headers)*recordSize values, the records laid out
// one after another in the order of headers.
type PayloadReader interface {
	ReadPayload(path string, headers []*RawRecordHeader, recordSize int) ([]float32, error)
}

const noHeader = -1

// HeaderLookup maps (time, forecast, level) indices to a header of the group.
type HeaderLookup struct {
	NT, NF, NZ int
	cells      []int
}

func newHeaderLookup(nt, nf, nz int) *HeaderLookup {
	cells := make([]int, nt*nf*nz)
	for i := range cells {
		cells[i] = noHeader
	}
	return &HeaderLookup{NT: nt, NF: nf, NZ: nz, cells: cells}
}

func (m *HeaderLookup) offset(t, f, z int) int {
	return (t*m.NF+f)*m.NZ + z
}

// At returns the header index at (t, f, z), or false if the cell is empty.
func (m *HeaderLookup) At(t, f, z int) (int, bool) {
	hi := m.cells[m.offset(t, f, z)]
	return hi, hi != noHeader
}

func (m *HeaderLookup) set(t, f, z, hi int) {
	m.cells[m.offset(t, f, z)] = hi
}

// Missing counts the unpopulated cells.
func (m *HeaderLookup) Missing() int {
	n := 0
	for _, c := range m.cells {
		if c == noHeader {
			n++
		}
	}
	return n
}

// Variable is one assembled multi-dimensional variable. Its payload is read
// on demand through Read.
type Variable struct {
	Name     string // Output name, unique within a dataset.
	Identity Identity

	Time     TimeAxis
	Forecast []int64 // Raw forecast codes (ip2).
	Level    VerticalAxis
	NK       int
	Y        HorizontalAxis // j
	X        HorizontalAxis // i

	// Attrs holds the fixed metadata copied from the first header.
	Attrs map[string]any

	headers []*RawRecordHeader
	lookup  *HeaderLookup
	path    string
	reader  PayloadReader
}

// Shape returns the full (t, f, z, k, j, i) shape.
func (v *Variable) Shape() [6]int {
	return [6]int{v.Time.Len(), len(v.Forecast), v.Level.Len(), v.NK, v.Y.Len(), v.X.Len()}
}

// Headers returns the headers of the variable in group order.
func (v *Variable) Headers() []*RawRecordHeader { return v.headers }

// Lookup returns the header lookup matrix.
func (v *Variable) Lookup() *HeaderLookup { return v.lookup }

// Bind sets the record source used by Read.
func (v *Variable) Bind(path string, reader PayloadReader) {
	v.path = path
	v.reader = reader
}

// Selection picks index subsets along the time, forecast and level axes.
// A nil subset selects the whole axis. Spatial axes are always read whole.
type Selection struct {
	T, F, Z []int
}

// Block is a payload read shaped (len(T)*len(F)*len(Z), k, j, i), row-major.
type Block struct {
	Count, NK, NJ, NI int
	Values            []float32
}

// Plane returns the j×i values of record n at vertical index k.
func (b *Block) Plane(n, k int) []float32 {
	size := b.NJ * b.NI
	off := (n*b.NK + k) * size
	return b.Values[off : off+size]
}

// Read resolves sel to headers in (t, f, z) row-major order and fills a block
// from the record source.
func (v *Variable) Read(sel Selection) (*Block, error) {
	if v.reader == nil {
		return nil, fmt.Errorf("variable %s has no record source", v.Name)
	}
	ts, err := selectIndices(sel.T, v.lookup.NT, "time")
	if err != nil {
		return nil, err
	}
	fs, err := selectIndices(sel.F, v.lookup.NF, "forecast")
	if err != nil {
		return nil, err
	}
	zs, err := selectIndices(sel.Z, v.lookup.NZ, "level")
	if err != nil {
		return nil, err
	}

	headers := make([]*RawRecordHeader, 0, len(ts)*len(fs)*len(zs))
	for _, t := range ts {
		for _, f := range fs {
			for _, z := range zs {
				hi, ok := v.lookup.At(t, f, z)
				if !ok {
					return nil, fmt.Errorf("%s at (%d, %d, %d): %w", v.Name, t, f, z, ErrInconsistentLookup)
				}
				headers = append(headers, v.headers[hi])
			}
		}
	}

	nk, nj, ni := v.NK, v.Y.Len(), v.X.Len()
	values, err := v.reader.ReadPayload(v.path, headers, nk*nj*ni)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", v.Name, err)
	}
	if len(values) != len(headers)*nk*nj*ni {
		return nil, fmt.Errorf("failed to read %s: got %d values, expected %d",
			v.Name, len(values), len(headers)*nk*nj*ni)
	}

	return &Block{Count: len(headers), NK: nk, NJ: nj, NI: ni, Values: values}, nil
}

// ReadAll reads every record of the variable.
func (v *Variable) ReadAll() (*Block, error) {
	return v.Read(Selection{})
}

func selectIndices(sel []int, n int, axis string) ([]int, error) {
	if sel == nil {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	for _, i := range sel {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("%s index %d out of range [0, %d)", axis, i, n)
		}
	}
	return sel, nil
}

// OutputDims reports which of the (t, f, z, k) axes survive in the output.
// The k axis is dropped when it has a single element, the level axis when
// its only level is a height of 0 m, and the time axis when it is a single
// degenerate index.
func (v *Variable) OutputDims() (time, forecast, level, k bool) {
	time = !(v.Time.Kind == TimeIndex && v.Time.Len() == 1 && v.Time.Codes[0] == 0)
	forecast = true
	level = !(v.Level.Kind == LevelHeight && v.Level.Len() == 1 && v.Level.Values[0] == 0)
	k = v.NK != 1
	return time, forecast, level, k
}
