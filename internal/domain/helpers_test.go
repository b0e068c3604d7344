package domain

import (
	"fmt"
	"testing"
)

// record builds a header on an A grid. Callers adjust the remaining fields.
func record(name string, ni, nj int32, dateo int64, ip1, ip2 int32) RawRecordHeader {
	h := RawRecordHeader{
		NI:    ni,
		NJ:    nj,
		NK:    1,
		Grtyp: byte(GridLatLon),
		Dateo: dateo,
		IP1:   ip1,
		IP2:   ip2,
		Datyp: 5,
	}
	h.SetName(name)
	h.SetKind("P")
	h.SetLabel("R1")
	return h
}

func mustLevel(t *testing.T, kind LevelKind, v float64) int32 {
	t.Helper()
	code, err := EncodeLevel(kind, v)
	if err != nil {
		t.Fatalf("EncodeLevel(%v, %g): %v", kind, v, err)
	}
	return int32(code)
}

// fakeReader serves records whose values all equal the payload handle.
type fakeReader struct {
	calls [][]uint64
}

func (r *fakeReader) ReadPayload(path string, headers []*RawRecordHeader, recordSize int) ([]float32, error) {
	handles := make([]uint64, len(headers))
	out := make([]float32, 0, len(headers)*recordSize)
	for i, h := range headers {
		if h.PlaneSize() != recordSize {
			return nil, fmt.Errorf("record %d has %d values, want %d", i, h.PlaneSize(), recordSize)
		}
		handles[i] = h.Data
		for n := 0; n < recordSize; n++ {
			out = append(out, float32(h.Data))
		}
	}
	r.calls = append(r.calls, handles)
	return out, nil
}
