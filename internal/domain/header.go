// Package domain assembles FSTD records into multi-dimensional variables.
//
// Records arrive as flat headers. They are grouped per variable, their
// varying fields become time/forecast/level axes, and their grid descriptors
// are resolved into horizontal coordinates.
package domain

import (
	"bytes"
	"fmt"
)

// Names of the records that only provide coordinates to other variables.
const (
	XCoordName   = ">>" // Longitudes or x positions of a Z grid.
	YCoordName   = "^^" // Latitudes or y positions of a Z grid.
	HybridName   = "HY" // Hybrid coordinate reference (p0 in ig1, exponent in ig2).
	VGridDescTag = "!!" // Vertical grid descriptor.
)

// RawRecordHeader is the fixed-layout header of one physical record.
// Field order matches the record wire layout.
type RawRecordHeader struct {
	Status   int32
	Size     int32
	Data     uint64 // Payload handle, interpreted by the record source.
	Deet     int32
	Npak     int32
	NI       int32
	Grtyp    byte
	NJ       int32
	Datyp    int32
	NK       int32
	Npas     int32
	IG4      int32
	IG2      int32
	IG1      int32
	IG3      int32
	Etiket   [13]byte
	Typvar   [3]byte
	Nomvar   [5]byte
	IP1      int32
	IP2      int32
	IP3      int32
	Dateo    int64
	Checksum uint32
}

// Name returns the variable name with padding removed.
func (h *RawRecordHeader) Name() string { return trimField(h.Nomvar[:]) }

// Label returns the etiket with padding removed.
func (h *RawRecordHeader) Label() string { return trimField(h.Etiket[:]) }

// Kind returns the typvar with padding removed.
func (h *RawRecordHeader) Kind() string { return trimField(h.Typvar[:]) }

// GridType returns the grid type code of the record.
func (h *RawRecordHeader) GridType() GridType { return GridType(h.Grtyp) }

// PlaneSize is the number of values in one record payload.
func (h *RawRecordHeader) PlaneSize() int {
	return int(h.NI) * int(h.NJ) * int(h.NK)
}

// String formats the header for log messages.
func (h *RawRecordHeader) String() string {
	return fmt.Sprintf("%s/%s/%s ip1=%d ip2=%d ip3=%d dateo=%d %dx%dx%d grid=%c",
		h.Name(), h.Kind(), h.Label(), h.IP1, h.IP2, h.IP3, h.Dateo, h.NI, h.NJ, h.NK, h.Grtyp)
}

// SetName, SetLabel and SetKind fill the fixed-width text fields.
func (h *RawRecordHeader) SetName(s string)  { putField(h.Nomvar[:], s) }
func (h *RawRecordHeader) SetLabel(s string) { putField(h.Etiket[:], s) }
func (h *RawRecordHeader) SetKind(s string)  { putField(h.Typvar[:], s) }

// IsCoordinateProvider reports whether the record only carries coordinate
// information for other variables.
func (h *RawRecordHeader) IsCoordinateProvider() bool {
	switch h.Name() {
	case XCoordName, YCoordName, HybridName, VGridDescTag:
		return true
	default:
		return false
	}
}

func trimField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimRight(b, " "))
}

// putField copies s into b, truncating and NUL-padding. The last byte is
// always left as a terminator.
func putField(b []byte, s string) {
	clear(b)
	copy(b[:len(b)-1], s)
}
