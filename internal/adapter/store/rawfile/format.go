// Package rawfile reads and writes raw record files: an 8-byte magic
// followed by records, each a fixed little-endian header and its float32
// payload.
package rawfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"

	"go.ngs.io/fstd2nc/internal/domain"
)

// Magic opens every raw record file.
const Magic = "FSTDRAW1"

// HeaderSize is the encoded size of a record header.
var HeaderSize = binary.Size(domain.RawRecordHeader{})

// DatypFloat is the data type code of IEEE float32 payloads.
const DatypFloat = 5

var (
	// ErrBadMagic is returned for files that are not raw record files.
	ErrBadMagic = errors.New("not a raw record file")
	// ErrChecksum is returned when a payload does not match its header.
	ErrChecksum = errors.New("payload checksum mismatch")
	// ErrBadShape is returned for headers with a non-positive dimension.
	ErrBadShape = errors.New("invalid record shape")
)

func readHeader(r io.Reader) (domain.RawRecordHeader, error) {
	var h domain.RawRecordHeader
	err := binary.Read(r, binary.LittleEndian, &h)
	return h, err
}

func writeHeader(w io.Writer, h *domain.RawRecordHeader) error {
	return binary.Write(w, binary.LittleEndian, h)
}

func encodeValues(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeValues(buf []byte, out []float32) {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
}

// Checksum returns the checksum stored in headers for payload bytes.
func Checksum(payload []byte) uint32 {
	return uint32(xxhash.Sum64(payload))
}

func checkPayload(h *domain.RawRecordHeader, payload []byte) error {
	if got := Checksum(payload); got != h.Checksum {
		return fmt.Errorf("%s at offset %d: %w (got %08x, header %08x)", h.Name(), h.Data, ErrChecksum, got, h.Checksum)
	}
	return nil
}
