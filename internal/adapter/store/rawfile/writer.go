package rawfile

import (
	"bufio"
	"fmt"
	"os"

	"go.ngs.io/fstd2nc/internal/domain"
)

// Writer appends records to a new raw record file.
type Writer struct {
	f      *os.File
	w      *bufio.Writer
	offset int64
	count  int
}

// Create creates path, truncating any existing file, and writes the magic.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(Magic); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write magic: %w", err)
	}
	return &Writer{f: f, w: w, offset: int64(len(Magic))}, nil
}

// Write appends one record. The payload size, handle, data type and
// checksum fields of h are filled in.
func (w *Writer) Write(h domain.RawRecordHeader, values []float32) error {
	if len(values) != h.PlaneSize() {
		return fmt.Errorf("record %s: got %d values for %dx%dx%d", h.Name(), len(values), h.NI, h.NJ, h.NK)
	}
	payload := encodeValues(values)

	h.Size = int32(len(payload))
	h.Data = uint64(w.offset + int64(HeaderSize))
	h.Datyp = DatypFloat
	h.Checksum = Checksum(payload)

	if err := writeHeader(w.w, &h); err != nil {
		return fmt.Errorf("failed to write header %d: %w", w.count, err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload %d: %w", w.count, err)
	}
	w.offset += int64(HeaderSize) + int64(len(payload))
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// Close flushes and closes the file.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to flush: %w", err)
	}
	return w.f.Close()
}
