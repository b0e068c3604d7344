package rawfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.ngs.io/fstd2nc/internal/domain"
)

// Store reads raw record files. Header lists are cached per path and
// reloaded when the file changes.
type Store struct {
	verify bool

	cache map[string]*headerCache
	mu    sync.RWMutex
}

type headerCache struct {
	modTime time.Time
	size    int64
	headers []domain.RawRecordHeader
}

// NewStore creates a raw record file store. With verify set, payload reads
// check the header checksum.
func NewStore(verify bool) *Store {
	return &Store{
		verify: verify,
		cache:  make(map[string]*headerCache),
	}
}

// CountRecords returns the number of records in the file.
func (s *Store) CountRecords(path string) (int, error) {
	headers, err := s.headers(path)
	if err != nil {
		return 0, err
	}
	return len(headers), nil
}

// ReadHeaders returns a copy of the record headers in file order.
func (s *Store) ReadHeaders(path string) ([]domain.RawRecordHeader, error) {
	headers, err := s.headers(path)
	if err != nil {
		return nil, err
	}
	return append([]domain.RawRecordHeader(nil), headers...), nil
}

func (s *Store) headers(path string) ([]domain.RawRecordHeader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	s.mu.RLock()
	c, ok := s.cache[path]
	s.mu.RUnlock()
	if ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.headers, nil
	}

	headers, err := scanHeaders(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[path] = &headerCache{modTime: info.ModTime(), size: info.Size(), headers: headers}
	s.mu.Unlock()
	return headers, nil
}

func scanHeaders(path string) ([]domain.RawRecordHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != Magic {
		return nil, fmt.Errorf("%s: %w", path, ErrBadMagic)
	}

	offset := int64(len(Magic))
	var headers []domain.RawRecordHeader
	for {
		h, err := readHeader(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header %d of %s: %w", len(headers), path, err)
		}
		offset += int64(HeaderSize)

		if int64(h.Data) != offset {
			return nil, fmt.Errorf("header %d of %s points to offset %d, expected %d", len(headers), path, h.Data, offset)
		}
		if h.NI <= 0 || h.NJ <= 0 || h.NK <= 0 {
			return nil, fmt.Errorf("header %d of %s: %w %dx%dx%d", len(headers), path, ErrBadShape, h.NI, h.NJ, h.NK)
		}
		if h.Size < 0 || int64(h.Size) != 4*int64(h.PlaneSize()) {
			return nil, fmt.Errorf("header %d of %s has payload size %d for %dx%dx%d values",
				len(headers), path, h.Size, h.NI, h.NJ, h.NK)
		}
		if _, err := r.Discard(int(h.Size)); err != nil {
			return nil, fmt.Errorf("failed to skip payload %d of %s: %w", len(headers), path, err)
		}
		offset += int64(h.Size)
		headers = append(headers, h)
	}
	return headers, nil
}

// ReadPayload reads the payloads of headers into one buffer. Each record
// must hold exactly recordSize values.
func (s *Store) ReadPayload(path string, headers []*domain.RawRecordHeader, recordSize int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	out := make([]float32, len(headers)*recordSize)
	buf := make([]byte, 4*recordSize)
	for i, h := range headers {
		if h.PlaneSize() != recordSize {
			return nil, fmt.Errorf("record %s holds %d values, expected %d", h.Name(), h.PlaneSize(), recordSize)
		}
		if _, err := f.ReadAt(buf, int64(h.Data)); err != nil {
			return nil, fmt.Errorf("failed to read payload of %s at offset %d: %w", h.Name(), h.Data, err)
		}
		if s.verify {
			if err := checkPayload(h, buf); err != nil {
				return nil, err
			}
		}
		decodeValues(buf, out[i*recordSize:(i+1)*recordSize])
	}
	return out, nil
}
