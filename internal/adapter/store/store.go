package store

import "go.ngs.io/fstd2nc/internal/domain"

// RecordSource is the interface for reading record headers and payloads
// from a record file.
type RecordSource interface {
	// CountRecords returns the number of records in the file.
	CountRecords(path string) (int, error)

	// ReadHeaders returns every record header in file order.
	ReadHeaders(path string) ([]domain.RawRecordHeader, error)

	// ReadPayload fills a (len(headers), recordSize) float32 buffer from the
	// records, in the order of headers.
	domain.PayloadReader
}
