package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"go.ngs.io/fstd2nc/internal/domain"
)

// DatasetWriter serializes an assembled dataset.
type DatasetWriter interface {
	Write(path string, ds *domain.Dataset) error
}

// ConvertRequest names the record file to read and the file to produce.
type ConvertRequest struct {
	Input     string
	Output    string
	Workers   int
	AddLatLon bool
	Force     bool // Overwrite an existing output file.
}

// Validate checks if the request is valid
func (r *ConvertRequest) Validate() error {
	if r.Input == "" {
		return fmt.Errorf("input path is required")
	}
	if r.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if r.Input == r.Output {
		return fmt.Errorf("output must differ from input")
	}
	return nil
}

// ConvertUseCase assembles a record file and writes the result.
type ConvertUseCase struct {
	assemble *AssembleUseCase
	writer   DatasetWriter
	log      logrus.FieldLogger
}

// NewConvertUseCase creates a new convert use case
func NewConvertUseCase(assemble *AssembleUseCase, writer DatasetWriter, log logrus.FieldLogger) *ConvertUseCase {
	return &ConvertUseCase{assemble: assemble, writer: writer, log: log}
}

// Execute runs the conversion. Dropped variables do not fail the run; they
// are listed in the returned result.
func (uc *ConvertUseCase) Execute(ctx context.Context, req ConvertRequest) (*AssembleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if !req.Force {
		if _, err := os.Stat(req.Output); err == nil {
			return nil, fmt.Errorf("output %s already exists", req.Output)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", req.Output, err)
		}
	}

	res, err := uc.assemble.Execute(ctx, AssembleRequest{Path: req.Input, Workers: req.Workers, AddLatLon: req.AddLatLon})
	if err != nil {
		return nil, err
	}
	if len(res.Dataset.Variables) == 0 {
		return nil, fmt.Errorf("no variables could be assembled from %s", req.Input)
	}
	if err := uc.writer.Write(req.Output, res.Dataset); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", req.Output, err)
	}

	uc.log.WithFields(logrus.Fields{
		"run_id":    res.RunID,
		"output":    req.Output,
		"variables": len(res.Dataset.Variables),
	}).Info("Wrote dataset")
	return res, nil
}
