package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go.ngs.io/fstd2nc/internal/adapter/store"
	"go.ngs.io/fstd2nc/internal/domain"
)

// AssembleRequest selects a record file and the optional post-processing.
type AssembleRequest struct {
	Path      string
	Workers   int  // Parallel group decoders. Zero means one per CPU.
	AddLatLon bool // Derive latitude/longitude fields for projected grids.
}

// Validate checks if the request is valid
func (r *AssembleRequest) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	if r.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// AssembleResult is the outcome of one assembly run.
type AssembleResult struct {
	RunID    string
	Dataset  *domain.Dataset
	Warnings []string
}

// AssembleUseCase turns the records of a file into a dataset.
type AssembleUseCase struct {
	source store.RecordSource
	log    logrus.FieldLogger
}

// NewAssembleUseCase creates a new assemble use case
func NewAssembleUseCase(source store.RecordSource, log logrus.FieldLogger) *AssembleUseCase {
	return &AssembleUseCase{source: source, log: log}
}

type decoded struct {
	v   *domain.Variable
	err error
}

// Execute reads the headers of req.Path and assembles them in two phases.
// Groups are decoded independently and in parallel; providers are then
// loaded and cross-referenced once every group is done. Variables that fail
// are dropped and reported, while an unreadable file fails the whole run.
func (uc *AssembleUseCase) Execute(ctx context.Context, req AssembleRequest) (*AssembleResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	runID := uuid.NewString()
	log := uc.log.WithFields(logrus.Fields{"run_id": runID, "file": req.Path})
	diag := domain.NewDiagnostics(log)

	count, err := uc.source.CountRecords(req.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStructural, err)
	}
	headers, err := uc.source.ReadHeaders(req.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStructural, err)
	}
	if len(headers) != count {
		return nil, fmt.Errorf("%w: %d headers read, %d records counted", domain.ErrStructural, len(headers), count)
	}

	groups := domain.GroupHeaders(headers)
	hybrids := domain.NewHybridTable(groups)
	log.WithFields(logrus.Fields{"records": count, "groups": len(groups)}).Info("Read record headers")

	slots, err := decodeGroups(ctx, groups, hybrids, diag, req.Workers)
	if err != nil {
		return nil, err
	}

	ds := domain.NewDataset(map[string]any{
		"Conventions": "CF-1.6",
		"source_file": filepath.Base(req.Path),
		"run_id":      runID,
		"records":     int32(count),
	})

	var vars []*domain.Variable
	var providers []*domain.CoordProvider
	for i, s := range slots {
		name := groups[i].Identity.Nomvar
		if s.err != nil {
			diag.Drop(s.err)
			ds.Drop(name, s.err)
			continue
		}
		s.v.Bind(req.Path, uc.source)

		switch name {
		case domain.XCoordName, domain.YCoordName:
			p, err := domain.LoadProvider(s.v)
			if err != nil {
				diag.Drop(err)
				ds.Drop(name, err)
				continue
			}
			providers = append(providers, p)
		case domain.HybridName, domain.VGridDescTag:
		default:
			vars = append(vars, s.v)
		}
	}

	for _, v := range vars {
		if v.NeedsMesh() {
			if err := domain.ResolveMeshGrid(v, providers); err != nil {
				diag.Drop(err)
				ds.Drop(v.Name, err)
				continue
			}
		}
		ds.Add(v)
	}
	domain.AttachCoordinates(ds.Variables, providers)

	if req.AddLatLon {
		domain.AddLatLon(ds, diag)
	}

	log.WithFields(logrus.Fields{
		"variables": len(ds.Variables),
		"providers": len(providers),
		"dropped":   len(ds.Dropped),
		"fields":    len(ds.Fields),
	}).Info("Assembled dataset")

	return &AssembleResult{RunID: runID, Dataset: ds, Warnings: diag.Warnings()}, nil
}

// decodeGroups runs the per-group decode with at most workers goroutines.
// Results land in the slot of their group, so output order follows the
// group order whatever the scheduling.
func decodeGroups(ctx context.Context, groups []*domain.Group, hybrids domain.HybridTable, diag *domain.Diagnostics, workers int) ([]decoded, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	slots := make([]decoded, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, grp := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := domain.DecodeGroup(grp, hybrids, diag)
			slots[i] = decoded{v: v, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decode interrupted: %w", err)
	}
	return slots, nil
}
