package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"

	"go.ngs.io/fstd2nc/internal/adapter/interp"
	"go.ngs.io/fstd2nc/internal/domain"
)

var (
	// ErrNotFound reports an unknown file or variable.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest reports request parameters that cannot be served.
	ErrBadRequest = errors.New("bad request")
)

// DimSummary is one output dimension of a variable.
type DimSummary struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// VariableSummary is the short description of an assembled variable.
type VariableSummary struct {
	Name   string       `json:"name"`
	Nomvar string       `json:"nomvar"`
	Typvar string       `json:"typvar"`
	Etiket string       `json:"etiket"`
	Grid   string       `json:"grid"`
	Dims   []DimSummary `json:"dims"`
}

// VariableDetail extends the summary with axis values and record attributes.
type VariableDetail struct {
	VariableSummary
	Times      []time.Time    `json:"times,omitempty"`
	Forecasts  []int64        `json:"forecasts"`
	LevelKind  string         `json:"level_kind"`
	LevelUnits string         `json:"level_units,omitempty"`
	Levels     []float64      `json:"levels"`
	XRange     [2]float64     `json:"x_range"`
	YRange     [2]float64     `json:"y_range"`
	Attrs      map[string]any `json:"attrs"`
}

// FileSummary lists the content of one assembled file.
type FileSummary struct {
	File      string            `json:"file"`
	RunID     string            `json:"run_id"`
	Variables []VariableSummary `json:"variables"`
	Fields    []string          `json:"fields,omitempty"`
	Dropped   []DroppedSummary  `json:"dropped,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// DroppedSummary names a variable excluded from the dataset and why.
type DroppedSummary struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// SampleRequest asks for the value of a variable at a geographic point.
type SampleRequest struct {
	File     string
	Variable string
	Lat, Lon float64
	T, F, Z  int
}

// Validate checks if the request is valid
func (r *SampleRequest) Validate() error {
	if r.Lat < -90 || r.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrBadRequest)
	}
	if r.Lon < -180 || r.Lon > 360 {
		return fmt.Errorf("%w: longitude must be between -180 and 360", ErrBadRequest)
	}
	if r.T < 0 || r.F < 0 || r.Z < 0 {
		return fmt.Errorf("%w: axis indices must not be negative", ErrBadRequest)
	}
	return nil
}

// SampleResponse is a bilinear sample of one horizontal plane.
type SampleResponse struct {
	Variable string     `json:"variable"`
	Lat      float64    `json:"lat"`
	Lon      float64    `json:"lon"`
	Time     *time.Time `json:"time,omitempty"`
	Forecast int64      `json:"forecast"`
	Level    float64    `json:"level"`
	Value    float64    `json:"value"`
}

type cachedDataset struct {
	modTime time.Time
	size    int64
	result  *AssembleResult
}

// DatasetUseCase serves assembled datasets from a data directory. Each file
// is assembled once and reused until it changes on disk.
type DatasetUseCase struct {
	assemble *AssembleUseCase
	dataDir  string
	workers  int
	latlon   bool

	mu    sync.RWMutex
	cache map[string]*cachedDataset
}

// NewDatasetUseCase creates a new dataset use case
func NewDatasetUseCase(assemble *AssembleUseCase, dataDir string, workers int, latlon bool) *DatasetUseCase {
	return &DatasetUseCase{
		assemble: assemble,
		dataDir:  dataDir,
		workers:  workers,
		latlon:   latlon,
		cache:    make(map[string]*cachedDataset),
	}
}

// Open returns the assembled content of file, a name relative to the data
// directory.
func (uc *DatasetUseCase) Open(ctx context.Context, file string) (*AssembleResult, error) {
	if file == "" || file != filepath.Base(file) || strings.HasPrefix(file, ".") {
		return nil, fmt.Errorf("%w: invalid file name %q", ErrBadRequest, file)
	}
	path := filepath.Join(uc.dataDir, file)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("file %s: %w", file, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", file, err)
	}

	uc.mu.RLock()
	c, ok := uc.cache[file]
	uc.mu.RUnlock()
	if ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.result, nil
	}

	res, err := uc.assemble.Execute(ctx, AssembleRequest{Path: path, Workers: uc.workers, AddLatLon: uc.latlon})
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	uc.cache[file] = &cachedDataset{modTime: info.ModTime(), size: info.Size(), result: res}
	uc.mu.Unlock()
	return res, nil
}

// ListVariables summarizes every variable of file.
func (uc *DatasetUseCase) ListVariables(ctx context.Context, file string) (*FileSummary, error) {
	res, err := uc.Open(ctx, file)
	if err != nil {
		return nil, err
	}
	return Summarize(file, res), nil
}

// DescribeVariable returns the axes and attributes of one variable.
func (uc *DatasetUseCase) DescribeVariable(ctx context.Context, file, name string) (*VariableDetail, error) {
	res, err := uc.Open(ctx, file)
	if err != nil {
		return nil, err
	}
	v, ok := res.Dataset.Variable(name)
	if !ok {
		return nil, fmt.Errorf("variable %s in %s: %w", name, file, ErrNotFound)
	}
	return Describe(v), nil
}

// Sample interpolates one (t, f, z) plane of a variable at a point. Only
// variables on longitude/latitude axes can be sampled.
func (uc *DatasetUseCase) Sample(ctx context.Context, req SampleRequest) (*SampleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	res, err := uc.Open(ctx, req.File)
	if err != nil {
		return nil, err
	}
	v, ok := res.Dataset.Variable(req.Variable)
	if !ok {
		return nil, fmt.Errorf("variable %s in %s: %w", req.Variable, req.File, ErrNotFound)
	}
	if v.X.Kind != domain.HorizontalLongitude || v.Y.Kind != domain.HorizontalLatitude {
		return nil, fmt.Errorf("%w: %s is not on a longitude/latitude grid", ErrBadRequest, v.Name)
	}
	if req.T >= v.Time.Len() || req.F >= len(v.Forecast) || req.Z >= v.Level.Len() {
		return nil, fmt.Errorf("%w: index out of range for shape %v", ErrBadRequest, v.Shape())
	}

	block, err := v.Read(domain.Selection{T: []int{req.T}, F: []int{req.F}, Z: []int{req.Z}})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", v.Name, err)
	}
	grid, err := interp.NewGrid(v.X.Values, v.Y.Values, block.Plane(0, 0), closesCircle(v.X.Values))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	lon := req.Lon
	if lon < 0 {
		lon += 360
	}
	value, err := grid.InterpolateAt(lon, req.Lat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	resp := &SampleResponse{
		Variable: v.Name,
		Lat:      req.Lat,
		Lon:      req.Lon,
		Forecast: v.Forecast[req.F],
		Value:    value,
	}
	if v.Level.Values != nil {
		resp.Level = v.Level.Values[req.Z]
	}
	if v.Time.Kind == domain.TimeCalendar {
		t := v.Time.Times[req.T]
		resp.Time = &t
	}
	return resp, nil
}

// closesCircle reports whether evenly spaced longitudes wrap around the
// globe with one more step.
func closesCircle(x []float64) bool {
	n := len(x)
	if n < 2 {
		return false
	}
	step := x[1] - x[0]
	return math.Abs(x[n-1]+step-x[0]-360) < 1e-6
}

// Summarize lists the variables, fields and failures of an assembly.
func Summarize(file string, res *AssembleResult) *FileSummary {
	ds := res.Dataset
	s := &FileSummary{File: file, RunID: res.RunID, Warnings: res.Warnings}
	s.Variables = make([]VariableSummary, 0, len(ds.Variables))
	for _, v := range ds.Variables {
		s.Variables = append(s.Variables, summarizeVariable(v))
	}
	for _, f := range ds.Fields {
		s.Fields = append(s.Fields, f.Name)
	}
	for _, d := range ds.Dropped {
		s.Dropped = append(s.Dropped, DroppedSummary{Name: d.Name, Error: d.Err.Error()})
	}
	return s
}

// Describe returns the full description of v.
func Describe(v *domain.Variable) *VariableDetail {
	d := &VariableDetail{
		VariableSummary: summarizeVariable(v),
		Forecasts:       v.Forecast,
		LevelKind:       v.Level.Kind.String(),
		LevelUnits:      v.Level.Kind.Units(),
		Levels:          v.Level.Values,
		XRange:          axisRange(v.X.Values),
		YRange:          axisRange(v.Y.Values),
		Attrs:           v.Attrs,
	}
	if v.Time.Kind == domain.TimeCalendar {
		d.Times = v.Time.Times
	}
	return d
}

func summarizeVariable(v *domain.Variable) VariableSummary {
	s := VariableSummary{
		Name:   v.Name,
		Nomvar: v.Identity.Nomvar,
		Typvar: v.Identity.Typvar,
		Etiket: v.Identity.Etiket,
		Grid:   v.Identity.Grtyp.String(),
	}
	hasTime, hasForecast, hasLevel, hasK := v.OutputDims()
	if hasTime {
		s.Dims = append(s.Dims, DimSummary{"time", v.Time.Len()})
	}
	if hasForecast {
		s.Dims = append(s.Dims, DimSummary{"forecast", len(v.Forecast)})
	}
	if hasLevel {
		s.Dims = append(s.Dims, DimSummary{v.Level.Kind.String(), v.Level.Len()})
	}
	if hasK {
		s.Dims = append(s.Dims, DimSummary{"k", v.NK})
	}
	s.Dims = append(s.Dims,
		DimSummary{horizontalName(v.Y.Kind, true), v.Y.Len()},
		DimSummary{horizontalName(v.X.Kind, false), v.X.Len()},
	)
	return s
}

func horizontalName(kind domain.HorizontalKind, y bool) string {
	switch {
	case kind == domain.HorizontalLatitude:
		return "lat"
	case kind == domain.HorizontalLongitude:
		return "lon"
	case kind == domain.HorizontalCoordinate && y:
		return "yc"
	case kind == domain.HorizontalCoordinate:
		return "xc"
	case y:
		return "j"
	default:
		return "i"
	}
}

func axisRange(values []float64) [2]float64 {
	if len(values) == 0 {
		return [2]float64{}
	}
	return [2]float64{floats.Min(values), floats.Max(values)}
}
