// Package ncout writes assembled datasets to NetCDF-4 files.
package ncout

import (
	"fmt"
	"sort"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"go.ngs.io/fstd2nc/internal/domain"
)

// Writer serializes a dataset. Variables sharing an identical axis share
// one NetCDF dimension.
type Writer struct {
	log logrus.FieldLogger
}

// NewWriter creates a NetCDF writer.
func NewWriter(log logrus.FieldLogger) *Writer {
	return &Writer{log: log}
}

// axisDim is one NetCDF dimension with its coordinate variable.
type axisDim struct {
	name   string
	values []float64
	kind   string // Distinguishes axes of the same base name.
	attrs  map[string]any
	ncType netcdf.Type

	// Hybrid coefficients, written as <name>_A and <name>_B.
	a, b []float64

	dim    netcdf.Dim
	v      netcdf.Var
	av, bv netcdf.Var
}

type plan struct {
	dims  []*axisDim
	bases map[string][]*axisDim
	used  map[string]bool
}

func newPlan() *plan {
	return &plan{bases: make(map[string][]*axisDim), used: make(map[string]bool)}
}

// dim returns a dimension equal to d, registering d under a free name when
// no equal dimension exists.
func (p *plan) dim(d *axisDim) *axisDim {
	for _, other := range p.bases[d.name] {
		if other.kind == d.kind && floats.Equal(other.values, d.values) &&
			floats.Equal(other.a, d.a) && floats.Equal(other.b, d.b) {
			return other
		}
	}
	base := d.name
	for n := len(p.bases[base]); p.used[d.name]; n++ {
		d.name = fmt.Sprintf("%s_%d", base, n)
	}
	p.used[d.name] = true
	p.bases[base] = append(p.bases[base], d)
	p.dims = append(p.dims, d)
	return d
}

func timeDim(a domain.TimeAxis) *axisDim {
	d := &axisDim{name: "time", values: a.Hours(), ncType: netcdf.DOUBLE}
	switch a.Kind {
	case domain.TimeCalendar:
		d.kind = "calendar"
		d.attrs = map[string]any{"units": domain.TimeUnits, "calendar": "standard", "standard_name": "time"}
	case domain.TimeIndex:
		d.kind = "index"
		d.attrs = map[string]any{"long_name": "raw date code"}
	default:
		panic(fmt.Sprintf("unhandled time axis kind %d", a.Kind))
	}
	return d
}

func forecastDim(codes []int64) *axisDim {
	values := make([]float64, len(codes))
	for i, c := range codes {
		values[i] = float64(c)
	}
	return &axisDim{
		name:   "forecast",
		kind:   "forecast",
		values: values,
		ncType: netcdf.INT,
		attrs:  map[string]any{"long_name": "forecast code"},
	}
}

func levelDim(a domain.VerticalAxis) *axisDim {
	d := &axisDim{
		name:   a.Kind.String(),
		kind:   a.Kind.String(),
		values: a.Values,
		ncType: netcdf.DOUBLE,
		attrs:  map[string]any{"axis": "Z"},
	}
	if u := a.Kind.Units(); u != "" {
		d.attrs["units"] = u
	}
	switch a.Kind {
	case domain.LevelPressure:
		d.attrs["positive"] = "down"
	case domain.LevelHybrid:
		d.attrs["positive"] = "down"
		d.a, d.b = a.A, a.B
	case domain.LevelHeight, domain.LevelHeightAboveGround, domain.LevelTheta:
		d.attrs["positive"] = "up"
	case domain.LevelSigma, domain.LevelGeneric:
	default:
		panic(fmt.Sprintf("unhandled level kind %d", a.Kind))
	}
	return d
}

func kDim(n int) *axisDim {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	return &axisDim{name: "k", kind: "k", values: values, ncType: netcdf.INT}
}

func horizontalDim(a domain.HorizontalAxis, index, coord string) *axisDim {
	d := &axisDim{values: a.Values, ncType: netcdf.DOUBLE}
	switch a.Kind {
	case domain.HorizontalLongitude:
		d.name, d.kind = "lon", "lon"
		d.attrs = map[string]any{"units": "degrees_east", "standard_name": "longitude"}
	case domain.HorizontalLatitude:
		d.name, d.kind = "lat", "lat"
		d.attrs = map[string]any{"units": "degrees_north", "standard_name": "latitude"}
	case domain.HorizontalCoordinate:
		desc := a.Descriptor
		d.name = coord
		d.kind = fmt.Sprintf("%s %+v", coord, desc)
		d.attrs = map[string]any{
			"grtyp": desc.Grtyp.String(),
			"ip1":   desc.IP1, "ip2": desc.IP2, "ip3": desc.IP3,
			"ig1": desc.IG1, "ig2": desc.IG2, "ig3": desc.IG3, "ig4": desc.IG4,
		}
	case domain.HorizontalIndex:
		d.name, d.kind = index, index
		d.ncType = netcdf.INT
	default:
		panic(fmt.Sprintf("unhandled horizontal axis kind %d", a.Kind))
	}
	return d
}

// variableDims returns the output dimensions of v, slowest first.
func (p *plan) variableDims(v *domain.Variable) []*axisDim {
	hasTime, hasForecast, hasLevel, hasK := v.OutputDims()
	var dims []*axisDim
	if hasTime {
		dims = append(dims, p.dim(timeDim(v.Time)))
	}
	if hasForecast {
		dims = append(dims, p.dim(forecastDim(v.Forecast)))
	}
	if hasLevel {
		dims = append(dims, p.dim(levelDim(v.Level)))
	}
	if hasK {
		dims = append(dims, p.dim(kDim(v.NK)))
	}
	dims = append(dims, p.dim(horizontalDim(v.Y, "j", "yc")), p.dim(horizontalDim(v.X, "i", "xc")))
	return dims
}

type output struct {
	v    netcdf.Var
	dims []*axisDim
	src  *domain.Variable
	fld  *domain.Field2D
}

// Write creates path and writes ds to it.
func (w *Writer) Write(path string, ds *domain.Dataset) error {
	nc, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer nc.Close()

	p := newPlan()
	var outputs []output
	for _, v := range ds.Variables {
		outputs = append(outputs, output{dims: p.variableDims(v), src: v})
	}
	for _, f := range ds.Fields {
		dims := []*axisDim{p.dim(horizontalDim(f.Y, "j", "yc")), p.dim(horizontalDim(f.X, "i", "xc"))}
		outputs = append(outputs, output{dims: dims, fld: f})
	}

	if err := defineDims(nc, p); err != nil {
		return err
	}
	for i := range outputs {
		o := &outputs[i]
		ncDims := make([]netcdf.Dim, len(o.dims))
		for n, d := range o.dims {
			ncDims[n] = d.dim
		}
		if o.src != nil {
			o.v, err = nc.AddVar(o.src.Name, netcdf.FLOAT, ncDims)
			if err != nil {
				return fmt.Errorf("failed to add variable %s: %w", o.src.Name, err)
			}
			if err := writeAttrs(o.v, o.src.Attrs); err != nil {
				return fmt.Errorf("failed to write attributes of %s: %w", o.src.Name, err)
			}
			continue
		}
		o.v, err = nc.AddVar(o.fld.Name, netcdf.DOUBLE, ncDims)
		if err != nil {
			return fmt.Errorf("failed to add variable %s: %w", o.fld.Name, err)
		}
		if err := writeAttrs(o.v, map[string]any{"units": o.fld.Units}); err != nil {
			return fmt.Errorf("failed to write attributes of %s: %w", o.fld.Name, err)
		}
	}
	if err := writeGlobalAttrs(nc, ds.Attrs); err != nil {
		return err
	}
	if err := nc.EndDef(); err != nil {
		return fmt.Errorf("failed to end definitions: %w", err)
	}

	if err := writeDims(p); err != nil {
		return err
	}
	for _, o := range outputs {
		if o.fld != nil {
			if err := o.v.WriteFloat64s(o.fld.Values); err != nil {
				return fmt.Errorf("failed to write %s: %w", o.fld.Name, err)
			}
			continue
		}
		block, err := o.src.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", o.src.Name, err)
		}
		if err := o.v.WriteFloat32s(block.Values); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.src.Name, err)
		}
		w.log.WithFields(logrus.Fields{"variable": o.src.Name, "records": block.Count}).Debug("Wrote variable")
	}

	w.log.WithFields(logrus.Fields{
		"path":      path,
		"variables": len(ds.Variables),
		"fields":    len(ds.Fields),
		"dims":      len(p.dims),
	}).Info("Wrote NetCDF file")
	return nil
}

func defineDims(nc netcdf.Dataset, p *plan) error {
	for _, d := range p.dims {
		var err error
		d.dim, err = nc.AddDim(d.name, uint64(len(d.values)))
		if err != nil {
			return fmt.Errorf("failed to add dimension %s: %w", d.name, err)
		}
		if d.a != nil {
			d.attrs["formula_terms"] = fmt.Sprintf("ap: %[1]s_A b: %[1]s_B ps: PS", d.name)
		}
		d.v, err = nc.AddVar(d.name, d.ncType, []netcdf.Dim{d.dim})
		if err != nil {
			return fmt.Errorf("failed to add coordinate %s: %w", d.name, err)
		}
		if err := writeAttrs(d.v, d.attrs); err != nil {
			return fmt.Errorf("failed to write attributes of %s: %w", d.name, err)
		}
		if d.a == nil {
			continue
		}
		if d.av, err = nc.AddVar(d.name+"_A", netcdf.DOUBLE, []netcdf.Dim{d.dim}); err != nil {
			return fmt.Errorf("failed to add %s_A: %w", d.name, err)
		}
		if d.bv, err = nc.AddVar(d.name+"_B", netcdf.DOUBLE, []netcdf.Dim{d.dim}); err != nil {
			return fmt.Errorf("failed to add %s_B: %w", d.name, err)
		}
		if err := writeAttrs(d.av, map[string]any{"units": "Pa"}); err != nil {
			return fmt.Errorf("failed to write attributes of %s_A: %w", d.name, err)
		}
	}
	return nil
}

func writeDims(p *plan) error {
	for _, d := range p.dims {
		var err error
		switch d.ncType {
		case netcdf.INT:
			ints := make([]int32, len(d.values))
			for i, v := range d.values {
				ints[i] = int32(v)
			}
			err = d.v.WriteInt32s(ints)
		default:
			err = d.v.WriteFloat64s(d.values)
		}
		if err != nil {
			return fmt.Errorf("failed to write coordinate %s: %w", d.name, err)
		}
		if d.a == nil {
			continue
		}
		if err := d.av.WriteFloat64s(d.a); err != nil {
			return fmt.Errorf("failed to write %s_A: %w", d.name, err)
		}
		if err := d.bv.WriteFloat64s(d.b); err != nil {
			return fmt.Errorf("failed to write %s_B: %w", d.name, err)
		}
	}
	return nil
}

func writeAttrs(v netcdf.Var, attrs map[string]any) error {
	for _, k := range sortedKeys(attrs) {
		if err := putAttr(v.Attr(k), attrs[k]); err != nil {
			return fmt.Errorf("attribute %s: %w", k, err)
		}
	}
	return nil
}

func writeGlobalAttrs(nc netcdf.Dataset, attrs map[string]any) error {
	for _, k := range sortedKeys(attrs) {
		if err := putAttr(nc.Attr(k), attrs[k]); err != nil {
			return fmt.Errorf("failed to write global attribute %s: %w", k, err)
		}
	}
	return nil
}

func putAttr(a netcdf.Attr, val any) error {
	switch x := val.(type) {
	case string:
		return a.WriteBytes([]byte(x))
	case int32:
		return a.WriteInt32s([]int32{x})
	case int:
		return a.WriteInt32s([]int32{int32(x)})
	case int64:
		return a.WriteInt64s([]int64{x})
	case float64:
		return a.WriteFloat64s([]float64{x})
	case float32:
		return a.WriteFloat32s([]float32{x})
	default:
		return fmt.Errorf("unsupported attribute type %T", val)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
