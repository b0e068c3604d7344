package domain

import (
	"fmt"
)

// Field2D is a derived (y, x) field, such as projected latitudes.
type Field2D struct {
	Name   string
	Units  string
	Y, X   HorizontalAxis
	Values []float64 // len(Y) * len(X), row-major.
}

// DroppedVariable records a variable excluded from the output.
type DroppedVariable struct {
	Name string
	Err  error
}

// Dataset is the assembled content of one record file.
type Dataset struct {
	Variables []*Variable
	Fields    []*Field2D
	Attrs     map[string]any
	Dropped   []DroppedVariable

	names map[string]int
}

// NewDataset creates an empty dataset with the given global attributes.
func NewDataset(attrs map[string]any) *Dataset {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return &Dataset{Attrs: attrs, names: make(map[string]int)}
}

// Add appends v, renaming it nomvar_1, nomvar_2... when its name is taken.
func (ds *Dataset) Add(v *Variable) {
	v.Name = ds.uniqueName(v.Identity.Nomvar)
	ds.Variables = append(ds.Variables, v)
}

// Drop records a variable failure.
func (ds *Dataset) Drop(name string, err error) {
	ds.Dropped = append(ds.Dropped, DroppedVariable{Name: name, Err: err})
}

// Variable returns the variable with the given output name.
func (ds *Dataset) Variable(name string) (*Variable, bool) {
	for _, v := range ds.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

func (ds *Dataset) uniqueName(base string) string {
	if ds.names == nil {
		ds.names = make(map[string]int)
	}
	if _, taken := ds.names[base]; !taken {
		ds.names[base] = 1
		return base
	}
	for n := ds.names[base]; ; n++ {
		name := fmt.Sprintf("%s_%d", base, n)
		if _, taken := ds.names[name]; !taken {
			ds.names[base] = n + 1
			ds.names[name] = 1
			return name
		}
	}
}
