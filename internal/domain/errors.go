package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the assembly pipeline.
var (
	// ErrStructural is returned when the record source cannot be read at all.
	// It aborts the whole run.
	ErrStructural = errors.New("unreadable record source")

	// ErrGroupIncomplete is returned when a variable's axes do not cover its
	// records exactly.
	ErrGroupIncomplete = errors.New("some records are missing")

	// ErrIncompatibleMetadata is returned when the records of one variable
	// disagree on metadata that must be shared, such as the level kind.
	ErrIncompatibleMetadata = errors.New("incompatible metadata")

	// ErrCoordinateResolution is returned when a grid or vertical coordinate
	// cannot be resolved: missing or duplicated companions, or an unsupported
	// grid type.
	ErrCoordinateResolution = errors.New("coordinate resolution failed")

	// ErrInconsistentLookup is returned when a deferred read hits an
	// unpopulated lookup cell. Construction rejects such variables, so this
	// indicates a bug.
	ErrInconsistentLookup = errors.New("header lookup is inconsistent")
)

// VariableError is a per-variable failure. The variable is dropped and the
// run continues.
type VariableError struct {
	Variable string
	Kind     error
	Detail   string
}

func (e *VariableError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Variable, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Variable, e.Kind, e.Detail)
}

func (e *VariableError) Unwrap() error { return e.Kind }

func variableErrorf(variable string, kind error, format string, args ...any) *VariableError {
	return &VariableError{
		Variable: variable,
		Kind:     kind,
		Detail:   fmt.Sprintf(format, args...),
	}
}
