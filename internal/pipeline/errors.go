package pipeline

import (
	"fmt"
	"strings"
)

// SchemaError means the input table cannot be processed at all: required
// columns missing or the input shape is wrong. Fatal to the batch.
type SchemaError struct {
	Path    string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("input %s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("input %s: %s", e.Path, e.Reason)
}

// UnsupportedSeriesTypeError means the caller supplied a time-series value
// in a representation the resolver does not recognize. This is a caller
// error, not a transient fault, so it aborts the batch.
type UnsupportedSeriesTypeError struct {
	ID string
}

func (e *UnsupportedSeriesTypeError) Error() string {
	return fmt.Sprintf("star %s: can't handle this type of time series input", e.ID)
}
