package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrMalformedRow is returned when a cell cannot be parsed or violates a constraint.
	ErrMalformedRow = errors.New("malformed row")
	// ErrEmptyDataset is returned when the source holds no data rows.
	ErrEmptyDataset = errors.New("dataset has no rows")
	// ErrUnsupportedSource is returned for unknown formats or source schemes.
	ErrUnsupportedSource = errors.New("unsupported dataset source")
)

// RowError reports a bad cell. Line is the 1-based line of the source,
// counting the header.
type RowError struct {
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q: %s (value %q)", e.Line, e.Column, e.Reason, e.Value)
}

// Unwrap makes every RowError match ErrMalformedRow.
func (e *RowError) Unwrap() error { return ErrMalformedRow }
