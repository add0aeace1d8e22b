package sendxls

import (
	"errors"
	"fmt"
)

// ErrEmptyInput indicates no header could be derived from the input.
var ErrEmptyInput = errors.New("empty input: no header row")

// ErrTooManyRows indicates the input exceeded Options.MaxRows.
var ErrTooManyRows = errors.New("too many rows")

// RowShapeError reports a data row that does not fit the header.
type RowShapeError struct {
	// Row is the 0-based index of the data row.
	Row  int
	Want int
	Got  int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("row %d has %d fields, header has %d or is missing a column", e.Row, e.Got, e.Want)
}

// Report stages named by StageError.
const (
	StageConfig  = "config"
	StageRead    = "read"
	StageConvert = "convert"
	StageWrite   = "write"
	StageMail    = "mail"
)

// StageError represents a failure in one step of producing a report.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("report %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage string, err error) *StageError {
	return &StageError{
		Stage: stage,
		Err:   err,
	}
}
