package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSheetNotFound is returned when a sheet name is not part of the workbook.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrInvalidGrouping is returned when a breakdown asks for zero or more than two columns.
	ErrInvalidGrouping = errors.New("grouping needs one or two columns")
)

// LoadError reports an upload that is not a readable spreadsheet container.
// It is fatal for the interaction that produced it.
type LoadError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load workbook: %s: %v", e.Reason, e.Err)
	}
	return "load workbook: " + e.Reason
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}

// MissingColumnError reports a view whose required columns are absent from the sheet.
// Callers skip that view and keep running the others.
type MissingColumnError struct {
	View    string
	Columns []string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	cols := strings.Join(e.Columns, ", ")
	if e.View == "" {
		return "missing column(s): " + cols
	}
	return fmt.Sprintf("view %s unavailable: missing column(s): %s", e.View, cols)
}

// AsMissingColumn unwraps err into a MissingColumnError.
func AsMissingColumn(err error) (*MissingColumnError, bool) {
	var mce *MissingColumnError
	if errors.As(err, &mce) {
		return mce, true
	}
	return nil, false
}
