package errors

import (
	"errors"
	"fmt"
	"strings"

	"ysianalyzer/pkg/contracts/domain"
)

// ErrEmptyResult is returned when no plate produced any summary row.
var ErrEmptyResult = NewAppError(ErrTypeEmpty, "no data: no plate produced results", nil)

// InputIncompleteError marks a plate that was skipped because it has no
// Bioanalysis upload.
type InputIncompleteError struct {
	Plate int
}

func (e *InputIncompleteError) Error() string {
	return fmt.Sprintf("plate %d skipped: no Bioanalysis file uploaded", e.Plate+1)
}

// NewInputIncompleteError creates the skip notice for a zero-based plate index.
func NewInputIncompleteError(plate int) *InputIncompleteError {
	return &InputIncompleteError{Plate: plate}
}

// DataFormatError lists concentration cells that are neither blank nor numeric.
type DataFormatError struct {
	Issues []domain.DataIssue
}

func (e *DataFormatError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "data format error"
	case 1:
		return "data format error: " + e.Issues[0].String()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("data format error: %d non-numeric concentration values: %s",
		len(e.Issues), strings.Join(parts, "; "))
}

// NewDataFormatError creates a DataFormatError, or nil if there is nothing to report.
func NewDataFormatError(issues []domain.DataIssue) error {
	if len(issues) == 0 {
		return nil
	}
	return &DataFormatError{Issues: issues}
}

// IsEmptyResult reports whether err is, or wraps, ErrEmptyResult.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}
