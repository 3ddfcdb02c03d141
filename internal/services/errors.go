package services

import (
	"context"
	stderrors "errors"

	"ysianalyzer/internal/errors"
)

// Values of the error.type metric attribute.
const (
	errTypeDataFormat = "data_format"
	errTypeEmpty      = "empty_result"
	errTypeValidation = "validation"
	errTypeUpload     = "upload"
	errTypeTimeout    = "timeout"
	errTypeExport     = "export"
	errTypeInternal   = "internal"
)

// classifyError maps a pipeline error to its metric label.
func classifyError(err error) string {
	var formatErr *errors.DataFormatError
	var apiErr *errors.APIError

	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &formatErr):
		return errTypeDataFormat
	case errors.IsEmptyResult(err):
		return errTypeEmpty
	case isContextError(err):
		return errTypeTimeout
	case stderrors.As(err, &apiErr):
		if apiErr.ErrorCode == errors.CodeValidationFailed {
			return errTypeValidation
		}
		return errTypeUpload
	default:
		switch errors.TypeOf(err) {
		case errors.ErrTypeExport, errors.ErrTypeStorage:
			return errTypeExport
		case errors.ErrTypeParsing:
			return errTypeUpload
		}
		return errTypeInternal
	}
}

func isContextError(err error) bool {
	return stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled)
}
