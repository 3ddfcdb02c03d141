package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a client-facing error with a stable code. The ErrorHandler
// turns it into a problem document; Details become the problem's "details".
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// Error codes carried in the problem's "error_code" extension.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidUpload    = "INVALID_UPLOAD"
	CodeMissingColumns   = "MISSING_COLUMNS"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	CodeDataFormat       = "DATA_FORMAT"
	CodeNoData           = "NO_DATA"
	CodeExportFailed     = "EXPORT_FAILED"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError carrying details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// InvalidRequestWithError reports a request body that could not be parsed.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ValidationError is one rejected form field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a failed form validation.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// ErrValidation rejects a single form field.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
		ValidationError{Field: field, Message: message})
}

// NewValidationErrors rejects several form fields at once.
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed",
		ValidationErrors{Errors: errors})
}

// NewValidationError rejects the form without naming a field.
func NewValidationError(message string) *APIError {
	return New(http.StatusBadRequest, CodeValidationFailed, message)
}

// InvalidUpload reports an uploaded file that could not be read as a table.
func InvalidUpload(field string, err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidUpload,
		fmt.Sprintf("Could not read uploaded file %s", field), err.Error())
}

// MissingColumns reports an upload that lacks one of the consumed columns.
func MissingColumns(field string, columns []string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeMissingColumns,
		fmt.Sprintf("Uploaded file %s is missing required columns", field),
		map[string]interface{}{"field": field, "missing": columns})
}
