package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, CodeInvalidRequest, "bad plate count")
	assert.Equal(t, "bad plate count", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
		details interface{}
	}{
		{
			name:    "string details",
			status:  http.StatusBadRequest,
			code:    CodeInvalidUpload,
			message: "unreadable",
			details: "bad quote in line 3",
		},
		{
			name:    "map details",
			status:  http.StatusBadRequest,
			code:    CodeMissingColumns,
			message: "missing",
			details: map[string]interface{}{"missing": []string{"Chemistry"}},
		},
		{
			name:    "nil details",
			status:  http.StatusInternalServerError,
			code:    CodeExportFailed,
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewWithDetails(tt.status, tt.code, tt.message, tt.details)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, tt.code, err.ErrorCode)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.details, err.Details)
		})
	}
}

func TestUploadErrors(t *testing.T) {
	t.Run("invalid upload", func(t *testing.T) {
		err := InvalidUpload("plate-0-bioanalysis", errors.New("wrong number of fields"))
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, CodeInvalidUpload, err.ErrorCode)
		assert.Contains(t, err.Message, "plate-0-bioanalysis")
		assert.Equal(t, "wrong number of fields", err.Details)
	})

	t.Run("missing columns", func(t *testing.T) {
		err := MissingColumns("plate-1-ise", []string{"Well Id"})
		assert.Equal(t, CodeMissingColumns, err.ErrorCode)
		details, ok := err.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, []string{"Well Id"}, details["missing"])
	})
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "plate_count", Message: "must be at most 100"},
		{Field: "plate-0-sample_name", Message: "too long"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeNoData, "No Data", "nothing", "/api/v1/export").
		WithExtension("trace_id", "abc").
		WithExtension("status", 200)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, TypeNoData, decoded["type"])
	assert.Equal(t, "abc", decoded["trace_id"])
	assert.EqualValues(t, http.StatusUnprocessableEntity, decoded["status"], "extensions cannot override standard members")
	assert.Equal(t, "/api/v1/export", decoded["instance"])
}

func TestProblemDetails_WithExtensionOnZeroValue(t *testing.T) {
	var problem ProblemDetails
	problem.WithExtension("k", "v")
	assert.Equal(t, "v", problem.Extensions["k"])
}
