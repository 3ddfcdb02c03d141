package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewConfigError("unknown concentration policy", nil),
			want: "[CONFIG] unknown concentration policy",
		},
		{
			name: "with cause",
			err:  NewParsingError("read bioanalysis", errors.New("bare quote")),
			want: "[PARSING] read bioanalysis: bare quote",
		},
		{
			name: "context keys are sorted",
			err: NewExportError("write sheet", errors.New("disk full")).
				WithContext("sheet", "Glucose").
				WithContext("rows", 12),
			want: "[EXPORT] write sheet (rows=12, sheet=Glucose): disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("no space left on device")
	err := NewStorageError("write scratch workbook", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestAppError_WithContext(t *testing.T) {
	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("key", "value")
	assert.Equal(t, "value", bare.Context["key"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"export", NewExportError("x", nil), ErrTypeExport},
		{"storage wrapped", fmt.Errorf("export: %w", NewStorageError("x", nil)), ErrTypeStorage},
		{"empty result", ErrEmptyResult, ErrTypeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}
