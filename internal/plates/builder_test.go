package plates

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "ysianalyzer/internal/errors"
	"ysianalyzer/internal/middleware"
	"ysianalyzer/internal/shared/testutil"
	"ysianalyzer/internal/validation"
	"ysianalyzer/pkg/contracts/domain"
)

var bioCSV = testutil.CSV(testutil.InstrumentHeaders,
	testutil.Row("R24_A01", "Glucose", "2.0"),
	testutil.Row("R24_A02", "Lactate", "1.1"),
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewBuilder(logger,
		middleware.NewValidationMiddleware(logger),
		validation.NewFileValidator(logger, 1<<20, nil),
		BuilderConfig{MaxPlates: 10})
}

func TestBuilder_Build(t *testing.T) {
	form := testutil.MultipartForm(t,
		map[string]string{
			FieldPlateCount:    "2",
			SampleNameField(0): "  Fed-batch 12 ",
			"plate-0-R24_B03":  "Sample3",
			"plate-0-R24_A01":  "Sample1",
			"plate-0-R24_A02":  "   ",
			"plate-1-R24_C08":  "Late",
			"plate-7-R24_A01":  "beyond plate count",
		},
		map[string]testutil.Upload{
			BioFileField(0): {Filename: "bio.csv", Content: bioCSV},
			ISEFileField(1): {Filename: "ise.txt", Content: bioCSV},
		},
	)

	entries, err := newBuilder(t).Build(context.Background(), form)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	p0 := entries[0]
	assert.Equal(t, 0, p0.Index)
	assert.Equal(t, "Fed-batch 12", p0.SampleName)
	assert.Equal(t, []domain.WellAssignment{
		{WellID: "R24_A01", Label: "Sample1"},
		{WellID: "R24_B03", Label: "Sample3"},
	}, p0.ActiveWells, "grid order, blank labels inactive")
	require.NotNil(t, p0.Bio)
	assert.Equal(t, 2, p0.Bio.Len())
	assert.Nil(t, p0.ISE)

	p1 := entries[1]
	assert.Nil(t, p1.Bio)
	require.NotNil(t, p1.ISE)
	assert.Equal(t, []domain.WellAssignment{{WellID: "R24_C08", Label: "Late"}}, p1.ActiveWells)
}

func TestBuilder_DefaultPlateCount(t *testing.T) {
	form := testutil.MultipartForm(t, map[string]string{"plate-0-R24_A01": "S"}, nil)

	entries, err := newBuilder(t).Build(context.Background(), form)
	require.NoError(t, err)
	require.Len(t, entries, DefaultPlateCount)
	assert.Nil(t, entries[0].Bio)
}

func TestBuilder_ZeroPlates(t *testing.T) {
	form := testutil.MultipartForm(t, map[string]string{FieldPlateCount: "0"}, nil)

	entries, err := newBuilder(t).Build(context.Background(), form)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuilder_FormErrors(t *testing.T) {
	longName := make([]byte, 201)
	for i := range longName {
		longName[i] = 'x'
	}

	tests := []struct {
		name       string
		values     map[string]string
		files      map[string]testutil.Upload
		wantStatus int
		wantCode   string
	}{
		{
			name:       "plate count not a number",
			values:     map[string]string{FieldPlateCount: "two"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:       "plate count above configured max",
			values:     map[string]string{FieldPlateCount: "11"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:       "negative plate count",
			values:     map[string]string{FieldPlateCount: "-1"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:       "sample name too long",
			values:     map[string]string{FieldPlateCount: "1", SampleNameField(0): string(longName)},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:   "upload missing columns",
			values: map[string]string{FieldPlateCount: "1"},
			files: map[string]testutil.Upload{
				BioFileField(0): {Filename: "bio.csv", Content: "Well,Analyte,Value\nR24_A01,Glucose,1\n"},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeMissingColumns,
		},
		{
			name:   "upload with wrong extension",
			values: map[string]string{FieldPlateCount: "1"},
			files: map[string]testutil.Upload{
				ISEFileField(0): {Filename: "ise.xlsx", Content: bioCSV},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeValidationFailed,
		},
		{
			name:   "empty upload",
			values: map[string]string{FieldPlateCount: "1"},
			files: map[string]testutil.Upload{
				BioFileField(0): {Filename: "bio.csv", Content: ""},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.CodeInvalidUpload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := testutil.MultipartForm(t, tt.values, tt.files)

			_, err := newBuilder(t).Build(context.Background(), form)

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestBuilder_NilForm(t *testing.T) {
	_, err := newBuilder(t).Build(context.Background(), nil)
	assert.Error(t, err)
}

func TestPlateForm_WellKeyValidation(t *testing.T) {
	v := middleware.NewValidationMiddleware(nil)

	valid := &PlateForm{PlateCount: 1, Plates: []PlateFields{{Wells: map[string]string{"R24_C08": "S"}}}}
	assert.NoError(t, v.ValidateStruct(valid))

	invalid := &PlateForm{PlateCount: 1, Plates: []PlateFields{{Wells: map[string]string{"R24_D01": "S"}}}}
	err := v.ValidateStruct(invalid)
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 1)
	assert.Contains(t, details.Errors[0].Message, "well id")
}

func TestPlateLayout(t *testing.T) {
	layout := PlateLayout(100)

	require.Len(t, layout.Wells, 24)
	assert.Equal(t, domain.WellID("R24_A01"), layout.Wells[0].ID)
	assert.Equal(t, "A1", layout.Wells[0].Placeholder)
	assert.Equal(t, domain.WellID("R24_B01"), layout.Wells[8].ID)
	assert.Equal(t, "C8", layout.Wells[23].Placeholder)
	assert.Equal(t, []string{"A", "B", "C"}, layout.Columns)
	assert.Equal(t, 100, layout.MaxPlates)
}

func TestFieldNames(t *testing.T) {
	assert.Equal(t, "plate-2-sample_name", SampleNameField(2))
	assert.Equal(t, "plate-0-R24_B04", WellField(0, "R24_B04"))
	assert.Equal(t, "plate-1-bioanalysis", BioFileField(1))
	assert.Equal(t, "plate-1-ise", ISEFileField(1))
}
