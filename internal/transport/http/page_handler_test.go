package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "ysianalyzer/internal/errors"
	"ysianalyzer/internal/exporter"
	"ysianalyzer/internal/services"
	"ysianalyzer/pkg/contracts/domain"
)

func newPageRouter(svc AnalysisServiceInterface) http.Handler {
	logger := testLogger()
	h := NewPageHandler(svc, logger, apierrors.NewErrorHandler(logger, false), 1<<20, "test")
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestPageHandler_Form(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantPlates int
	}{
		{name: "default", wantStatus: http.StatusOK, wantPlates: 1},
		{name: "three plates", query: "?plates=3", wantStatus: http.StatusOK, wantPlates: 3},
		{name: "no plates", query: "?plates=0", wantStatus: http.StatusOK, wantPlates: 0},
		{name: "not a number", query: "?plates=x", wantStatus: http.StatusBadRequest},
		{name: "above max", query: "?plates=11", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newPageRouter(new(MockAnalysisService)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			body := rec.Body.String()
			assert.Equal(t, tt.wantPlates, strings.Count(body, "<legend>Input for Plate"))
			assert.Equal(t, tt.wantPlates*24, strings.Count(body, `placeholder="`))
			if tt.wantPlates > 0 {
				assert.Contains(t, body, `name="plate-0-R24_A01" placeholder="A1"`)
				assert.Contains(t, body, `name="plate-0-bioanalysis"`)
				assert.Contains(t, body, `formaction="/export"`)
			}
		})
	}
}

func TestPageHandler_Form_GridOrder(t *testing.T) {
	rec := httptest.NewRecorder()
	newPageRouter(new(MockAnalysisService)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()

	// Row by row: A1 B1 C1 A2 ...
	a1 := strings.Index(body, `placeholder="A1"`)
	b1 := strings.Index(body, `placeholder="B1"`)
	a2 := strings.Index(body, `placeholder="A2"`)
	require.True(t, a1 > 0 && b1 > 0 && a2 > 0)
	assert.Less(t, a1, b1)
	assert.Less(t, b1, a2)
}

func TestPageHandler_Analyze(t *testing.T) {
	svc := new(MockAnalysisService)
	result := sampleResult()
	result.Notices = []string{"Plate 2 skipped: no Bioanalysis file uploaded."}
	svc.On("Analyze", mock.Anything).Return(result, nil)

	rec := httptest.NewRecorder()
	newPageRouter(svc).ServeHTTP(rec, multipartRequest(t, "/analyze"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "YSI Analyzer Results")
	assert.Equal(t, 2, strings.Count(body, "<svg"))
	assert.Contains(t, body, "Mean Concentration (g/L)")
	assert.Contains(t, body, "<td class=\"num\">1.100</td>")
	assert.Contains(t, body, "Plate 2 skipped")
}

func TestPageHandler_Analyze_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{
			name:       "non-numeric cells listed",
			err:        &apierrors.DataFormatError{Issues: []domain.DataIssue{{Plate: 0, Source: domain.SourceBioanalysis, WellID: "R24_A01", Chemistry: "Glucose", Row: 4, Value: "abc"}}},
			wantStatus: http.StatusUnprocessableEntity,
			wantText:   "<td>abc</td>",
		},
		{
			name: "validation messages",
			err: apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: "plate_count", Message: "plate_count must be at most 100"},
			}),
			wantStatus: http.StatusBadRequest,
			wantText:   "plate_count must be at most 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			svc.On("Analyze", mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			newPageRouter(svc).ServeHTTP(rec, multipartRequest(t, "/analyze"))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
		})
	}
}

func TestPageHandler_Export(t *testing.T) {
	t.Run("download", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Export", mock.Anything).Return(&exporter.Workbook{
			Filename: exporter.DefaultExportFilename, ContentType: exporter.XLSXContentType, Data: []byte("PK"),
		}, nil)

		rec := httptest.NewRecorder()
		newPageRouter(svc).ServeHTTP(rec, multipartRequest(t, "/export"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, exporter.XLSXContentType, rec.Header().Get("Content-Type"))
	})

	t.Run("no data notice", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Export", mock.Anything).Return(nil, apierrors.ErrEmptyResult)

		rec := httptest.NewRecorder()
		newPageRouter(svc).ServeHTTP(rec, multipartRequest(t, "/export"))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), services.NoDataNotice)
	})
}
