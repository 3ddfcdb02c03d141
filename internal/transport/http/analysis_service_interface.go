package http

import (
	"context"
	"mime/multipart"

	"ysianalyzer/internal/dataprocessing"
	"ysianalyzer/internal/exporter"
	"ysianalyzer/internal/plates"
	"ysianalyzer/internal/services"
)

// AnalysisServiceInterface defines the pipeline operations behind the
// analysis routes.
type AnalysisServiceInterface interface {
	Layout() plates.Layout
	Policy() dataprocessing.ConcentrationPolicy
	Analyze(ctx context.Context, form *multipart.Form) (*services.AnalysisResult, error)
	SummaryCSV(ctx context.Context, form *multipart.Form) ([]byte, error)
	Export(ctx context.Context, form *multipart.Form) (*exporter.Workbook, error)
}

var _ AnalysisServiceInterface = (*services.AnalysisService)(nil)
