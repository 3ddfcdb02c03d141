package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ysianalyzer/internal/chart"
	"ysianalyzer/internal/dataprocessing"
	"ysianalyzer/internal/errors"
	"ysianalyzer/internal/exporter"
	"ysianalyzer/internal/infrastructure"
	"ysianalyzer/internal/plates"
	"ysianalyzer/pkg/contracts/domain"
)

// TracerName names the spans of the analysis pipeline.
const TracerName = "ysianalyzer.analysis"

// NoDataNotice is shown when a run produces no summary rows.
const NoDataNotice = "No data: no plate produced results. Upload a Bioanalysis file and label at least one well that appears in it."

// Run kinds reported in the ysi_runs_total metric.
const (
	RunKindAnalysis   = "analysis"
	RunKindExport     = "export"
	RunKindSummaryCSV = "summary_csv"
)

// SkippedPlate is a plate left out of the run.
type SkippedPlate struct {
	Plate  int    `json:"plate"`
	Reason string `json:"reason"`
}

// AnalysisResult is everything the result page and the JSON API show for
// one run.
type AnalysisResult struct {
	Policy   string                `json:"policy"`
	Plates   int                   `json:"plates"`
	Combined *domain.CombinedTable `json:"combined"`
	Chart    *chart.Model          `json:"chart"`
	Skipped  []SkippedPlate        `json:"skipped_plates"`
	Issues   []domain.DataIssue    `json:"data_issues"`
	Notices  []string              `json:"notices"`
	Empty    bool                  `json:"empty"`
}

// AnalysisServiceConfig holds the service defaults.
type AnalysisServiceConfig struct {
	// Policy is used unless the form sets concentration_policy.
	Policy dataprocessing.ConcentrationPolicy
}

// AnalysisService runs the plate pipeline: form to plate entries, plate
// entries to the combined table, and the combined table to a chart, a
// summary CSV or the raw-results workbook.
type AnalysisService struct {
	builder  *plates.Builder
	exporter *exporter.Exporter
	policy   dataprocessing.ConcentrationPolicy
	tracer   trace.Tracer
	metrics  *infrastructure.Metrics
	base     *slog.Logger
	logger   *slog.Logger
}

// NewAnalysisService creates the service. A nil tracer falls back to the
// global tracer; nil metrics disables run metrics.
func NewAnalysisService(logger *slog.Logger, builder *plates.Builder, exp *exporter.Exporter, cfg AnalysisServiceConfig, tracer trace.Tracer, metrics *infrastructure.Metrics) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Policy == "" {
		cfg.Policy = dataprocessing.PolicyStrict
	}
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	if exp == nil {
		exp = exporter.NewExporter(logger, nil, "")
	}

	logger.Info("AnalysisService initialized",
		slog.String("policy", cfg.Policy.String()),
		slog.Int("max_plates", builder.MaxPlates()))

	return &AnalysisService{
		builder:  builder,
		exporter: exp,
		policy:   cfg.Policy,
		tracer:   tracer,
		metrics:  metrics,
		base:     logger,
		logger:   infrastructure.WithComponent(logger, "analysis_service"),
	}
}

// Layout returns the well grid shown by the form.
func (s *AnalysisService) Layout() plates.Layout {
	return plates.PlateLayout(s.builder.MaxPlates())
}

// Policy returns the default concentration policy.
func (s *AnalysisService) Policy() dataprocessing.ConcentrationPolicy {
	return s.policy
}

// run is one pass of the pipeline shared by every entry point.
type run struct {
	policy  dataprocessing.ConcentrationPolicy
	plates  []domain.PlateEntry
	result  *dataprocessing.AggregateResult
	started time.Time
}

func (s *AnalysisService) aggregate(ctx context.Context, form *multipart.Form) (*run, error) {
	r := &run{started: time.Now()}

	policy, err := s.resolvePolicy(form)
	if err != nil {
		return r, err
	}
	r.policy = policy

	buildCtx, span := s.tracer.Start(ctx, "analysis.build_plates")
	r.plates, err = s.builder.Build(buildCtx, form)
	span.SetAttributes(attribute.Int("analysis.plates", len(r.plates)))
	endSpan(span, err)
	if err != nil {
		return r, err
	}

	aggCtx, span := s.tracer.Start(ctx, "analysis.aggregate",
		trace.WithAttributes(attribute.String("analysis.policy", policy.String())))
	summarizer := dataprocessing.NewSummarizer(s.base, dataprocessing.SummarizerConfig{Policy: policy})
	r.result, err = dataprocessing.NewAggregator(s.base, summarizer).Aggregate(aggCtx, r.plates)
	if err == nil {
		span.SetAttributes(
			attribute.Int("analysis.rows", r.result.Combined.Len()),
			attribute.Int("analysis.skipped", len(r.result.Skipped)),
			attribute.Int("analysis.issues", len(r.result.Issues)),
		)
	}
	endSpan(span, err)
	return r, err
}

// resolvePolicy reads the optional per-request policy override.
func (s *AnalysisService) resolvePolicy(form *multipart.Form) (dataprocessing.ConcentrationPolicy, error) {
	if form == nil {
		return s.policy, nil
	}
	values := form.Value[plates.FieldPolicy]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return s.policy, nil
	}
	policy, err := dataprocessing.ParseConcentrationPolicy(values[0])
	if err != nil {
		return "", errors.ErrValidation(plates.FieldPolicy, err.Error())
	}
	return policy, nil
}

// Analyze runs the pipeline and builds the chart model. A run without any
// summary rows is not an error: the result is marked empty and carries the
// no-data notice.
func (s *AnalysisService) Analyze(ctx context.Context, form *multipart.Form) (*AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.analyze", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	r, err := s.aggregate(ctx, form)
	if err != nil {
		s.finish(ctx, span, RunKindAnalysis, r, 0, 0, err)
		return nil, err
	}

	model := chart.BuildModel(r.result.Combined)
	result := &AnalysisResult{
		Policy:   r.policy.String(),
		Plates:   len(r.plates),
		Combined: r.result.Combined,
		Chart:    &model,
		Skipped:  skippedPlates(r.result.Skipped),
		Issues:   r.result.Issues,
		Empty:    r.result.Combined.IsEmpty(),
	}
	if result.Issues == nil {
		result.Issues = []domain.DataIssue{}
	}
	result.Notices = notices(result)

	if result.Empty {
		s.logger.InfoContext(ctx, "analysis produced no data", slog.Int("plates", result.Plates))
	}
	s.finish(ctx, span, RunKindAnalysis, r, 0, 0, nil)
	return result, nil
}

// SummaryCSV runs the pipeline and renders the combined table as CSV.
// An empty run yields errors.ErrEmptyResult.
func (s *AnalysisService) SummaryCSV(ctx context.Context, form *multipart.Form) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.summary_csv", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	r, err := s.aggregate(ctx, form)
	if err == nil && r.result.Combined.IsEmpty() {
		err = errors.ErrEmptyResult
	}
	if err != nil {
		s.finish(ctx, span, RunKindSummaryCSV, r, 0, 0, err)
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.WriteSummaryCSV(&buf, r.result.Combined); err != nil {
		err = errors.NewExportError("failed to write summary CSV", err)
		s.finish(ctx, span, RunKindSummaryCSV, r, 0, 0, err)
		return nil, err
	}

	s.finish(ctx, span, RunKindSummaryCSV, r, 0, buf.Len(), nil)
	return buf.Bytes(), nil
}

// Export runs the pipeline and writes the raw-results workbook: one sheet
// per chemistry holding the raw rows behind the combined table.
func (s *AnalysisService) Export(ctx context.Context, form *multipart.Form) (*exporter.Workbook, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.export", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	r, err := s.aggregate(ctx, form)
	if err != nil {
		s.finish(ctx, span, RunKindExport, r, 0, 0, err)
		return nil, err
	}

	wb, err := s.exporter.Export(ctx, r.plates, r.result.Combined)
	if err != nil {
		s.finish(ctx, span, RunKindExport, r, 0, 0, err)
		return nil, err
	}

	span.SetAttributes(attribute.StringSlice("export.sheets", wb.Sheets))
	s.finish(ctx, span, RunKindExport, r, len(wb.Sheets), len(wb.Data), nil)
	return wb, nil
}

// finish logs the run and records its metrics and span status.
func (s *AnalysisService) finish(ctx context.Context, span trace.Span, kind string, r *run, sheets, size int, err error) {
	stats := infrastructure.RunStats{
		Kind:            kind,
		Duration:        time.Since(r.started),
		PlatesProcessed: len(r.plates),
		Sheets:          sheets,
		Bytes:           size,
		Err:             err,
		ErrorType:       classifyError(err),
	}
	if r.result != nil {
		stats.PlatesSkipped = len(r.result.Skipped)
		stats.WellsSummarized = r.result.WellsSummarized
		stats.DataIssues = len(r.result.Issues)
	}
	s.metrics.RecordRun(ctx, stats)

	if err != nil {
		infrastructure.RecordError(span, err, stats.ErrorType)
		level := slog.LevelError
		if stats.ErrorType != errTypeInternal && stats.ErrorType != errTypeExport {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "run failed",
			slog.String("kind", kind),
			slog.String("error_type", stats.ErrorType),
			slog.String("error", err.Error()))
		return
	}

	span.SetStatus(codes.Ok, "")
	s.logger.InfoContext(ctx, "run completed",
		slog.String("kind", kind),
		slog.Int("plates", stats.PlatesProcessed),
		slog.Int("skipped", stats.PlatesSkipped),
		slog.Int("wells", stats.WellsSummarized),
		slog.Int("sheets", sheets),
		slog.Duration("duration", stats.Duration))
}

func endSpan(span trace.Span, err error) {
	infrastructure.RecordError(span, err, classifyError(err))
	span.End()
}

func skippedPlates(skipped []*errors.InputIncompleteError) []SkippedPlate {
	out := make([]SkippedPlate, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, SkippedPlate{Plate: s.Plate + 1, Reason: s.Error()})
	}
	return out
}

func notices(r *AnalysisResult) []string {
	out := make([]string, 0, len(r.Skipped)+2)
	for _, s := range r.Skipped {
		out = append(out, fmt.Sprintf("Plate %d skipped: no Bioanalysis file uploaded.", s.Plate))
	}
	if n := len(r.Issues); n > 0 {
		out = append(out, fmt.Sprintf("%d non-numeric concentration value(s) ignored.", n))
	}
	if r.Empty {
		out = append(out, NoDataNotice)
	}
	return out
}
