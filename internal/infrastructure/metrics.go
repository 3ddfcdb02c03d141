package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the HTTP and pipeline instruments.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Pipeline metrics
	RunsTotal       metric.Int64Counter
	RunDuration     metric.Float64Histogram
	PlatesProcessed metric.Int64Counter
	PlatesSkipped   metric.Int64Counter
	WellsSummarized metric.Int64Counter
	DataIssues      metric.Int64Counter
	SheetsExported  metric.Int64Counter
	ExportBytes     metric.Int64Histogram
	Errors          metric.Int64Counter
}

// CreateMetrics creates every instrument on meter.
func CreateMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.HTTPRequestsTotal, "http_requests_total", "Total number of HTTP requests"},
		{&m.RunsTotal, "ysi_runs_total", "Pipeline runs by kind and outcome"},
		{&m.PlatesProcessed, "ysi_plates_processed_total", "Plates with a Bioanalysis table that were aggregated"},
		{&m.PlatesSkipped, "ysi_plates_skipped_total", "Plates skipped for lack of a Bioanalysis table"},
		{&m.WellsSummarized, "ysi_wells_summarized_total", "Active wells summarized"},
		{&m.DataIssues, "ysi_data_issues_total", "Concentration cells that could not be parsed"},
		{&m.SheetsExported, "ysi_sheets_exported_total", "Worksheets written to exported workbooks"},
		{&m.Errors, "ysi_errors_total", "Pipeline errors by type"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, err
		}
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.RunDuration, err = meter.Float64Histogram(
		"ysi_run_duration_seconds",
		metric.WithDescription("Pipeline run duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.ExportBytes, err = meter.Int64Histogram(
		"ysi_export_bytes",
		metric.WithDescription("Size of exported workbooks"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// RunStats describes one pipeline run for RecordRun.
type RunStats struct {
	Kind            string // "analysis", "export", "summary_csv"
	Duration        time.Duration
	PlatesProcessed int
	PlatesSkipped   int
	WellsSummarized int
	DataIssues      int
	Sheets          int
	Bytes           int
	Err             error
	ErrorType       string
}

// RecordRun records the counters of one run. A nil receiver is a no-op.
func (m *Metrics) RecordRun(ctx context.Context, s RunStats) {
	if m == nil {
		return
	}

	status := "success"
	if s.Err != nil {
		status = "failure"
	}
	kind := attribute.String("run.kind", s.Kind)

	m.RunsTotal.Add(ctx, 1, metric.WithAttributes(kind, attribute.String("status", status)))
	m.RunDuration.Record(ctx, s.Duration.Seconds(), metric.WithAttributes(kind, attribute.String("status", status)))

	attrs := metric.WithAttributes(kind)
	m.PlatesProcessed.Add(ctx, int64(s.PlatesProcessed), attrs)
	m.PlatesSkipped.Add(ctx, int64(s.PlatesSkipped), attrs)
	m.WellsSummarized.Add(ctx, int64(s.WellsSummarized), attrs)
	m.DataIssues.Add(ctx, int64(s.DataIssues), attrs)
	if s.Sheets > 0 {
		m.SheetsExported.Add(ctx, int64(s.Sheets), attrs)
		m.ExportBytes.Record(ctx, int64(s.Bytes), attrs)
	}
	if s.Err != nil {
		m.Errors.Add(ctx, 1, metric.WithAttributes(kind, attribute.String("error.type", s.ErrorType)))
	}
}
