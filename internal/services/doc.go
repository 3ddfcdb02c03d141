// Package services holds the application layer between the HTTP handlers
// and the analysis pipeline.
//
// AnalysisService turns a submitted plate form into plate entries
// (internal/plates), aggregates them into the combined summary table
// (internal/dataprocessing), and derives the chart model (internal/chart),
// the summary CSV, or the raw-results workbook (internal/exporter). Every run
// is traced with OpenTelemetry and counted in the pipeline metrics.
//
// HealthService backs the health, readiness, liveness and version endpoints.
//
// Services take their dependencies as constructor arguments and a
// *slog.Logger; they never read global configuration.
package services
