// Package http implements the HTTP handlers of the YSI Analyzer.
//
// Handlers are thin: they parse the multipart plate form, call the analysis
// service and turn the outcome into a response. Errors are rendered as RFC
// 7807 problems by the shared errors.ErrorHandler.
//
//	PageHandler      GET /, POST /analyze, POST /export (server-rendered HTML)
//	AnalysisHandler  /api/v1/layout, /api/v1/analysis, /api/v1/analysis/summary.csv, /api/v1/export
//	HealthHandler    /api/health, /api/health/live, /api/health/ready, /api/version
//	MetricsHandler   /metrics
//
// Handlers depend on service interfaces so they can be tested with testify
// mocks.
package http
