// Package exporter produces the downloads of an analysis run.
//
// BuildSheets re-filters the raw instrument tables into one sheet per
// chemistry, WorkbookWriter renders those sheets as an xlsx workbook with
// excelize, and Exporter ties the two together. WriteSummaryCSV renders the
// combined summary table shown under the chart.
//
// Example usage:
//
//	exp := exporter.NewExporter(logger, exporter.NewWorkbookWriter(logger, scratchDir), "")
//	wb, err := exp.Export(ctx, plates, result.Combined)
//	if errors.Is(err, apperrors.ErrEmptyResult) {
//	    // nothing to download
//	}
package exporter
