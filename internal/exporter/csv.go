package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"ysianalyzer/pkg/contracts/domain"
)

// SummaryCSVFilename is the download name of the combined summary table.
const SummaryCSVFilename = "YSI_Analyzer_Summary.csv"

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records as CSV to w.
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// SummaryHeaders are the columns of the combined summary table.
var SummaryHeaders = []string{
	domain.HeaderChemistry,
	domain.HeaderMean,
	domain.HeaderStd,
	domain.HeaderExperiment,
	domain.HeaderWell,
	domain.HeaderSource,
}

// SummaryRecords flattens the combined table into text rows matching
// SummaryHeaders. Null statistics are blank.
func SummaryRecords(combined *domain.CombinedTable) [][]string {
	records := make([][]string, 0, combined.Len())
	if combined == nil {
		return records
	}
	for _, b := range combined.Blocks {
		records = append(records, []string{
			b.Chemistry,
			FormatConcentration(b.MeanConcentration),
			FormatConcentration(b.StdConcentration),
			b.Experiment,
			b.Well,
			string(b.Source),
		})
	}
	return records
}

// WriteSummaryCSV writes the combined table as CSV with a UTF-8 BOM.
func WriteSummaryCSV(w io.Writer, combined *domain.CombinedTable) error {
	return WriteCSV(w, WriteOptions{
		Headers:   SummaryHeaders,
		Records:   SummaryRecords(combined),
		BOMPrefix: true,
	})
}
