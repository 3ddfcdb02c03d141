package exporter

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"ysianalyzer/internal/errors"
	"ysianalyzer/pkg/contracts/domain"
)

// Workbook is a finished raw-results download.
type Workbook struct {
	Filename    string
	ContentType string
	Data        []byte
	Sheets      []string
}

// Exporter builds the raw-results workbook for an analysis run.
type Exporter struct {
	logger   *slog.Logger
	writer   *WorkbookWriter
	filename string
}

// NewExporter creates an exporter. An empty filename means
// DefaultExportFilename.
func NewExporter(logger *slog.Logger, writer *WorkbookWriter, filename string) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if writer == nil {
		writer = NewWorkbookWriter(logger, "")
	}
	if filename == "" {
		filename = DefaultExportFilename
	}
	return &Exporter{
		logger:   logger.With(slog.String("component", "exporter")),
		writer:   writer,
		filename: filename,
	}
}

// Export writes one worksheet per chemistry of combined. It returns
// errors.ErrEmptyResult when no chemistry has matching raw rows.
func (e *Exporter) Export(ctx context.Context, plates []domain.PlateEntry, combined *domain.CombinedTable) (*Workbook, error) {
	sheets := BuildSheets(plates, combined)

	exported := lo.Map(sheets, func(s domain.ExportSheet, _ int) string { return s.Chemistry })
	for _, chemistry := range combined.Chemistries() {
		if !lo.Contains(exported, chemistry) {
			e.logger.DebugContext(ctx, "no raw rows for chemistry, sheet skipped",
				slog.String("chemistry", chemistry))
		}
	}

	if len(sheets) == 0 {
		return nil, errors.ErrEmptyResult
	}

	data, err := e.writer.Write(ctx, sheets)
	if err != nil {
		return nil, err
	}

	return &Workbook{
		Filename:    e.filename,
		ContentType: XLSXContentType,
		Data:        data,
		Sheets:      lo.Map(sheets, func(s domain.ExportSheet, _ int) string { return s.Name }),
	}, nil
}
