package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"ysianalyzer/internal/errors"
	"ysianalyzer/pkg/contracts/domain"
)

// XLSXContentType is the MIME type of the raw-results workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultExportFilename is the download name of the raw-results workbook.
const DefaultExportFilename = "YSI_Analyzer_Raw_Results.xlsx"

// WorkbookWriter renders export sheets as an xlsx workbook. The workbook is
// saved to a scratch file, read back and the file removed before Write
// returns.
type WorkbookWriter struct {
	logger     *slog.Logger
	scratchDir string
}

// NewWorkbookWriter creates a writer using scratchDir for temporary files.
// An empty scratchDir means the system temp directory.
func NewWorkbookWriter(logger *slog.Logger, scratchDir string) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{
		logger:     logger.With(slog.String("component", "workbook_writer")),
		scratchDir: scratchDir,
	}
}

// Write builds the workbook, one worksheet per sheet in order, and returns
// its bytes. Zero sheets is errors.ErrEmptyResult.
func (w *WorkbookWriter) Write(ctx context.Context, sheets []domain.ExportSheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, errors.ErrEmptyResult
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.NewExportError("create header style", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return nil, errors.NewExportError("rename first sheet", err).WithContext("sheet", sheet.Name)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, errors.NewExportError("add sheet", err).WithContext("sheet", sheet.Name)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, errors.NewExportError("write sheet", err).WithContext("sheet", sheet.Name)
		}
	}
	f.SetActiveSheet(0)

	data, err := w.saveViaScratch(f)
	if err != nil {
		return nil, err
	}

	w.logger.InfoContext(ctx, "workbook written",
		slog.Int("sheets", len(sheets)),
		slog.Int("bytes", len(data)))
	return data, nil
}

func writeSheet(f *excelize.File, sheet domain.ExportSheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for i, row := range sheet.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	return sw.Flush()
}

func (w *WorkbookWriter) saveViaScratch(f *excelize.File) ([]byte, error) {
	if w.scratchDir != "" {
		if err := os.MkdirAll(w.scratchDir, 0755); err != nil {
			return nil, errors.NewStorageError("create scratch dir", err)
		}
	}

	tmp, err := os.CreateTemp(w.scratchDir, "ysi-export-*.xlsx")
	if err != nil {
		return nil, errors.NewStorageError("create scratch file", err)
	}
	path := tmp.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.logger.Warn("failed to remove scratch file",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return nil, errors.NewStorageError("save workbook", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.NewStorageError("close scratch file", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError("read scratch file", err)
	}
	return data, nil
}
