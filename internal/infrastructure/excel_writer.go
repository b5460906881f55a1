package infrastructure

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"oppdash/internal/domain"
)

// DefaultSheetName is the worksheet every export lands in
const DefaultSheetName = "Dados"

// implements domain.SpreadsheetWriter interface
type ExcelWriter struct {
	sheetName string
}

func NewExcelWriter(sheetName string) *ExcelWriter {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &ExcelWriter{sheetName: sheetName}
}

// Write encodes the table as an xlsx workbook: header row first, then one row per record
func (w *ExcelWriter) Write(out io.Writer, table domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, w.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(w.sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i, err)
		}
		values := row
		if err := f.SetSheetRow(w.sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

// EmptyDate stands in for a missing date in exported cells
const EmptyDate = "—"

// implements domain.DateFormatter interface with a fixed layout
type DateFormatter struct {
	layout string
}

// NewDateFormatter formats as dd/MM/yyyy unless another layout is given
func NewDateFormatter(layout string) DateFormatter {
	if layout == "" {
		layout = "02/01/2006"
	}
	return DateFormatter{layout: layout}
}

func (d DateFormatter) Format(t time.Time) string {
	if t.IsZero() {
		return EmptyDate
	}
	layout := d.layout
	if layout == "" {
		layout = "02/01/2006"
	}
	return t.Format(layout)
}
