package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/specmill/specmill/internal/validate"
)

// Workbook sheet names, in tab order.
const (
	SheetSummary    = "Summary"
	SheetComparison = "Section Comparison"
	SheetMissing    = "Missing Sections"
	SheetExtra      = "Extra Sections"
	SheetMismatches = "Page Mismatches"
	SheetQuality    = "Quality Issues"
	SheetStatistics = "Statistics"
)

const (
	headerFillColor = "4472C4"
	defaultColWidth = 16.0
)

// writeWorkbook renders the full result as one .xlsx workbook, one sheet
// per concern, mirroring the CSV tables.
func writeWorkbook(path string, result validate.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	if err := writeSummarySheet(f, result.Summary); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	sheets := []struct {
		name string
		t    table
	}{
		{SheetComparison, comparisonTable(result.SectionComparison)},
		{SheetMissing, missingTable(result.MissingSections)},
		{SheetExtra, extraTable(result.ExtraSections)},
		{SheetMismatches, mismatchTable(result.PageMismatches)},
		{SheetQuality, qualityTable(result.QualityIssues)},
		{SheetStatistics, statisticsTable(result.Statistics)},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.t); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}

	return f.SaveAs(path)
}

// writeSummarySheet lays out the headline verdict followed by the
// narrative summary text, one line per row.
func writeSummarySheet(f *excelize.File, s validate.Summary) error {
	t := table{
		header: []string{"field", "value"},
		rows: [][]string{
			{"status", string(s.Status)},
			{"overall_match_rate", formatFloat(s.OverallMatchRate)},
			{"generated_at", s.GeneratedAt},
		},
	}
	if err := writeSheet(f, SheetSummary, t); err != nil {
		return err
	}

	row := len(t.rows) + 3
	for _, line := range strings.Split(s.Text, "\n") {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSummary, cell, line); err != nil {
			return err
		}
		row++
	}
	return nil
}

// writeSheet fills one sheet from a table and styles its header row.
func writeSheet(f *excelize.File, name string, t table) error {
	if err := setRow(f, name, 1, t.header); err != nil {
		return err
	}
	for i, row := range t.rows {
		if err := setRow(f, name, i+2, row); err != nil {
			return err
		}
	}
	return styleHeader(f, name, len(t.header))
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func styleHeader(f *excelize.File, sheet string, cols int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	end, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", end, defaultColWidth)
}
