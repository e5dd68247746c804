package report

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestRenderWorkbook(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "report")
	r := NewRenderer(slog.Default())
	if err := r.Render(dir, testResult()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	f, err := excelize.OpenFile(filepath.Join(dir, FileWorkbook))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	t.Run("one sheet per concern", func(t *testing.T) {
		got := f.GetSheetList()
		want := []string{
			SheetSummary, SheetComparison, SheetMissing,
			SheetExtra, SheetMismatches, SheetQuality, SheetStatistics,
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d sheets, got %v", len(want), got)
		}
		for i, name := range want {
			if got[i] != name {
				t.Errorf("sheet %d: expected %s, got %s", i, name, got[i])
			}
		}
	})

	t.Run("summary sheet holds verdict", func(t *testing.T) {
		status, err := f.GetCellValue(SheetSummary, "B2")
		if err != nil {
			t.Fatalf("failed to read status cell: %v", err)
		}
		if status != "Good" {
			t.Errorf("expected status Good, got %q", status)
		}
		rate, err := f.GetCellValue(SheetSummary, "B3")
		if err != nil {
			t.Fatalf("failed to read rate cell: %v", err)
		}
		if rate != "0.9000" {
			t.Errorf("expected match rate 0.9000, got %q", rate)
		}
	})

	t.Run("comparison sheet mirrors csv table", func(t *testing.T) {
		rows, err := f.GetRows(SheetComparison)
		if err != nil {
			t.Fatalf("failed to read comparison sheet: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected header plus 1 row, got %d", len(rows))
		}
		if rows[0][0] != "section_id" {
			t.Errorf("unexpected header: %v", rows[0])
		}
		if rows[1][0] != "1" || rows[1][3] != "5" || rows[1][5] != "9" {
			t.Errorf("unexpected comparison row: %v", rows[1])
		}
	})

	t.Run("quality sheet carries severity", func(t *testing.T) {
		rows, err := f.GetRows(SheetQuality)
		if err != nil {
			t.Fatalf("failed to read quality sheet: %v", err)
		}
		if len(rows) != 2 || rows[1][7] != "High" {
			t.Errorf("unexpected quality rows: %v", rows)
		}
	})

	t.Run("empty concern still gets a header", func(t *testing.T) {
		rows, err := f.GetRows(SheetExtra)
		if err != nil {
			t.Fatalf("failed to read extras sheet: %v", err)
		}
		if len(rows) != 1 || rows[0][0] != "section_id" {
			t.Errorf("expected header-only extras sheet, got %v", rows)
		}
	})
}
