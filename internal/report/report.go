// Package report renders validation results as a styled Excel workbook
// with one sheet per concern, plus the same tables as individual CSV
// files and a plain-text summary for tooling that prefers flat output.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/specmill/specmill/internal/validate"
)

// File names written under the report directory.
const (
	FileSummary           = "summary.txt"
	FileWorkbook          = "validation_report.xlsx"
	FileSectionComparison = "section_comparison.csv"
	FileMissingSections   = "missing_sections.csv"
	FileExtraSections     = "extra_sections.csv"
	FilePageMismatches    = "page_mismatches.csv"
	FileQualityIssues     = "quality_issues.csv"
	FileStatistics        = "statistics.csv"
)

// Renderer writes validation reports to disk.
type Renderer struct {
	log *slog.Logger
}

func NewRenderer(log *slog.Logger) *Renderer {
	return &Renderer{log: log.With("component", "report")}
}

// Render writes the full report set into dir, creating it if needed.
// Every file is written even when its section of the result is empty, so
// consumers can rely on a fixed file set.
func (r *Renderer) Render(dir string, result validate.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	writers := []struct {
		name string
		fn   func(string) error
	}{
		{FileSummary, func(p string) error { return writeSummary(p, result.Summary) }},
		{FileWorkbook, func(p string) error { return writeWorkbook(p, result) }},
		{FileSectionComparison, func(p string) error { return writeTableCSV(p, comparisonTable(result.SectionComparison)) }},
		{FileMissingSections, func(p string) error { return writeTableCSV(p, missingTable(result.MissingSections)) }},
		{FileExtraSections, func(p string) error { return writeTableCSV(p, extraTable(result.ExtraSections)) }},
		{FilePageMismatches, func(p string) error { return writeTableCSV(p, mismatchTable(result.PageMismatches)) }},
		{FileQualityIssues, func(p string) error { return writeTableCSV(p, qualityTable(result.QualityIssues)) }},
		{FileStatistics, func(p string) error { return writeTableCSV(p, statisticsTable(result.Statistics)) }},
	}
	for _, w := range writers {
		path := filepath.Join(dir, w.name)
		if err := w.fn(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", w.name, err)
		}
	}

	r.log.Info("validation report written",
		"dir", dir,
		"status", result.Summary.Status,
		"match_rate", result.Summary.OverallMatchRate)
	return nil
}

func writeSummary(path string, s validate.Summary) error {
	return os.WriteFile(path, []byte(s.Text+"\n"), 0o644)
}

// table is one report concern rendered as a header row plus data rows.
// The same tables back both the CSV files and the workbook sheets.
type table struct {
	header []string
	rows   [][]string
}

func writeTableCSV(path string, t table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func comparisonTable(comps []validate.Comparison) table {
	t := table{header: []string{
		"section_id", "toc_title", "doc_title", "toc_page", "doc_page_start",
		"doc_page_end", "toc_level", "doc_level", "toc_parent", "doc_parent",
		"toc_confidence", "doc_confidence", "word_count", "content_type",
		"has_tables", "has_figures", "issues", "status",
	}}
	for _, c := range comps {
		t.rows = append(t.rows, []string{
			c.SectionID, c.TOCTitle, c.DocTitle,
			strconv.Itoa(c.TOCPage), strconv.Itoa(c.DocPageStart),
			optionalInt(c.DocPageEnd),
			strconv.Itoa(c.TOCLevel), strconv.Itoa(c.DocLevel),
			optionalString(c.TOCParent), optionalString(c.DocParent),
			formatFloat(c.TOCConfidence), formatFloat(c.DocConfidence),
			strconv.Itoa(c.WordCount), string(c.ContentType),
			strconv.FormatBool(c.HasTables), strconv.FormatBool(c.HasFigures),
			c.Issues, c.Status,
		})
	}
	return t
}

func missingTable(missing []validate.MissingSection) table {
	t := table{header: []string{"section_id", "title", "page", "level", "issue"}}
	for _, m := range missing {
		t.rows = append(t.rows, []string{
			m.SectionID, m.Title, strconv.Itoa(m.Page), strconv.Itoa(m.Level), m.Issue,
		})
	}
	return t
}

func extraTable(extra []validate.ExtraSection) table {
	t := table{header: []string{"section_id", "title", "page_start", "level", "issue"}}
	for _, e := range extra {
		t.rows = append(t.rows, []string{
			e.SectionID, e.Title, strconv.Itoa(e.PageStart), strconv.Itoa(e.Level), e.Issue,
		})
	}
	return t
}

func mismatchTable(mismatches []validate.PageMismatch) table {
	t := table{header: []string{"section_id", "title", "toc_page", "document_page", "difference", "issue"}}
	for _, m := range mismatches {
		t.rows = append(t.rows, []string{
			m.SectionID, m.Title,
			strconv.Itoa(m.TOCPage), strconv.Itoa(m.DocumentPage),
			strconv.Itoa(m.Difference), m.Issue,
		})
	}
	return t
}

func qualityTable(issues []validate.QualityIssue) table {
	t := table{header: []string{
		"section_id", "title", "page_start", "confidence", "word_count",
		"content_length", "issues", "severity",
	}}
	for _, q := range issues {
		t.rows = append(t.rows, []string{
			q.SectionID, q.Title, strconv.Itoa(q.PageStart),
			formatFloat(q.Confidence), strconv.Itoa(q.WordCount),
			strconv.Itoa(q.ContentLength), q.Issues, string(q.Severity),
		})
	}
	return t
}

// statisticsTable flattens the statistics struct into metric/value rows,
// with distribution maps expanded one key per row in sorted order.
func statisticsTable(stats validate.Statistics) table {
	t := table{header: []string{"metric", "value"}}
	t.rows = [][]string{
		{"toc_sections_count", strconv.Itoa(stats.TOCSectionsCount)},
		{"document_sections_count", strconv.Itoa(stats.DocumentSectionsCount)},
		{"matched_sections_count", strconv.Itoa(stats.MatchedSectionsCount)},
		{"missing_sections_count", strconv.Itoa(stats.MissingSectionsCount)},
		{"extra_sections_count", strconv.Itoa(stats.ExtraSectionsCount)},
		{"page_mismatches_count", strconv.Itoa(stats.PageMismatchesCount)},
		{"quality_issues_count", strconv.Itoa(stats.QualityIssuesCount)},
		{"toc_match_rate", formatFloat(stats.TOCMatchRate)},
		{"document_match_rate", formatFloat(stats.DocumentMatchRate)},
		{"overall_match_rate", formatFloat(stats.OverallMatchRate)},
		{"average_confidence_score", formatFloat(stats.AverageConfidence)},
		{"average_word_count", formatFloat(stats.AverageWordCount)},
		{"total_word_count", strconv.Itoa(stats.TotalWordCount)},
		{"total_tables", strconv.Itoa(stats.TotalTables)},
		{"total_figures", strconv.Itoa(stats.TotalFigures)},
	}
	t.rows = append(t.rows, intDistRows("toc_level", stats.TOCLevelDistribution)...)
	t.rows = append(t.rows, intDistRows("document_level", stats.DocLevelDistribution)...)
	t.rows = append(t.rows, stringDistRows("content_type", stats.ContentTypeDistribution)...)
	return t
}

func intDistRows(prefix string, dist map[int]int) [][]string {
	keys := make([]int, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{
			fmt.Sprintf("%s_%d_count", prefix, k),
			strconv.Itoa(dist[k]),
		})
	}
	return rows
}

func stringDistRows(prefix string, dist map[string]int) [][]string {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{
			fmt.Sprintf("%s_%s_count", prefix, k),
			strconv.Itoa(dist[k]),
		})
	}
	return rows
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
