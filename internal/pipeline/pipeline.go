// Package pipeline orchestrates a full parse run: page extraction, ToC
// recognition, section boundary mapping, cross-validation, and output
// rendering.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/specmill/specmill/internal/config"
	"github.com/specmill/specmill/internal/corpus"
	"github.com/specmill/specmill/internal/jsonl"
	"github.com/specmill/specmill/internal/report"
	"github.com/specmill/specmill/internal/sections"
	"github.com/specmill/specmill/internal/toc"
	"github.com/specmill/specmill/internal/validate"
)

// Output file names within a run directory.
const (
	FileTOCEntries = "toc_entries.jsonl"
	FileSections   = "document_sections.jsonl"
	FileMetadata   = "run_metadata.jsonl"
	ReportDirName  = "validation_report"
)

// RunSummary is the caller-facing result of one parse run.
type RunSummary struct {
	RunID            string   `json:"run_id" yaml:"run_id"`
	DocTitle         string   `json:"doc_title" yaml:"doc_title"`
	SourcePath       string   `json:"source_path" yaml:"source_path"`
	OutputDir        string   `json:"output_dir" yaml:"output_dir"`
	TotalPages       int      `json:"total_pages" yaml:"total_pages"`
	TOCEntries       int      `json:"toc_entries" yaml:"toc_entries"`
	Sections         int      `json:"sections" yaml:"sections"`
	RecordsWritten   int      `json:"records_written" yaml:"records_written"`
	SchemaViolations int      `json:"schema_violations" yaml:"schema_violations"`
	OverallMatchRate float64  `json:"overall_match_rate" yaml:"overall_match_rate"`
	OverallAccuracy  float64  `json:"overall_accuracy" yaml:"overall_accuracy"`
	ValidationStatus string   `json:"validation_status" yaml:"validation_status"`
	DurationSeconds  float64  `json:"duration_seconds" yaml:"duration_seconds"`
	Files            []string `json:"files" yaml:"files"`
	Warnings         []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Pipeline wires the parsing stages together under one configuration.
type Pipeline struct {
	cfg *config.Config
	log *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{cfg: cfg, log: log.With("component", "pipeline")}
}

// Run parses the PDF at pdfPath and writes all output under outDir.
// titleOverride replaces the document title derived from the file name
// when non-empty.
func (p *Pipeline) Run(ctx context.Context, pdfPath, outDir, titleOverride string) (*RunSummary, error) {
	started := time.Now()

	extractor, err := corpus.NewExtractor(pdfPath, p.log)
	if err != nil {
		return nil, err
	}

	info, err := extractor.DocumentInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read document info: %w", err)
	}
	if titleOverride != "" {
		info.Title = titleOverride
	}

	p.log.Info("starting parse run",
		"source", pdfPath,
		"title", info.Title,
		"pages", info.TotalPages)

	pages, err := extractor.ExtractPages(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("failed to extract pages: %w", err)
	}

	extractStats := corpus.ComputeStats(pages)
	p.log.Info("page extraction complete",
		"pages", extractStats.TotalPages,
		"success_rate", extractStats.SuccessRate,
		"avg_confidence", extractStats.AverageConfidence)

	summary, err := p.runFromPages(ctx, info, pdfPath, outDir, pages, started)
	if err != nil {
		return nil, err
	}
	summary.TotalPages = info.TotalPages
	return summary, nil
}

// runFromPages runs every stage downstream of page extraction. Sample
// runs enter here directly with synthetic pages.
func (p *Pipeline) runFromPages(ctx context.Context, info *corpus.DocumentInfo, sourcePath, outDir string, pages []corpus.PageRecord, started time.Time) (*RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docTitle := info.Title
	runID := uuid.NewString()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// ToC recognition
	start, end := corpus.TOCRange(pages, p.cfg.Defaults.TOCScanPages)
	tocText := corpus.RangeText(pages, start, end)
	parser := toc.NewParser(p.cfg.Heuristics, p.log)
	entries, tocStats := parser.Parse(tocText)
	p.log.Info("toc parsed",
		"entries", len(entries),
		"toc_pages", fmt.Sprintf("%d-%d", start, end),
		"success_rate", tocStats.SuccessRate,
		"max_level", tocStats.MaxLevel)

	structureWarnings := toc.ValidateStructure(entries)
	for _, w := range structureWarnings {
		p.log.Warn("toc structure", "issue", w)
	}

	// Section boundary mapping
	mapper := sections.NewMapper(p.cfg.Heuristics, p.log)
	secs, secStats := mapper.Map(entries, pages)
	p.log.Info("sections mapped",
		"sections", len(secs),
		"success_rate", secStats.SuccessRate,
		"extraction_errors", secStats.ExtractionErrors)

	crossWarnings := sections.CrossCheck(entries, secs)
	for _, w := range crossWarnings {
		p.log.Warn("section cross-check", "issue", w)
	}

	// Cross-validation
	result := validate.Run(docTitle, entries, secs)

	// Serialization
	writer := jsonl.NewWriter(p.log)
	summary := &RunSummary{
		RunID:            runID,
		DocTitle:         docTitle,
		SourcePath:       sourcePath,
		OutputDir:        outDir,
		TotalPages:       len(pages),
		TOCEntries:       len(entries),
		Sections:         len(secs),
		OverallMatchRate: result.Statistics.OverallMatchRate,
		OverallAccuracy:  overallAccuracy(result.Statistics),
		ValidationStatus: string(result.Summary.Status),
	}
	summary.Warnings = append(summary.Warnings, structureWarnings...)
	summary.Warnings = append(summary.Warnings, crossWarnings...)

	tocPath := filepath.Join(outDir, FileTOCEntries)
	tocWrite, err := writer.WriteTOC(tocPath, docTitle, entries)
	if err != nil {
		return nil, err
	}
	summary.Files = append(summary.Files, tocPath)

	secPath := filepath.Join(outDir, FileSections)
	secWrite, err := writer.WriteSections(secPath, docTitle, secs)
	if err != nil {
		return nil, err
	}
	summary.Files = append(summary.Files, secPath)

	summary.RecordsWritten = tocWrite.Written + secWrite.Written
	summary.SchemaViolations = tocWrite.Invalid + secWrite.Invalid
	if tocWrite.Invalid > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d ToC records failed schema validation", tocWrite.Invalid))
	}
	if secWrite.Invalid > 0 {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%d section records failed schema validation", secWrite.Invalid))
	}

	reportDir := filepath.Join(outDir, ReportDirName)
	renderer := report.NewRenderer(p.log)
	if err := renderer.Render(reportDir, result); err != nil {
		return nil, err
	}
	summary.Files = append(summary.Files, reportDir)

	finished := time.Now()
	summary.DurationSeconds = finished.Sub(started).Seconds()

	meta := jsonl.RunMetadata{
		RunID:            runID,
		DocTitle:         docTitle,
		SourcePath:       sourcePath,
		Creator:          info.Creator,
		Producer:         info.Producer,
		CreationDate:     info.CreationDate,
		ModDate:          info.ModDate,
		PDFVersion:       info.PDFVersion,
		FileSize:         info.FileSize,
		StartedAt:        started.UTC().Format(time.RFC3339),
		FinishedAt:       finished.UTC().Format(time.RFC3339),
		DurationSeconds:  summary.DurationSeconds,
		TotalPages:       len(pages),
		TOCEntries:       len(entries),
		Sections:         len(secs),
		RecordsWritten:   summary.RecordsWritten,
		SchemaViolations: summary.SchemaViolations,
		OverallMatchRate: result.Statistics.OverallMatchRate,
		OverallAccuracy:  summary.OverallAccuracy,
		ValidationStatus: string(result.Summary.Status),
		ExtractionMethod: extractionMethod(pages),
	}
	metaPath := filepath.Join(outDir, FileMetadata)
	metaWrite, err := writer.WriteMetadata(metaPath, meta)
	if err != nil {
		return nil, err
	}
	summary.RecordsWritten += metaWrite.Written
	summary.SchemaViolations += metaWrite.Invalid
	summary.Files = append(summary.Files, metaPath)

	p.log.Info("parse run complete",
		"run_id", runID,
		"status", summary.ValidationStatus,
		"match_rate", summary.OverallMatchRate,
		"accuracy", summary.OverallAccuracy,
		"duration", finished.Sub(started))

	return summary, nil
}

// overallAccuracy averages the structural match rate with the mean
// section confidence, landing a single headline number in [0, 1].
func overallAccuracy(stats validate.Statistics) float64 {
	acc := (stats.OverallMatchRate + stats.AverageConfidence) / 2
	if acc < 0 {
		return 0
	}
	if acc > 1 {
		return 1
	}
	return acc
}

// extractionMethod reports the dominant per-page extraction method.
func extractionMethod(pages []corpus.PageRecord) string {
	counts := make(map[string]int)
	for _, p := range pages {
		counts[p.Method]++
	}
	best, bestN := "none", 0
	for m, n := range counts {
		if n > bestN {
			best, bestN = m, n
		}
	}
	return best
}
