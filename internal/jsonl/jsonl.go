// Package jsonl serializes parser output as JSON Lines, one record per
// line, with every record validated against an embedded JSON Schema
// before it is written.
package jsonl

import (
	"bufio"
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/specmill/specmill/internal/sections"
	"github.com/specmill/specmill/internal/toc"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaTOCEntry        = "toc_entry.json"
	schemaDocumentSection = "document_section.json"
	schemaRunMetadata     = "run_metadata.json"
)

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// compiledSchema returns the named embedded schema, compiling the full
// set on first use.
func compiledSchema(name string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*jsonschema.Schema)
		for _, n := range []string{schemaTOCEntry, schemaDocumentSection, schemaRunMetadata} {
			raw, err := schemaFS.ReadFile("schemas/" + n)
			if err != nil {
				compileErr = fmt.Errorf("failed to read embedded schema %s: %w", n, err)
				return
			}
			compiler := jsonschema.NewCompiler()
			if err := compiler.AddResource(n, bytes.NewReader(raw)); err != nil {
				compileErr = fmt.Errorf("failed to load schema %s: %w", n, err)
				return
			}
			s, err := compiler.Compile(n)
			if err != nil {
				compileErr = fmt.Errorf("failed to compile schema %s: %w", n, err)
				return
			}
			compiled[n] = s
		}
	})
	if compileErr != nil {
		return nil, compileErr
	}
	return compiled[name], nil
}

// TOCRecord is one ToC entry line. DocTitle repeats on every record so
// each line is self-describing.
type TOCRecord struct {
	DocTitle string `json:"doc_title"`
	toc.Entry
}

// SectionRecord is one document section line.
type SectionRecord struct {
	DocTitle string `json:"doc_title"`
	sections.Section
}

// RunMetadata is the single-record run descriptor written alongside the
// ToC and section files.
type RunMetadata struct {
	RunID            string  `json:"run_id"`
	DocTitle         string  `json:"doc_title"`
	SourcePath       string  `json:"source_path"`
	Creator          *string `json:"creator"`
	Producer         *string `json:"producer"`
	CreationDate     *string `json:"creation_date"`
	ModDate          *string `json:"modification_date"`
	PDFVersion       *string `json:"pdf_version"`
	FileSize         int64   `json:"file_size"`
	StartedAt        string  `json:"started_at"`
	FinishedAt       string  `json:"finished_at"`
	DurationSeconds  float64 `json:"duration_seconds"`
	TotalPages       int     `json:"total_pages"`
	TOCEntries       int     `json:"toc_entries"`
	Sections         int     `json:"sections"`
	RecordsWritten   int     `json:"records_written"`
	SchemaViolations int     `json:"schema_violations"`
	OverallMatchRate float64 `json:"overall_match_rate"`
	OverallAccuracy  float64 `json:"overall_accuracy"`
	ValidationStatus string  `json:"validation_status"`
	ExtractionMethod string  `json:"extraction_method"`
}

// WriteStats counts records written and records rejected by schema
// validation during one write pass.
type WriteStats struct {
	Written int `json:"written"`
	Invalid int `json:"invalid"`
}

// Writer writes validated JSONL files.
type Writer struct {
	log *slog.Logger
}

func NewWriter(log *slog.Logger) *Writer {
	return &Writer{log: log.With("component", "jsonl")}
}

// WriteTOC writes entries to path, one JSON object per line. Records that
// fail schema validation are logged, counted, and skipped; the write
// continues.
func (w *Writer) WriteTOC(path, docTitle string, entries []toc.Entry) (WriteStats, error) {
	records := make([]any, len(entries))
	for i, e := range entries {
		records[i] = TOCRecord{DocTitle: docTitle, Entry: e}
	}
	return w.writeAll(path, schemaTOCEntry, records)
}

// WriteSections writes document sections to path as JSONL.
func (w *Writer) WriteSections(path, docTitle string, secs []sections.Section) (WriteStats, error) {
	records := make([]any, len(secs))
	for i, s := range secs {
		records[i] = SectionRecord{DocTitle: docTitle, Section: s}
	}
	return w.writeAll(path, schemaDocumentSection, records)
}

// WriteMetadata writes the single run-metadata record to path.
func (w *Writer) WriteMetadata(path string, meta RunMetadata) (WriteStats, error) {
	return w.writeAll(path, schemaRunMetadata, []any{meta})
}

func (w *Writer) writeAll(path, schemaName string, records []any) (WriteStats, error) {
	var stats WriteStats

	schema, err := compiledSchema(schemaName)
	if err != nil {
		return stats, err
	}

	f, err := os.Create(path)
	if err != nil {
		return stats, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return stats, fmt.Errorf("failed to marshal record: %w", err)
		}

		var decoded any
		if err := json.Unmarshal(line, &decoded); err != nil {
			return stats, fmt.Errorf("failed to decode record for validation: %w", err)
		}
		if err := schema.Validate(decoded); err != nil {
			stats.Invalid++
			w.log.Warn("record failed schema validation, skipping",
				"schema", schemaName,
				"error", err)
			continue
		}

		if _, err := bw.Write(line); err != nil {
			return stats, fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return stats, fmt.Errorf("failed to write %s: %w", path, err)
		}
		stats.Written++
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return stats, fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.log.Debug("jsonl file written",
		"path", path,
		"written", stats.Written,
		"invalid", stats.Invalid)
	return stats, nil
}
