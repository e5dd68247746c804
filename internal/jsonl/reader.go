package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// maxLineBytes bounds a single JSONL line. Section content for large
// specs can run long, so this is generous.
const maxLineBytes = 16 * 1024 * 1024

// ReadTOC loads a ToC JSONL file written by WriteTOC.
func ReadTOC(path string) ([]TOCRecord, error) {
	return readAll[TOCRecord](path)
}

// ReadSections loads a section JSONL file written by WriteSections.
func ReadSections(path string) ([]SectionRecord, error) {
	return readAll[SectionRecord](path)
}

// ReadMetadata loads the run-metadata record.
func ReadMetadata(path string) (RunMetadata, error) {
	records, err := readAll[RunMetadata](path)
	if err != nil {
		return RunMetadata{}, err
	}
	if len(records) == 0 {
		return RunMetadata{}, fmt.Errorf("no metadata record in %s", path)
	}
	return records[0], nil
}

func readAll[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var out []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("failed to parse %s line %d: %w", path, lineNo, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return out, nil
}
