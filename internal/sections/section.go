// Package sections implements the section boundary mapper: it walks ToC
// entries in page order, infers where each section's content ends,
// extracts and classifies the content, and scores confidence.
package sections

// ContentType classifies the dominant content of a section.
type ContentType string

const (
	ContentText         ContentType = "text"
	ContentTable        ContentType = "table"
	ContentFigure       ContentType = "figure"
	ContentCode         ContentType = "code"
	ContentProtocol     ContentType = "protocol"
	ContentStateMachine ContentType = "state_machine"
	ContentMixed        ContentType = "mixed"
)

// Section is the extracted document content backing one ToC entry.
type Section struct {
	SectionID       string      `json:"section_id"`
	Title           string      `json:"title"`
	PageStart       int         `json:"page_start"`
	PageEnd         *int        `json:"page_end"` // nil: extends to end of document
	Level           int         `json:"level"`
	ParentID        *string     `json:"parent_id"`
	FullPath        string      `json:"full_path"`
	Content         string      `json:"content"`
	ContentType     ContentType `json:"content_type"`
	HasTables       bool        `json:"has_tables"`
	HasFigures      bool        `json:"has_figures"`
	TableCount      int         `json:"table_count"`
	FigureCount     int         `json:"figure_count"`
	WordCount       int         `json:"word_count"`
	Tags            []string    `json:"tags"`
	Confidence      float64     `json:"confidence"`
	ExtractionNotes []string    `json:"extraction_notes"`
}

// ItemFailure records one entry whose section could not be constructed.
type ItemFailure struct {
	SectionID string `json:"section_id"`
	Reason    string `json:"reason"`
}

// Stats describes one mapping pass over the full entry list.
type Stats struct {
	Attempted               int            `json:"total_sections_attempted"`
	Parsed                  int            `json:"sections_parsed"`
	SuccessRate             float64        `json:"success_rate"`
	ExtractionErrors        int            `json:"extraction_errors"`
	AverageConfidence       float64        `json:"average_confidence"`
	TotalWordCount          int            `json:"total_word_count"`
	TotalTables             int            `json:"total_tables"`
	TotalFigures            int            `json:"total_figures"`
	ContentTypeDistribution map[string]int `json:"content_type_distribution"`
	LevelDistribution       map[int]int    `json:"level_distribution"`
	PagesWithContent        int            `json:"pages_with_content"`
	SectionsWithNotes       int            `json:"sections_with_notes"`
	Failures                []ItemFailure  `json:"failures,omitempty"`
}
