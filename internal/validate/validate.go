// Package validate implements the cross-validation engine: it reconciles
// the ToC view and the section view of a document into coverage,
// consistency, and quality findings with aggregate statistics and a
// categorical verdict.
package validate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/specmill/specmill/internal/sections"
	"github.com/specmill/specmill/internal/toc"
)

// Status is the categorical quality verdict of a validation run.
type Status string

const (
	StatusExcellent Status = "Excellent"
	StatusGood      Status = "Good"
	StatusFair      Status = "Fair"
	StatusPoor      Status = "Poor"
)

// Severity grades a quality issue.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
)

// Comparison is the side-by-side record for one id present in both views.
type Comparison struct {
	SectionID     string               `json:"section_id"`
	TOCTitle      string               `json:"toc_title"`
	DocTitle      string               `json:"doc_title"`
	TOCPage       int                  `json:"toc_page"`
	DocPageStart  int                  `json:"doc_page_start"`
	DocPageEnd    *int                 `json:"doc_page_end"`
	TOCLevel      int                  `json:"toc_level"`
	DocLevel      int                  `json:"doc_level"`
	TOCParent     *string              `json:"toc_parent"`
	DocParent     *string              `json:"doc_parent"`
	TOCConfidence float64              `json:"toc_confidence"`
	DocConfidence float64              `json:"doc_confidence"`
	WordCount     int                  `json:"word_count"`
	ContentType   sections.ContentType `json:"content_type"`
	HasTables     bool                 `json:"has_tables"`
	HasFigures    bool                 `json:"has_figures"`
	Issues        string               `json:"issues"`
	Status        string               `json:"status"`
}

// MissingSection is a ToC entry with no corresponding document section.
type MissingSection struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	Page      int    `json:"page"`
	Level     int    `json:"level"`
	Issue     string `json:"issue"`
}

// ExtraSection is a document section with no corresponding ToC entry.
type ExtraSection struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	PageStart int    `json:"page_start"`
	Level     int    `json:"level"`
	Issue     string `json:"issue"`
}

// PageMismatch records disagreement between a ToC page and the section's
// actual start page.
type PageMismatch struct {
	SectionID    string `json:"section_id"`
	Title        string `json:"title"`
	TOCPage      int    `json:"toc_page"`
	DocumentPage int    `json:"document_page"`
	Difference   int    `json:"difference"`
	Issue        string `json:"issue"`
}

// QualityIssue flags a weak document section.
type QualityIssue struct {
	SectionID     string   `json:"section_id"`
	Title         string   `json:"title"`
	PageStart     int      `json:"page_start"`
	Confidence    float64  `json:"confidence"`
	WordCount     int      `json:"word_count"`
	ContentLength int      `json:"content_length"`
	Issues        string   `json:"issues"`
	Severity      Severity `json:"severity"`
}

// Statistics aggregates counts and rates over one validation run.
type Statistics struct {
	TOCSectionsCount        int            `json:"toc_sections_count"`
	DocumentSectionsCount   int            `json:"document_sections_count"`
	MatchedSectionsCount    int            `json:"matched_sections_count"`
	MissingSectionsCount    int            `json:"missing_sections_count"`
	ExtraSectionsCount      int            `json:"extra_sections_count"`
	PageMismatchesCount     int            `json:"page_mismatches_count"`
	QualityIssuesCount      int            `json:"quality_issues_count"`
	TOCMatchRate            float64        `json:"toc_match_rate"`
	DocumentMatchRate       float64        `json:"document_match_rate"`
	OverallMatchRate        float64        `json:"overall_match_rate"`
	TOCLevelDistribution    map[int]int    `json:"toc_level_distribution"`
	DocLevelDistribution    map[int]int    `json:"document_level_distribution"`
	ContentTypeDistribution map[string]int `json:"content_type_distribution"`
	AverageConfidence       float64        `json:"average_confidence_score"`
	AverageWordCount        float64        `json:"average_word_count"`
	TotalWordCount          int            `json:"total_word_count"`
	TotalTables             int            `json:"total_tables"`
	TotalFigures            int            `json:"total_figures"`
}

// Summary is the headline verdict of a validation run.
type Summary struct {
	Status           Status  `json:"status"`
	OverallMatchRate float64 `json:"overall_match_rate"`
	Text             string  `json:"text"`
	GeneratedAt      string  `json:"generated_at"`
}

// Result aggregates every validation finding. It is derived, read-only
// output; each run recomputes it from scratch.
type Result struct {
	Summary           Summary          `json:"summary"`
	SectionComparison []Comparison     `json:"section_comparison"`
	MissingSections   []MissingSection `json:"missing_sections"`
	ExtraSections     []ExtraSection   `json:"extra_sections"`
	PageMismatches    []PageMismatch   `json:"page_mismatches"`
	QualityIssues     []QualityIssue   `json:"quality_issues"`
	Statistics        Statistics       `json:"statistics"`
}

// Run validates ToC entries against document sections. It is a pure
// function of its inputs; every run always produces a complete Result,
// even when quality is poor.
func Run(docTitle string, entries []toc.Entry, secs []sections.Section) Result {
	tocMap := make(map[string]toc.Entry, len(entries))
	for _, e := range entries {
		tocMap[e.SectionID] = e
	}
	secMap := make(map[string]sections.Section, len(secs))
	for _, s := range secs {
		secMap[s.SectionID] = s
	}

	r := Result{
		MissingSections:   checkMissing(entries, secMap),
		ExtraSections:     checkExtra(secs, tocMap),
		PageMismatches:    checkPages(entries, secMap),
		SectionComparison: compareSections(entries, secMap),
		QualityIssues:     checkQuality(secs),
	}
	r.Statistics = computeStatistics(entries, secs, &r)
	r.Summary = summarize(docTitle, r.Statistics)
	return r
}

func checkMissing(entries []toc.Entry, secMap map[string]sections.Section) []MissingSection {
	var missing []MissingSection
	for _, e := range entries {
		if _, ok := secMap[e.SectionID]; !ok {
			missing = append(missing, MissingSection{
				SectionID: e.SectionID,
				Title:     e.Title,
				Page:      e.Page,
				Level:     e.Level,
				Issue:     "Missing from document sections",
			})
		}
	}
	return missing
}

func checkExtra(secs []sections.Section, tocMap map[string]toc.Entry) []ExtraSection {
	var extra []ExtraSection
	for _, s := range secs {
		if _, ok := tocMap[s.SectionID]; !ok {
			extra = append(extra, ExtraSection{
				SectionID: s.SectionID,
				Title:     s.Title,
				PageStart: s.PageStart,
				Level:     s.Level,
				Issue:     "Not found in ToC",
			})
		}
	}
	return extra
}

func checkPages(entries []toc.Entry, secMap map[string]sections.Section) []PageMismatch {
	var mismatches []PageMismatch
	for _, e := range entries {
		s, ok := secMap[e.SectionID]
		if !ok || e.Page == s.PageStart {
			continue
		}
		diff := e.Page - s.PageStart
		if diff < 0 {
			diff = -diff
		}
		mismatches = append(mismatches, PageMismatch{
			SectionID:    e.SectionID,
			Title:        e.Title,
			TOCPage:      e.Page,
			DocumentPage: s.PageStart,
			Difference:   diff,
			Issue:        "Page number mismatch",
		})
	}
	return mismatches
}

func compareSections(entries []toc.Entry, secMap map[string]sections.Section) []Comparison {
	var comparisons []Comparison
	for _, e := range entries {
		s, ok := secMap[e.SectionID]
		if !ok {
			continue
		}

		var issues []string
		if e.Level != s.Level {
			issues = append(issues, fmt.Sprintf("Level mismatch: ToC=%d, Doc=%d", e.Level, s.Level))
		}
		if !equalParent(e.ParentID, s.ParentID) {
			issues = append(issues, fmt.Sprintf("Parent mismatch: ToC=%s, Doc=%s",
				parentString(e.ParentID), parentString(s.ParentID)))
		}
		if strings.TrimSpace(e.Title) != strings.TrimSpace(s.Title) {
			issues = append(issues, "Title mismatch")
		}

		c := Comparison{
			SectionID:     e.SectionID,
			TOCTitle:      e.Title,
			DocTitle:      s.Title,
			TOCPage:       e.Page,
			DocPageStart:  s.PageStart,
			DocPageEnd:    s.PageEnd,
			TOCLevel:      e.Level,
			DocLevel:      s.Level,
			TOCParent:     e.ParentID,
			DocParent:     s.ParentID,
			TOCConfidence: e.Confidence,
			DocConfidence: s.Confidence,
			WordCount:     s.WordCount,
			ContentType:   s.ContentType,
			HasTables:     s.HasTables,
			HasFigures:    s.HasFigures,
			Issues:        "No issues",
			Status:        "OK",
		}
		if len(issues) > 0 {
			c.Issues = strings.Join(issues, "; ")
			c.Status = "Issues found"
		}
		comparisons = append(comparisons, c)
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].SectionID < comparisons[j].SectionID
	})
	return comparisons
}

func equalParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func parentString(p *string) string {
	if p == nil {
		return "none"
	}
	return *p
}

func checkQuality(secs []sections.Section) []QualityIssue {
	var out []QualityIssue
	for _, s := range secs {
		var issues []string

		if s.Confidence < 0.5 {
			issues = append(issues, fmt.Sprintf("Low confidence score: %.2f", s.Confidence))
		}
		if s.WordCount < 10 {
			issues = append(issues, fmt.Sprintf("Very short content: %d words", s.WordCount))
		}
		if strings.TrimSpace(s.Content) == "" {
			issues = append(issues, "Empty content")
		}
		if len(s.ExtractionNotes) > 0 {
			issues = append(issues, "Extraction warnings: "+strings.Join(s.ExtractionNotes, "; "))
		}
		if s.PageEnd != nil && *s.PageEnd < s.PageStart {
			issues = append(issues, "Invalid page range")
		}

		if len(issues) == 0 {
			continue
		}

		severity := SeverityMedium
		if s.Confidence < 0.3 || s.WordCount < 5 {
			severity = SeverityHigh
		}
		out = append(out, QualityIssue{
			SectionID:     s.SectionID,
			Title:         s.Title,
			PageStart:     s.PageStart,
			Confidence:    s.Confidence,
			WordCount:     s.WordCount,
			ContentLength: len(s.Content),
			Issues:        strings.Join(issues, "; "),
			Severity:      severity,
		})
	}
	return out
}

func computeStatistics(entries []toc.Entry, secs []sections.Section, r *Result) Statistics {
	stats := Statistics{
		TOCSectionsCount:        len(entries),
		DocumentSectionsCount:   len(secs),
		MatchedSectionsCount:    len(r.SectionComparison),
		MissingSectionsCount:    len(r.MissingSections),
		ExtraSectionsCount:      len(r.ExtraSections),
		PageMismatchesCount:     len(r.PageMismatches),
		QualityIssuesCount:      len(r.QualityIssues),
		TOCLevelDistribution:    make(map[int]int),
		DocLevelDistribution:    make(map[int]int),
		ContentTypeDistribution: make(map[string]int),
	}

	for _, e := range entries {
		stats.TOCLevelDistribution[e.Level]++
	}

	var confSum float64
	for _, s := range secs {
		stats.DocLevelDistribution[s.Level]++
		stats.ContentTypeDistribution[string(s.ContentType)]++
		confSum += s.Confidence
		stats.TotalWordCount += s.WordCount
		stats.TotalTables += s.TableCount
		stats.TotalFigures += s.FigureCount
	}
	if len(secs) > 0 {
		stats.AverageConfidence = confSum / float64(len(secs))
		stats.AverageWordCount = float64(stats.TotalWordCount) / float64(len(secs))
	}

	stats.TOCMatchRate = ratio(stats.MatchedSectionsCount, stats.TOCSectionsCount)
	stats.DocumentMatchRate = ratio(stats.MatchedSectionsCount, stats.DocumentSectionsCount)
	stats.OverallMatchRate = (stats.TOCMatchRate + stats.DocumentMatchRate) / 2

	return stats
}

func ratio(n, d int) float64 {
	if d < 1 {
		d = 1
	}
	return float64(n) / float64(d)
}

// summarize derives the categorical verdict from thresholds on match rate
// and quality issue count. A pure function of the statistics.
func summarize(docTitle string, stats Statistics) Summary {
	var status Status
	switch {
	case stats.OverallMatchRate >= 0.95 && stats.QualityIssuesCount == 0:
		status = StatusExcellent
	case stats.OverallMatchRate >= 0.85 && stats.QualityIssuesCount <= 2:
		status = StatusGood
	case stats.OverallMatchRate >= 0.70:
		status = StatusFair
	default:
		status = StatusPoor
	}

	text := fmt.Sprintf(
		"Validation summary for %s\n"+
			"Overall status: %s\n"+
			"Match rate: %.1f%%\n"+
			"ToC sections: %d, document sections: %d, matched: %d, missing: %d, extra: %d\n"+
			"Page mismatches: %d, quality issues: %d, average confidence: %.2f, total words: %d",
		docTitle, status, stats.OverallMatchRate*100,
		stats.TOCSectionsCount, stats.DocumentSectionsCount, stats.MatchedSectionsCount,
		stats.MissingSectionsCount, stats.ExtraSectionsCount,
		stats.PageMismatchesCount, stats.QualityIssuesCount,
		stats.AverageConfidence, stats.TotalWordCount,
	)

	return Summary{
		Status:           status,
		OverallMatchRate: stats.OverallMatchRate,
		Text:             text,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}
