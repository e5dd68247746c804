package toc

import (
	"regexp"
	"strconv"
	"strings"
)

// MatcherKind identifies which pattern recognizer produced a candidate.
type MatcherKind string

const (
	// MatcherStandard matches plain numbered entries with dot leaders or
	// spacing: "2.1.2 Power Delivery Contract Negotiation ...... 53".
	MatcherStandard MatcherKind = "standard"
	// MatcherSpaced matches numbered entries with loose spacing and no
	// leaders: "2.1.2   Power Delivery Contract Negotiation 53".
	MatcherSpaced MatcherKind = "spaced"
	// MatcherAppendix matches "Appendix A: Message Format ...... 120".
	MatcherAppendix MatcherKind = "appendix"
	// MatcherChapter matches "Chapter 2: Power Delivery Overview ... 25".
	MatcherChapter MatcherKind = "chapter"
	// MatcherIndented matches indentation-marked subsections.
	MatcherIndented MatcherKind = "indented"
	// MatcherTableFigure matches caption-style list entries:
	// "Table 6-1: Message Header Format ...... 85".
	MatcherTableFigure MatcherKind = "table_figure"
	// MatcherReferences matches bare reference/bibliography/glossary
	// headers with a page number.
	MatcherReferences MatcherKind = "references"
)

// Candidate is the uniform intermediate record every matcher produces, so
// conflict resolution and validation work the same regardless of which
// recognizer fired.
type Candidate struct {
	Kind      MatcherKind
	Start     int // byte offset of the match in the scanned text
	End       int // byte offset one past the match
	SectionID string
	Title     string
	Page      int
	Raw       string
}

type matcher struct {
	kind MatcherKind
	re   *regexp.Regexp
	// build converts one regexp submatch into a candidate; a false return
	// drops the match (unparseable page number and the like).
	build func(groups []string) (id, title string, page int, ok bool)
}

func atoiPage(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

func threeGroup(groups []string) (string, string, int, bool) {
	page, ok := atoiPage(groups[3])
	return groups[1], strings.TrimSpace(groups[2]), page, ok
}

// matchers is the ordered recognizer library. The matchers run
// independently over the full text; precedence is settled later by
// position-based conflict resolution, not by this ordering.
var matchers = []matcher{
	{
		kind:  MatcherStandard,
		re:    regexp.MustCompile(`(?m)^(\d+(?:\.\d+)*)\s+([^.]+?)(?:\s*\.{2,}\s*|\s+)(\d+)\s*$`),
		build: threeGroup,
	},
	{
		kind:  MatcherSpaced,
		re:    regexp.MustCompile(`(?m)^(\d+(?:\.\d+)*)\s+([^0-9]+?)\s+(\d+)\s*$`),
		build: threeGroup,
	},
	{
		kind:  MatcherAppendix,
		re:    regexp.MustCompile(`(?mi)^(Appendix\s+[A-Z]+):?\s+([^.]+?)(?:\s*\.{2,}\s*|\s+)(\d+)\s*$`),
		build: threeGroup,
	},
	{
		kind:  MatcherChapter,
		re:    regexp.MustCompile(`(?mi)^(Chapter\s+\d+):?\s+([^.]+?)(?:\s*\.{2,}\s*|\s+)(\d+)\s*$`),
		build: threeGroup,
	},
	{
		kind:  MatcherIndented,
		re:    regexp.MustCompile(`(?m)^\s{2,}(\d+(?:\.\d+)+)\s+([^.]+?)(?:\s*\.{2,}\s*|\s+)(\d+)\s*$`),
		build: threeGroup,
	},
	{
		kind: MatcherTableFigure,
		re:   regexp.MustCompile(`(?mi)^(Table|Figure)\s+(\d+(?:[-.]\d+)*):?\s+([^.]+?)(?:\s*\.{2,}\s*|\s+)(\d+)\s*$`),
		build: func(groups []string) (string, string, int, bool) {
			page, ok := atoiPage(groups[4])
			return groups[1] + " " + groups[2], strings.TrimSpace(groups[3]), page, ok
		},
	},
	{
		kind: MatcherReferences,
		re:   regexp.MustCompile(`(?mi)^(References?|Bibliography|Index|Glossary)\s*(?:\s*\.{2,}\s*|\s+)(\d+)\s*$`),
		build: func(groups []string) (string, string, int, bool) {
			page, ok := atoiPage(groups[2])
			return "REF", strings.TrimSpace(groups[1]), page, ok
		},
	},
}

// pageBearing reports whether a matcher kind carries a section body page
// number subject to range/title validation. Caption and reference headers
// are exempt, matching their looser syntax.
func pageBearing(kind MatcherKind) bool {
	switch kind {
	case MatcherStandard, MatcherSpaced, MatcherAppendix, MatcherChapter, MatcherIndented:
		return true
	}
	return false
}
