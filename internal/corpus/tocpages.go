package corpus

import (
	"regexp"
	"strings"
)

// tocIndicators are patterns whose presence on a page suggests it belongs
// to the table of contents.
var tocIndicators = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)\btable\s+of\s+contents\b`),
	regexp.MustCompile(`(?mi)\bcontents\b`),
	regexp.MustCompile(`(?mi)\btoc\b`),
	regexp.MustCompile(`(?m)^\s*\d+\.?\s+[A-Z]`),
	regexp.MustCompile(`(?m)^\s*\d+\.\d+\.?\s+`),
}

// trailing page reference like "........ 53" at end of line
var pageRefRe = regexp.MustCompile(`(?m)\.\s*\d+\s*$`)

// FindTOCPages scores every page for ToC likelihood and returns the page
// numbers (1-based) that clear the threshold. Pages score on indicator
// patterns, density of trailing page references, and short-line ratio.
func FindTOCPages(pages []PageRecord) []int {
	var tocPages []int

	for _, page := range pages {
		score := 0

		for _, re := range tocIndicators {
			if re.MatchString(page.Text) {
				score++
			}
		}

		if len(pageRefRe.FindAllString(page.Text, -1)) > 3 {
			score += 2
		}

		lines := strings.Split(page.Text, "\n")
		short := 0
		for _, line := range lines {
			n := len(strings.TrimSpace(line))
			if n > 10 && n < 80 {
				short++
			}
		}
		if len(lines) > 0 && float64(short)/float64(len(lines)) > 0.5 {
			score++
		}

		if score >= 2 {
			tocPages = append(tocPages, page.PageNumber)
		}
	}

	return tocPages
}

// TOCRange resolves the page range believed to hold the ToC. When no page
// scores as ToC it falls back to the first scanPages pages of the document.
func TOCRange(pages []PageRecord, scanPages int) (start, end int) {
	if scanPages <= 0 {
		scanPages = 10
	}
	tocPages := FindTOCPages(pages)
	if len(tocPages) == 0 {
		end = len(pages)
		if end > scanPages {
			end = scanPages
		}
		if end == 0 {
			return 0, 0
		}
		return 1, end
	}
	return tocPages[0], tocPages[len(tocPages)-1]
}

// RangeText concatenates the text of pages start..end inclusive (1-based).
func RangeText(pages []PageRecord, start, end int) string {
	var parts []string
	for _, p := range pages {
		if p.PageNumber >= start && p.PageNumber <= end {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
