package sections

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/specmill/specmill/internal/config"
	"github.com/specmill/specmill/internal/corpus"
	"github.com/specmill/specmill/internal/toc"
)

// sectionHeaderPatterns recognize the start of any following section on a
// page, used to trim trailing content on a section's last page.
var sectionHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*(\d+(?:\.\d+)*)\s+([A-Z][^.]*)`),
	regexp.MustCompile(`(?m)^(\d+(?:\.\d+)*)\s+([A-Z][A-Za-z\s]+)`),
	regexp.MustCompile(`(?mi)^\s*(Chapter)\s+\d+`),
	regexp.MustCompile(`(?mi)^\s*(Appendix)\s+[A-Z]`),
}

// Mapper maps ToC entries onto document content.
type Mapper struct {
	heur config.Heuristics
	log  *slog.Logger
}

// NewMapper creates a mapper with the given heuristic constants.
func NewMapper(heur config.Heuristics, log *slog.Logger) *Mapper {
	if log == nil {
		log = slog.Default()
	}
	return &Mapper{heur: heur, log: log}
}

// Map builds one Section per ToC entry, processed in page order. A failed
// construction is logged, counted, and skipped; it never aborts the pass.
func (m *Mapper) Map(entries []toc.Entry, pages []corpus.PageRecord) ([]Section, Stats) {
	stats := Stats{
		ContentTypeDistribution: make(map[string]int),
		LevelDistribution:       make(map[int]int),
	}

	pageMap := make(map[int]corpus.PageRecord, len(pages))
	maxPage := 0
	for _, p := range pages {
		pageMap[p.PageNumber] = p
		if p.PageNumber > maxPage {
			maxPage = p.PageNumber
		}
	}

	ordered := make([]toc.Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Page < ordered[j].Page })

	stats.Attempted = len(ordered)
	var out []Section

	for i, entry := range ordered {
		endPage := endPageFor(ordered, i)

		section, err := m.buildSection(entry, endPage, pageMap, maxPage)
		if err != nil {
			m.log.Warn("failed to build section", "section_id", entry.SectionID, "error", err)
			stats.ExtractionErrors++
			stats.Failures = append(stats.Failures, ItemFailure{
				SectionID: entry.SectionID,
				Reason:    err.Error(),
			})
			continue
		}
		out = append(out, *section)
		stats.Parsed++
	}

	m.finishStats(&stats, out)
	m.log.Info("section mapping complete", "attempted", stats.Attempted, "parsed", stats.Parsed)
	return out, stats
}

// endPageFor infers where the section at index i ends: one page before
// the next entry at the same or a shallower level. Deeper entries are
// nested inside and skipped. No such entry means the section is
// open-ended.
func endPageFor(ordered []toc.Entry, i int) *int {
	level := ordered[i].Level
	for j := i + 1; j < len(ordered); j++ {
		if ordered[j].Level <= level {
			end := ordered[j].Page - 1
			return &end
		}
	}
	return nil
}

func (m *Mapper) buildSection(entry toc.Entry, endPage *int, pageMap map[int]corpus.PageRecord, maxPage int) (*Section, error) {
	if entry.Page < 1 {
		return nil, fmt.Errorf("invalid start page %d", entry.Page)
	}

	content := m.extractContent(entry, endPage, pageMap, maxPage)
	a := analyzeContent(content, m.heur)

	var notes []string
	if endPage == nil {
		notes = append(notes, "section continues to end of document")
	}
	if a.qualityRedFlags > 0 {
		notes = append(notes, "content quality indicators suggest extraction issues")
	}

	tags := make([]string, len(entry.Tags))
	copy(tags, entry.Tags)

	return &Section{
		SectionID:       entry.SectionID,
		Title:           entry.Title,
		PageStart:       entry.Page,
		PageEnd:         endPage,
		Level:           entry.Level,
		ParentID:        entry.ParentID,
		FullPath:        entry.FullPath,
		Content:         content,
		ContentType:     a.contentType,
		HasTables:       a.tableCount > 0,
		HasFigures:      a.figureCount > 0,
		TableCount:      a.tableCount,
		FigureCount:     a.figureCount,
		WordCount:       a.wordCount,
		Tags:            tags,
		Confidence:      m.confidence(entry, a),
		ExtractionNotes: notes,
	}, nil
}

// extractContent concatenates page text across the section's range,
// trimming leading content before the section header on the first page
// and trailing content after the next header on an explicit last page.
func (m *Mapper) extractContent(entry toc.Entry, endPage *int, pageMap map[int]corpus.PageRecord, maxPage int) string {
	actualEnd := maxPage
	if endPage != nil {
		actualEnd = *endPage
	}

	var parts []string
	for pageNum := entry.Page; pageNum <= actualEnd; pageNum++ {
		page, ok := pageMap[pageNum]
		if !ok {
			continue
		}
		text := page.Text

		if pageNum == entry.Page {
			text = trimToSectionStart(text, entry)
		}
		if pageNum == actualEnd && endPage != nil {
			text = trimAtNextHeader(text)
		}

		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}

// trimToSectionStart locates the section's own header on its first page
// and drops whatever precedes it. The full page is kept when no header
// form matches.
func trimToSectionStart(text string, entry toc.Entry) string {
	titlePrefix := entry.Title
	if len(titlePrefix) > 20 {
		titlePrefix = titlePrefix[:20]
	}
	patterns := []string{
		`(?mi)^\s*` + regexp.QuoteMeta(entry.SectionID) + `\s+` + regexp.QuoteMeta(titlePrefix),
		`(?mi)^\s*` + regexp.QuoteMeta(entry.SectionID) + `\s+([A-Z][^.]*)`,
		`(?mi)^` + regexp.QuoteMeta(entry.SectionID) + `\s`,
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if loc := re.FindStringIndex(text); loc != nil {
			return text[loc[0]:]
		}
	}
	return text
}

// trimAtNextHeader cuts page text at the first recognizable section
// header, which marks where the following section begins.
func trimAtNextHeader(text string) string {
	for _, re := range sectionHeaderPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			return text[:loc[0]]
		}
	}
	return text
}

// typeTitleKeywords associate a content type with title vocabulary that
// corroborates the classification.
var typeTitleKeywords = map[ContentType][]string{
	ContentTable:        {"table", "format", "structure"},
	ContentFigure:       {"figure", "diagram", "illustration"},
	ContentProtocol:     {"protocol", "message", "communication"},
	ContentStateMachine: {"state", "machine", "transition"},
	ContentCode:         {"format", "encoding", "field"},
}

// confidence scores one section: substantial content rewards at
// diminishing returns, very short sections and quality red flags
// penalize, a title matching the inferred content type rewards, and the
// result is averaged with the originating ToC entry's confidence.
func (m *Mapper) confidence(entry toc.Entry, a analysis) float64 {
	score := m.heur.SectionBaseConfidence

	if a.wordCount > 50 {
		score += math.Min(0.2, float64(a.wordCount)/500)
	} else {
		score -= 0.3
	}

	if a.qualityRedFlags == 0 {
		score += 0.2
	} else {
		score -= float64(a.qualityRedFlags) * 0.1
	}

	titleLower := strings.ToLower(entry.Title)
	for _, kw := range typeTitleKeywords[a.contentType] {
		if strings.Contains(titleLower, kw) {
			score += 0.1
			break
		}
	}

	score = (score + entry.Confidence) / 2

	return math.Max(0.0, math.Min(1.0, score))
}

func (m *Mapper) finishStats(stats *Stats, out []Section) {
	if stats.Attempted > 0 {
		stats.SuccessRate = float64(stats.Parsed) / float64(stats.Attempted)
	}
	if len(out) == 0 {
		return
	}

	var confSum float64
	covered := make(map[int]struct{})
	for _, s := range out {
		confSum += s.Confidence
		stats.TotalWordCount += s.WordCount
		stats.TotalTables += s.TableCount
		stats.TotalFigures += s.FigureCount
		stats.ContentTypeDistribution[string(s.ContentType)]++
		stats.LevelDistribution[s.Level]++
		if len(s.ExtractionNotes) > 0 {
			stats.SectionsWithNotes++
		}
		covered[s.PageStart] = struct{}{}
		if s.PageEnd != nil {
			for p := s.PageStart; p <= *s.PageEnd; p++ {
				covered[p] = struct{}{}
			}
		}
	}
	stats.AverageConfidence = confSum / float64(len(out))
	stats.PagesWithContent = len(covered)
}

// CrossCheck compares produced sections back against the originating ToC
// entries: ids missing on either side, page-start drift, and weak
// sections. Advisory only.
func CrossCheck(entries []toc.Entry, out []Section) []string {
	var warnings []string

	tocIDs := make(map[string]toc.Entry, len(entries))
	for _, e := range entries {
		tocIDs[e.SectionID] = e
	}
	secIDs := make(map[string]Section, len(out))
	for _, s := range out {
		secIDs[s.SectionID] = s
	}

	var missing []string
	for id := range tocIDs {
		if _, ok := secIDs[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		warnings = append(warnings, "missing document sections for toc entries: "+strings.Join(missing, ", "))
	}

	var extra []string
	for id := range secIDs {
		if _, ok := tocIDs[id]; !ok {
			extra = append(extra, id)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		warnings = append(warnings, "document sections not present in toc: "+strings.Join(extra, ", "))
	}

	for _, s := range out {
		if e, ok := tocIDs[s.SectionID]; ok && s.PageStart != e.Page {
			warnings = append(warnings,
				fmt.Sprintf("page mismatch for %s: toc=%d section=%d", s.SectionID, e.Page, s.PageStart))
		}
	}

	low, short := 0, 0
	for _, s := range out {
		if s.Confidence < 0.4 {
			low++
		}
		if s.WordCount < 10 {
			short++
		}
	}
	if low > 0 {
		warnings = append(warnings, fmt.Sprintf("%d sections have very low confidence scores", low))
	}
	if short > 0 {
		warnings = append(warnings, fmt.Sprintf("%d sections have very little content", short))
	}

	return warnings
}
