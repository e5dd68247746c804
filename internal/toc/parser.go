package toc

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/specmill/specmill/internal/config"
)

// Stats describes one ToC parse pass. It is returned by value alongside
// the entries; the parser keeps no run-spanning state.
type Stats struct {
	LinesProcessed    int            `json:"lines_processed"`
	EntriesFound      int            `json:"entries_found"`
	PatternMatches    map[string]int `json:"pattern_match_counts"`
	SuccessRate       float64        `json:"success_rate"`
	AverageConfidence float64        `json:"average_confidence"`
	MaxLevel          int            `json:"max_level"`
	LevelDistribution map[int]int    `json:"level_distribution"`
	PageRangeStart    int            `json:"page_range_start"`
	PageRangeEnd      int            `json:"page_range_end"`
}

// Parser recognizes ToC entries in raw text.
type Parser struct {
	heur config.Heuristics
	log  *slog.Logger
}

// NewParser creates a parser with the given heuristic constants.
func NewParser(heur config.Heuristics, log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{heur: heur, log: log}
}

// Parse runs the full recognition pass over raw ToC text: noise
// filtering, multi-pattern matching, conflict resolution, validation,
// entry construction, ordering, hierarchy, confidence and tags. Empty
// input yields an empty entry list, never an error; individual bad lines
// are dropped and counted.
func (p *Parser) Parse(text string) ([]Entry, Stats) {
	stats := Stats{
		PatternMatches:    make(map[string]int),
		LevelDistribution: make(map[int]int),
	}
	stats.LinesProcessed = len(strings.Split(text, "\n"))

	cleaned := preprocess(text)
	candidates := p.collectMatches(cleaned, &stats)
	accepted := p.resolveConflicts(candidates)

	entries := make([]Entry, 0, len(accepted))
	for _, c := range accepted {
		entries = append(entries, Entry{
			SectionID: c.SectionID,
			Title:     c.Title,
			Page:      c.Page,
			FullPath:  fullPath(c.SectionID, c.Title),
			RawLine:   c.Raw,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return Less(entries[i], entries[j]) })

	for i := range entries {
		entries[i].Level = LevelFor(entries[i].SectionID)
		entries[i].ParentID = ParentFor(entries[i].SectionID)
		entries[i].Confidence = p.confidence(entries[i])
		entries[i].Tags = tagsFor(entries[i].Title, entries[i].Level)
	}

	stats.EntriesFound = len(entries)
	if stats.LinesProcessed > 0 {
		stats.SuccessRate = float64(len(entries)) / float64(stats.LinesProcessed)
	}
	var confSum float64
	for _, e := range entries {
		confSum += e.Confidence
		stats.LevelDistribution[e.Level]++
		if e.Level > stats.MaxLevel {
			stats.MaxLevel = e.Level
		}
		if stats.PageRangeStart == 0 || e.Page < stats.PageRangeStart {
			stats.PageRangeStart = e.Page
		}
		if e.Page > stats.PageRangeEnd {
			stats.PageRangeEnd = e.Page
		}
	}
	if len(entries) > 0 {
		stats.AverageConfidence = confSum / float64(len(entries))
	}

	p.log.Info("toc parse complete",
		"entries", len(entries),
		"lines", stats.LinesProcessed,
		"avg_confidence", stats.AverageConfidence)

	return entries, stats
}

func fullPath(sectionID, title string) string {
	if sectionID == "REF" {
		return title
	}
	return sectionID + " " + title
}

// noisePatterns identify lines that are never ToC entries: bare headers,
// separators, standalone page numbers, boilerplate.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^table\s+of\s+contents\s*$`),
	regexp.MustCompile(`^contents\s*$`),
	regexp.MustCompile(`^page\s*$`),
	regexp.MustCompile(`^section\s*$`),
	regexp.MustCompile(`^\s*[-=_]{3,}\s*$`),
	regexp.MustCompile(`^\s*\d+\s*$`),
	regexp.MustCompile(`^copyright`),
	regexp.MustCompile(`^all\s+rights\s+reserved`),
	regexp.MustCompile(`^usb\s+implementers\s+forum`),
	regexp.MustCompile(`^\s*revision\s+\d`),
	regexp.MustCompile(`^\s*version\s+\d`),
}

var multiSpaceRe = regexp.MustCompile(` {2,}`)

func isNoiseLine(line string) bool {
	stripped := strings.ToLower(strings.TrimSpace(line))
	if stripped == "" {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(stripped) {
			return true
		}
	}
	return false
}

// preprocess drops noise lines and normalizes whitespace: tabs become
// spaces and runs of spaces collapse.
func preprocess(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if isNoiseLine(line) {
			continue
		}
		line = strings.ReplaceAll(line, "\t", "    ")
		line = multiSpaceRe.ReplaceAllString(strings.TrimSpace(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// collectMatches applies every recognizer independently over the cleaned
// text and tallies per-pattern match counts.
func (p *Parser) collectMatches(text string, stats *Stats) []Candidate {
	var all []Candidate
	for _, m := range matchers {
		for _, idx := range m.re.FindAllStringSubmatchIndex(text, -1) {
			groups := submatchStrings(text, idx)
			id, title, page, ok := m.build(groups)
			if !ok {
				continue
			}
			all = append(all, Candidate{
				Kind:      m.kind,
				Start:     idx[0],
				End:       idx[1],
				SectionID: id,
				Title:     title,
				Page:      page,
				Raw:       text[idx[0]:idx[1]],
			})
			stats.PatternMatches[string(m.kind)]++
		}
	}
	return all
}

func submatchStrings(text string, idx []int) []string {
	groups := make([]string, len(idx)/2)
	for i := 0; i < len(idx); i += 2 {
		if idx[i] >= 0 {
			groups[i/2] = text[idx[i]:idx[i+1]]
		}
	}
	return groups
}

// resolveConflicts sorts candidates by position and keeps the
// earliest-starting match of any span; later overlapping matches are
// discarded regardless of which pattern produced them. Survivors must
// also pass validation.
func (p *Parser) resolveConflicts(candidates []Candidate) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})

	var accepted []Candidate
	lastEnd := -1
	for _, c := range candidates {
		if c.Start <= lastEnd {
			continue
		}
		if !p.validCandidate(c) {
			continue
		}
		accepted = append(accepted, c)
		lastEnd = c.End
	}

	p.log.Debug("conflict resolution", "raw", len(candidates), "accepted", len(accepted))
	return accepted
}

// validCandidate rejects extraction garbage disguised as valid syntax:
// implausible page numbers, degenerate titles, titles that are mostly
// non-alphabetic.
func (p *Parser) validCandidate(c Candidate) bool {
	if !pageBearing(c.Kind) {
		return true
	}
	if c.Page < 1 || c.Page > p.heur.MaxPageNumber {
		return false
	}
	runes := []rune(c.Title)
	n := len(runes)
	if n < 2 || n > 200 {
		return false
	}
	alpha := 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	return float64(alpha) >= float64(n)*0.3
}

// confidence scores one entry: a base score, a bonus for well-formed
// dotted-numeric ids, a page-number closeness bonus that decays far from
// the typical body page, and title-length adjustments. Clamped to [0,1].
func (p *Parser) confidence(e Entry) float64 {
	score := p.heur.TOCBaseConfidence

	if IsNumericID(e.SectionID) {
		score += p.heur.NumericIDBonus
	}

	dist := math.Abs(float64(e.Page - p.heur.PageCenter))
	score += math.Min(0.1, math.Max(0, 1-dist/p.heur.PageDivisor))

	n := len(e.Title)
	if n >= p.heur.TitleBonusMin && n <= p.heur.TitleBonusMax {
		score += 0.1
	}
	if n < p.heur.TitlePenaltyMin || n > p.heur.TitlePenaltyMax {
		score -= 0.2
	}

	return math.Max(0.0, math.Min(1.0, score))
}
