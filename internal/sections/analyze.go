package sections

import (
	"regexp"
	"strings"

	"github.com/specmill/specmill/internal/config"
)

var tablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Table\s+\d+[-.]?\d*:`),
	regexp.MustCompile(`(?m)\|\s*[^|]+\s*\|`),
	regexp.MustCompile(`(?m)^\s*\+[-=]+\+`),
	regexp.MustCompile(`(?m)^\s*[-]{3,}`),
}

var figurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Figure\s+\d+[-.]?\d*:`),
	regexp.MustCompile(`(?i)Diagram\s+\d+`),
	regexp.MustCompile(`(?i)See\s+Figure\s+\d+`),
	regexp.MustCompile(`(?i)shown\s+in\s+Figure`),
}

var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`0x[0-9A-Fa-f]+`),
	regexp.MustCompile(`\b[01]{8,}\b`),
	regexp.MustCompile(`(?i)Byte\s+\d+:`),
	regexp.MustCompile(`(?i)Bit\s+\d+:`),
	regexp.MustCompile(`(?i)Field\s+Name\s*:\s*Value`),
}

var stateMachinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)State\s+\w+`),
	regexp.MustCompile(`(?i)Transition\s+from`),
	regexp.MustCompile(`(?i)when\s+.+\s+occurs`),
	regexp.MustCompile(`(?i)go\s+to\s+state`),
	regexp.MustCompile(`(?i)state\s+machine`),
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// analysis is the content profile of one section's extracted text.
type analysis struct {
	contentType     ContentType
	tableCount      int
	figureCount     int
	codeCount       int
	stateCount      int
	wordCount       int
	qualityRedFlags int
}

func countAll(patterns []*regexp.Regexp, content string) int {
	n := 0
	for _, re := range patterns {
		n += len(re.FindAllString(content, -1))
	}
	return n
}

// analyzeContent profiles section text: indicator counts for tables,
// figures, protocol/code and state machines, word count, and quality red
// flags (too few words, too little text, garbled characters).
func analyzeContent(content string, heur config.Heuristics) analysis {
	if strings.TrimSpace(content) == "" {
		return analysis{contentType: ContentText, qualityRedFlags: 1}
	}

	a := analysis{
		tableCount:  countAll(tablePatterns, content),
		figureCount: countAll(figurePatterns, content),
		codeCount:   countAll(codePatterns, content),
		stateCount:  countAll(stateMachinePatterns, content),
		wordCount:   len(wordRe.FindAllString(content, -1)),
	}

	a.contentType = decideContentType(a, heur)

	if a.wordCount < heur.MinWordCount {
		a.qualityRedFlags++
	}
	if len(strings.TrimSpace(content)) < heur.MinContentLength {
		a.qualityRedFlags++
	}
	nonASCII := 0
	for _, r := range content {
		if r > 127 {
			nonASCII++
		}
	}
	total := len([]rune(content))
	if total > 0 && float64(nonASCII)/float64(total) > heur.MaxNonASCIIRatio {
		a.qualityRedFlags++
	}

	return a
}

// decideContentType scores each candidate type and takes the highest.
// Table and figure score on any indicator presence; code, protocol and
// state-machine scale with indicator counts (capped); plain text scores
// from word count in fixed chunks. More than two simultaneously active
// types means mixed content.
func decideContentType(a analysis, heur config.Heuristics) ContentType {
	scoreCap := heur.TypeScoreCap
	scored := []struct {
		t     ContentType
		score int
	}{
		{ContentTable, boolScore(a.tableCount > 0)},
		{ContentFigure, boolScore(a.figureCount > 0)},
		{ContentCode, min(a.codeCount, scoreCap)},
		{ContentProtocol, min(a.codeCount, scoreCap)},
		{ContentStateMachine, min(a.stateCount*2, scoreCap)},
		{ContentText, min(a.wordCount/heur.TextChunkSize, scoreCap)},
	}

	active := 0
	for _, s := range scored {
		if s.score > heur.MixedTypeThreshold {
			active++
		}
	}
	if active > 2 {
		return ContentMixed
	}

	best := scored[0]
	for _, s := range scored[1:] {
		if s.score > best.score {
			best = s
		}
	}
	return best.t
}

func boolScore(b bool) int {
	if b {
		return 3
	}
	return 0
}
