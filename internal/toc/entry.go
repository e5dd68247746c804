// Package toc implements the table-of-contents recognition engine: it
// scans raw ToC text with a library of pattern recognizers and produces
// ordered entries with inferred hierarchy, tags, and confidence.
package toc

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is one recognized line of a table of contents.
type Entry struct {
	SectionID  string   `json:"section_id"`
	Title      string   `json:"title"`
	Page       int      `json:"page"`
	Level      int      `json:"level"`
	ParentID   *string  `json:"parent_id"`
	FullPath   string   `json:"full_path"`
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
	RawLine    string   `json:"raw_line"`
}

var numericIDRe = regexp.MustCompile(`^\d+(\.\d+)*$`)

// IsNumericID reports whether a section id is a dotted numeric form.
func IsNumericID(id string) bool {
	return numericIDRe.MatchString(id)
}

// LevelFor derives the hierarchical level from a section id. Numeric ids
// count dotted components; appendix, chapter and reference forms are top
// level; table and figure captions sit below body subsections.
func LevelFor(sectionID string) int {
	switch {
	case hasPrefixFold(sectionID, "Appendix"):
		return 1
	case hasPrefixFold(sectionID, "Chapter"):
		return 1
	case strings.HasPrefix(sectionID, "Table"), strings.HasPrefix(sectionID, "Figure"):
		return 3
	case sectionID == "REF":
		return 1
	case IsNumericID(sectionID):
		return strings.Count(sectionID, ".") + 1
	}
	return 1
}

// ParentFor derives the parent id of a section, or nil for top-level
// entries. Only dotted numeric ids have parents: the id with its last
// component removed.
func ParentFor(sectionID string) *string {
	if hasPrefixFold(sectionID, "Appendix") || hasPrefixFold(sectionID, "Chapter") || sectionID == "REF" {
		return nil
	}
	if IsNumericID(sectionID) && strings.Contains(sectionID, ".") {
		parts := strings.Split(sectionID, ".")
		parent := strings.Join(parts[:len(parts)-1], ".")
		return &parent
	}
	return nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// sortKeyDepth is the fixed depth numeric sort keys are padded to.
const sortKeyDepth = 6

// Priority bands for non-numeric section ids. Numeric ids use band 0 so
// the main body sorts first, appendices next, references after those, and
// caption entries last within their local context.
const (
	bandNumeric     = 0
	bandAppendix    = 1000
	bandReferences  = 2000
	bandTableFigure = 3000
	bandOther       = 5000
)

// sortKey is a comparable hierarchy key for a section id.
type sortKey struct {
	band int
	nums [sortKeyDepth]int
	str  string
}

func keyFor(sectionID string) sortKey {
	switch {
	case hasPrefixFold(sectionID, "Appendix"):
		return sortKey{band: bandAppendix, str: sectionID}
	case sectionID == "REF":
		return sortKey{band: bandReferences, str: sectionID}
	case strings.HasPrefix(sectionID, "Table"), strings.HasPrefix(sectionID, "Figure"):
		return sortKey{band: bandTableFigure, str: sectionID}
	case IsNumericID(sectionID):
		k := sortKey{band: bandNumeric}
		for i, part := range strings.Split(sectionID, ".") {
			if i >= sortKeyDepth {
				break
			}
			n, _ := strconv.Atoi(part)
			k.nums[i] = n
		}
		return k
	}
	return sortKey{band: bandOther, str: sectionID}
}

func (k sortKey) less(o sortKey) bool {
	if k.band != o.band {
		return k.band < o.band
	}
	if k.nums != o.nums {
		for i := 0; i < sortKeyDepth; i++ {
			if k.nums[i] != o.nums[i] {
				return k.nums[i] < o.nums[i]
			}
		}
	}
	return k.str < o.str
}

// Less defines the total entry order: page ascending, then the
// hierarchical key of the section id.
func Less(a, b Entry) bool {
	if a.Page != b.Page {
		return a.Page < b.Page
	}
	return keyFor(a.SectionID).less(keyFor(b.SectionID))
}
