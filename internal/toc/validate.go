package toc

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateStructure checks a parsed entry list for structural problems:
// dangling parent references, page numbers that go backwards, low
// confidence entries, and duplicate section ids. These are advisory
// warnings; they never invalidate the parse.
func ValidateStructure(entries []Entry) []string {
	var warnings []string

	ids := make(map[string]int)
	for _, e := range entries {
		ids[e.SectionID]++
	}

	for _, e := range entries {
		if e.ParentID != nil {
			if _, ok := ids[*e.ParentID]; !ok {
				warnings = append(warnings,
					fmt.Sprintf("missing parent section %q for %q", *e.ParentID, e.SectionID))
			}
		}
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Page < entries[i-1].Page {
			warnings = append(warnings,
				fmt.Sprintf("page numbers out of sequence: %d -> %d", entries[i-1].Page, entries[i].Page))
		}
	}

	low := 0
	for _, e := range entries {
		if e.Confidence < 0.5 {
			low++
		}
	}
	if low > 0 {
		warnings = append(warnings, fmt.Sprintf("%d entries have low confidence scores", low))
	}

	var dups []string
	for id, count := range ids {
		if count > 1 {
			dups = append(dups, fmt.Sprintf("%s(%d)", id, count))
		}
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		warnings = append(warnings, "duplicate section ids found: "+strings.Join(dups, ", "))
	}

	return warnings
}
