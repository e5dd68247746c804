package toc

import (
	"regexp"
	"sort"
	"strings"
)

// tagRule maps a title vocabulary pattern to semantic tags.
type tagRule struct {
	re   *regexp.Regexp
	tags []string
}

var tagRules = []tagRule{
	{regexp.MustCompile(`\b(power|delivery|pd)\b`), []string{"power", "delivery"}},
	{regexp.MustCompile(`\b(message|communication|protocol)\b`), []string{"communication", "protocol"}},
	{regexp.MustCompile(`\b(cable|connector|plug)\b`), []string{"hardware", "cable"}},
	{regexp.MustCompile(`\b(voltage|current|electrical)\b`), []string{"electrical"}},
	{regexp.MustCompile(`\b(contract|negotiation|capability)\b`), []string{"negotiation", "contracts"}},
	{regexp.MustCompile(`\b(source|sink|provider|consumer)\b`), []string{"roles"}},
	{regexp.MustCompile(`\b(state|machine|transition)\b`), []string{"state_machine"}},
	{regexp.MustCompile(`\b(table|format|structure)\b`), []string{"data_structure"}},
	{regexp.MustCompile(`\b(error|exception|fault)\b`), []string{"error_handling"}},
	{regexp.MustCompile(`\b(test|compliance|certification)\b`), []string{"testing"}},
	{regexp.MustCompile(`\b(security|authentication|encryption)\b`), []string{"security"}},
	{regexp.MustCompile(`\b(appendix|reference|index)\b`), []string{"reference"}},
}

// tagsFor classifies an entry title against the fixed vocabulary table and
// adds structural tags for level extremes. The result is sorted so tag
// sets compare order-insensitively.
func tagsFor(title string, level int) []string {
	lower := strings.ToLower(title)
	set := make(map[string]struct{})

	for _, rule := range tagRules {
		if rule.re.MatchString(lower) {
			for _, t := range rule.tags {
				set[t] = struct{}{}
			}
		}
	}

	if level == 1 {
		set["chapter"] = struct{}{}
	} else if level >= 3 {
		set["subsection"] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
