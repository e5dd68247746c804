package toc

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestValidateStructure(t *testing.T) {
	t.Run("clean structure has no warnings", func(t *testing.T) {
		entries := []Entry{
			{SectionID: "1", Page: 5, Confidence: 0.9},
			{SectionID: "1.1", ParentID: strPtr("1"), Page: 6, Confidence: 0.9},
		}
		if warnings := ValidateStructure(entries); len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		entries := []Entry{
			{SectionID: "2.1", ParentID: strPtr("2"), Page: 10, Confidence: 0.9},
		}
		warnings := ValidateStructure(entries)
		if len(warnings) != 1 || !strings.Contains(warnings[0], "missing parent") {
			t.Errorf("expected missing parent warning, got %v", warnings)
		}
	})

	t.Run("pages out of sequence", func(t *testing.T) {
		entries := []Entry{
			{SectionID: "1", Page: 20, Confidence: 0.9},
			{SectionID: "2", Page: 10, Confidence: 0.9},
		}
		warnings := ValidateStructure(entries)
		if len(warnings) != 1 || !strings.Contains(warnings[0], "out of sequence") {
			t.Errorf("expected sequence warning, got %v", warnings)
		}
	})

	t.Run("low confidence entries", func(t *testing.T) {
		entries := []Entry{
			{SectionID: "1", Page: 5, Confidence: 0.2},
			{SectionID: "2", Page: 6, Confidence: 0.4},
		}
		warnings := ValidateStructure(entries)
		found := false
		for _, w := range warnings {
			if strings.Contains(w, "2 entries have low confidence") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected low confidence warning, got %v", warnings)
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		entries := []Entry{
			{SectionID: "REF", Page: 100, Confidence: 0.9},
			{SectionID: "REF", Page: 105, Confidence: 0.9},
		}
		warnings := ValidateStructure(entries)
		found := false
		for _, w := range warnings {
			if strings.Contains(w, "duplicate section ids") && strings.Contains(w, "REF(2)") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected duplicate id warning, got %v", warnings)
		}
	})
}
