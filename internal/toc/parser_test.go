package toc

import (
	"strings"
	"testing"

	"github.com/specmill/specmill/internal/config"
)

func newTestParser() *Parser {
	return NewParser(config.DefaultConfig().Heuristics, nil)
}

func TestParse_NumberedEntries(t *testing.T) {
	text := "Table of Contents\n\n" +
		"2 Overview .......... 15\n" +
		"2.1 Basics .......... 15\n" +
		"2.2 Scope .......... 22\n"

	p := newTestParser()
	entries, stats := p.Parse(text)

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantIDs := []string{"2", "2.1", "2.2"}
	wantLevels := []int{1, 2, 2}
	for i, e := range entries {
		if e.SectionID != wantIDs[i] {
			t.Errorf("entry %d: expected id %s, got %s", i, wantIDs[i], e.SectionID)
		}
		if e.Level != wantLevels[i] {
			t.Errorf("entry %d: expected level %d, got %d", i, wantLevels[i], e.Level)
		}
	}

	if entries[0].ParentID != nil {
		t.Errorf("expected no parent for top-level entry, got %v", *entries[0].ParentID)
	}
	for _, e := range entries[1:] {
		if e.ParentID == nil || *e.ParentID != "2" {
			t.Errorf("entry %s: expected parent 2, got %v", e.SectionID, e.ParentID)
		}
	}

	if entries[0].FullPath != "2 Overview" {
		t.Errorf("unexpected full path: %s", entries[0].FullPath)
	}
	if entries[2].Page != 22 {
		t.Errorf("expected page 22, got %d", entries[2].Page)
	}

	if stats.EntriesFound != 3 {
		t.Errorf("expected stats.EntriesFound 3, got %d", stats.EntriesFound)
	}
	if stats.MaxLevel != 2 {
		t.Errorf("expected max level 2, got %d", stats.MaxLevel)
	}
	if stats.PageRangeStart != 15 || stats.PageRangeEnd != 22 {
		t.Errorf("unexpected page range: %d-%d", stats.PageRangeStart, stats.PageRangeEnd)
	}
}

func TestParse_EntryConfidence(t *testing.T) {
	text := "2 Overview .......... 15\n"

	p := newTestParser()
	entries, _ := p.Parse(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	// Base 0.7, numeric id +0.2, page near center +0.1, title length +0.1,
	// clamped to 1.0.
	if entries[0].Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", entries[0].Confidence)
	}
}

func TestParse_MatcherKinds(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantID    string
		wantTitle string
		wantPage  int
		wantLevel int
	}{
		{
			name:      "standard with dot leaders",
			line:      "2.1.2 Contract Negotiation .......... 53",
			wantID:    "2.1.2",
			wantTitle: "Contract Negotiation",
			wantPage:  53,
			wantLevel: 3,
		},
		{
			name:      "spaced without leaders",
			line:      "3.4 Collision Avoidance 87",
			wantID:    "3.4",
			wantTitle: "Collision Avoidance",
			wantPage:  87,
			wantLevel: 2,
		},
		{
			name:      "appendix",
			line:      "Appendix A: Message Examples .......... 120",
			wantID:    "Appendix A",
			wantTitle: "Message Examples",
			wantPage:  120,
			wantLevel: 1,
		},
		{
			name:      "chapter",
			line:      "Chapter 2: Protocol Layer .......... 25",
			wantID:    "Chapter 2",
			wantTitle: "Protocol Layer",
			wantPage:  25,
			wantLevel: 1,
		},
		{
			name:      "table caption",
			line:      "Table 6-1: Message Header Format .......... 85",
			wantID:    "Table 6-1",
			wantTitle: "Message Header Format",
			wantPage:  85,
			wantLevel: 3,
		},
		{
			name:      "figure caption",
			line:      "Figure 4-2: Pin Layout .......... 44",
			wantID:    "Figure 4-2",
			wantTitle: "Pin Layout",
			wantPage:  44,
			wantLevel: 3,
		},
		{
			name:      "references",
			line:      "References .......... 130",
			wantID:    "REF",
			wantTitle: "References",
			wantPage:  130,
			wantLevel: 1,
		},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, _ := p.Parse(tt.line)
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			e := entries[0]
			if e.SectionID != tt.wantID {
				t.Errorf("expected id %q, got %q", tt.wantID, e.SectionID)
			}
			if e.Title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, e.Title)
			}
			if e.Page != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, e.Page)
			}
			if e.Level != tt.wantLevel {
				t.Errorf("expected level %d, got %d", tt.wantLevel, e.Level)
			}
		})
	}
}

func TestParse_ReferencesFullPath(t *testing.T) {
	p := newTestParser()
	entries, _ := p.Parse("Glossary .......... 140")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	// Reference entries use the bare title as path, no id prefix.
	if entries[0].FullPath != "Glossary" {
		t.Errorf("unexpected full path: %s", entries[0].FullPath)
	}
}

func TestParse_NoiseFiltering(t *testing.T) {
	text := "Table of Contents\n" +
		"Page\n" +
		"-----------\n" +
		"42\n" +
		"Copyright 2023 Example Corp\n" +
		"Revision 2.1\n" +
		"2.1 Basics .......... 15\n"

	p := newTestParser()
	entries, _ := p.Parse(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after noise filtering, got %d", len(entries))
	}
	if entries[0].SectionID != "2.1" {
		t.Errorf("expected id 2.1, got %s", entries[0].SectionID)
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"page number out of range", "3.1 Valid Title .......... 99999"},
		{"page number zero", "3.1 Valid Title .......... 0"},
		{"mostly non-alphabetic title", "5.2 @#$% ^&* .......... 40"},
		{"single character title", "5.3 X .......... 40"},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, _ := p.Parse(tt.line)
			if len(entries) != 0 {
				t.Errorf("expected garbage line to be rejected, got %d entries", len(entries))
			}
		})
	}
}

func TestParse_MultibyteTitleLength(t *testing.T) {
	// Title bounds count runes, not bytes. 150 Greek letters are 300
	// bytes but well within the 200-character limit.
	p := newTestParser()
	title := strings.Repeat("Σ", 150)
	entries, _ := p.Parse("3.1 " + title + " .......... 40")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry for multibyte title, got %d", len(entries))
	}
	if entries[0].Title != title {
		t.Errorf("title mangled: got %q", entries[0].Title)
	}

	// 201 runes is over the limit regardless of encoding.
	entries, _ = p.Parse("3.2 " + strings.Repeat("Σ", 201) + " .......... 41")
	if len(entries) != 0 {
		t.Errorf("expected over-long title to be rejected, got %d entries", len(entries))
	}
}

func TestParse_OverlapKeepsSingleEntry(t *testing.T) {
	// A numbered line with leaders matches both the standard and the
	// spaced recognizer over the same span. Only one entry survives.
	p := newTestParser()
	entries, stats := p.Parse("4.2 Timing Requirements .......... 61")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].SectionID != "4.2" {
		t.Errorf("expected id 4.2, got %s", entries[0].SectionID)
	}
	total := 0
	for _, n := range stats.PatternMatches {
		total += n
	}
	if total < 2 {
		t.Errorf("expected multiple raw matches before resolution, got %d", total)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	p := newTestParser()
	entries, stats := p.Parse("")
	if len(entries) != 0 {
		t.Errorf("expected no entries for empty input, got %d", len(entries))
	}
	if stats.EntriesFound != 0 {
		t.Errorf("expected EntriesFound 0, got %d", stats.EntriesFound)
	}
}

func TestParse_SortedOutput(t *testing.T) {
	// Entries deliberately out of order, with an appendix and a reference
	// header mixed in.
	text := "10 Late Chapter .......... 90\n" +
		"2 Early Chapter .......... 10\n" +
		"References .......... 95\n" +
		"Appendix A: Examples .......... 92\n" +
		"2.1 Early Detail .......... 12\n"

	p := newTestParser()
	entries, _ := p.Parse(text)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}

	wantOrder := []string{"2", "2.1", "10", "Appendix A", "REF"}
	for i, e := range entries {
		if e.SectionID != wantOrder[i] {
			t.Errorf("position %d: expected %s, got %s", i, wantOrder[i], e.SectionID)
		}
	}
}

func TestParse_Tags(t *testing.T) {
	p := newTestParser()

	t.Run("vocabulary tags", func(t *testing.T) {
		entries, _ := p.Parse("2.1.3 Power Delivery Contract .......... 30")
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		tags := entries[0].Tags
		for _, want := range []string{"power", "delivery", "contracts", "negotiation", "subsection"} {
			if !containsTag(tags, want) {
				t.Errorf("expected tag %q in %v", want, tags)
			}
		}
	})

	t.Run("chapter tag for top level", func(t *testing.T) {
		entries, _ := p.Parse("3 Electrical Requirements .......... 40")
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if !containsTag(entries[0].Tags, "chapter") {
			t.Errorf("expected chapter tag, got %v", entries[0].Tags)
		}
		if !containsTag(entries[0].Tags, "electrical") {
			t.Errorf("expected electrical tag, got %v", entries[0].Tags)
		}
	})
}

func containsTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func TestPreprocess(t *testing.T) {
	in := "  2.1\tBasics   here  \n\nContents\n"
	got := preprocess(in)
	if got != "2.1 Basics here" {
		t.Errorf("unexpected preprocess output: %q", got)
	}
	if strings.Contains(got, "\t") {
		t.Error("tabs should be normalized away")
	}
}
