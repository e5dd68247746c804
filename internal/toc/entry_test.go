package toc

import "testing"

func TestLevelFor(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"2", 1},
		{"2.1", 2},
		{"2.1.4", 3},
		{"10.2.3.1", 4},
		{"Appendix A", 1},
		{"Chapter 3", 1},
		{"Table 6-1", 3},
		{"Figure 4-2", 3},
		{"REF", 1},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.id); got != tt.want {
			t.Errorf("LevelFor(%q) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestParentFor(t *testing.T) {
	t.Run("dotted numeric ids", func(t *testing.T) {
		tests := []struct {
			id   string
			want string
		}{
			{"2.1", "2"},
			{"2.1.4", "2.1"},
			{"10.2.3.1", "10.2.3"},
		}
		for _, tt := range tests {
			got := ParentFor(tt.id)
			if got == nil || *got != tt.want {
				t.Errorf("ParentFor(%q) = %v, want %s", tt.id, got, tt.want)
			}
		}
	})

	t.Run("top-level ids have no parent", func(t *testing.T) {
		for _, id := range []string{"2", "Appendix A", "Chapter 3", "REF"} {
			if got := ParentFor(id); got != nil {
				t.Errorf("ParentFor(%q) = %v, want nil", id, *got)
			}
		}
	})
}

func TestIsNumericID(t *testing.T) {
	valid := []string{"2", "2.1", "10.20.30"}
	for _, id := range valid {
		if !IsNumericID(id) {
			t.Errorf("expected %q to be numeric", id)
		}
	}
	invalid := []string{"Appendix A", "Table 6-1", "REF", "2.", ".1", "2.a"}
	for _, id := range invalid {
		if IsNumericID(id) {
			t.Errorf("expected %q to be non-numeric", id)
		}
	}
}

func TestLess_NumericOrder(t *testing.T) {
	// Numeric components compare as numbers, not strings: 2 before 10.
	a := Entry{SectionID: "2", Page: 5}
	b := Entry{SectionID: "10", Page: 5}
	if !Less(a, b) {
		t.Error("expected 2 to sort before 10")
	}
	if Less(b, a) {
		t.Error("expected 10 to sort after 2")
	}
}

func TestLess_PageFirst(t *testing.T) {
	a := Entry{SectionID: "9", Page: 3}
	b := Entry{SectionID: "1", Page: 7}
	if !Less(a, b) {
		t.Error("expected earlier page to sort first regardless of id")
	}
}

func TestLess_Bands(t *testing.T) {
	// Same page: numeric, then appendix, then references, then captions.
	ordered := []Entry{
		{SectionID: "3.2", Page: 50},
		{SectionID: "Appendix B", Page: 50},
		{SectionID: "REF", Page: 50},
		{SectionID: "Table 2-1", Page: 50},
	}
	for i := 0; i < len(ordered)-1; i++ {
		if !Less(ordered[i], ordered[i+1]) {
			t.Errorf("expected %s before %s", ordered[i].SectionID, ordered[i+1].SectionID)
		}
		if Less(ordered[i+1], ordered[i]) {
			t.Errorf("expected %s after %s", ordered[i+1].SectionID, ordered[i].SectionID)
		}
	}
}

func TestLess_DeepNesting(t *testing.T) {
	a := Entry{SectionID: "2.1.1.1.1.1", Page: 5}
	b := Entry{SectionID: "2.1.1.1.1.2", Page: 5}
	if !Less(a, b) {
		t.Error("expected deep siblings to compare on the last component")
	}
}
