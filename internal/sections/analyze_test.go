package sections

import (
	"strings"
	"testing"

	"github.com/specmill/specmill/internal/config"
)

func testHeur() config.Heuristics {
	return config.DefaultConfig().Heuristics
}

func TestAnalyzeContent_Empty(t *testing.T) {
	a := analyzeContent("", testHeur())
	if a.contentType != ContentText {
		t.Errorf("expected text type for empty content, got %s", a.contentType)
	}
	if a.qualityRedFlags != 1 {
		t.Errorf("expected 1 red flag for empty content, got %d", a.qualityRedFlags)
	}
}

func TestAnalyzeContent_Types(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ContentType
	}{
		{
			name:    "table content",
			content: "Pin assignments follow.\n| Pin | Name |\n| A1 | GND |\n| A2 | VBUS |",
			want:    ContentTable,
		},
		{
			name:    "figure content",
			content: "The layout is shown in Figure 3. See Figure 3 for pin placement details.",
			want:    ContentFigure,
		},
		{
			name:    "code content",
			content: "Header bytes: 0x1F 0xFF 0xA0. Byte 1: message type. Bit 0: reserved.",
			want:    ContentCode,
		},
		{
			name: "state machine content",
			content: "The state machine starts in State Idle. Transition from idle " +
				"happens on attach. Then go to state Active.",
			want: ContentStateMachine,
		},
		{
			name:    "plain text",
			content: strings.Repeat("plain prose without any indicators at all here ", 20),
			want:    ContentText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyzeContent(tt.content, testHeur())
			if a.contentType != tt.want {
				t.Errorf("expected %s, got %s", tt.want, a.contentType)
			}
		})
	}
}

func TestAnalyzeContent_Mixed(t *testing.T) {
	content := "Table 1-1: Capabilities\n" +
		"| Field | Value |\n" +
		"Figure 2-2: Flow\n" +
		"The sequence is shown in Figure 2.\n" +
		"Raw header: 0x01 0x02 0x03 0xFF\n"
	a := analyzeContent(content, testHeur())
	if a.contentType != ContentMixed {
		t.Errorf("expected mixed, got %s", a.contentType)
	}
}

func TestAnalyzeContent_RedFlags(t *testing.T) {
	t.Run("short content", func(t *testing.T) {
		a := analyzeContent("tiny", testHeur())
		// Under the word minimum and under the length minimum.
		if a.qualityRedFlags != 2 {
			t.Errorf("expected 2 red flags, got %d", a.qualityRedFlags)
		}
	})

	t.Run("clean content has none", func(t *testing.T) {
		content := strings.Repeat("reasonable body text with enough words in it ", 10)
		a := analyzeContent(content, testHeur())
		if a.qualityRedFlags != 0 {
			t.Errorf("expected no red flags, got %d", a.qualityRedFlags)
		}
	})

	t.Run("garbled characters", func(t *testing.T) {
		content := strings.Repeat("text ", 20) + strings.Repeat("Ã°â", 30)
		a := analyzeContent(content, testHeur())
		if a.qualityRedFlags == 0 {
			t.Error("expected a red flag for garbled content")
		}
	})
}

func TestAnalyzeContent_Counts(t *testing.T) {
	content := "Table 2-1: Pins\nThe wiring is shown in Figure 5. Values: 0xAA and 0xBB."
	a := analyzeContent(content, testHeur())
	if a.tableCount == 0 {
		t.Error("expected table indicators")
	}
	if a.figureCount == 0 {
		t.Error("expected figure indicators")
	}
	if a.codeCount != 2 {
		t.Errorf("expected 2 code indicators, got %d", a.codeCount)
	}
	if a.wordCount == 0 {
		t.Error("expected non-zero word count")
	}
}
