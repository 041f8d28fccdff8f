package ui

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/partpick/internal/logging"
)

func TestDetailFields_Order(t *testing.T) {
	fields := map[string]string{
		"Resistance":       "10k Ohm",
		"Pk":               "7",
		"Notes":            "*fragile*",
		"Description":      "10k Resistor",
		"Tolerance":        "1 %",
		"Default Location": "Bin A",
		"Link":             "",
	}
	got := detailFields(fields)
	want := []string{"Description", "Default Location", "Link", "Pk", "Resistance", "Tolerance"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("detailFields = %v, want %v", got, want)
	}
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		count, cursor, height int
		start, end            int
	}{
		{0, 0, 5, 0, 0},
		{3, 2, 5, 0, 3},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 3, 7},
		{10, 9, 4, 6, 10},
		{10, 3, 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := visibleWindow(tt.count, tt.cursor, tt.height)
		if start != tt.start || end != tt.end {
			t.Fatalf("visibleWindow(%d, %d, %d) = %d,%d, want %d,%d",
				tt.count, tt.cursor, tt.height, start, end, tt.start, tt.end)
		}
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("hello world", 5); got != "hell…" {
		t.Fatalf("truncate = %q, want hell…", got)
	}
	if got := truncate("hi", 5); got != "hi" {
		t.Fatalf("truncate = %q, want hi", got)
	}
	if got := truncate("hello", 0); got != "" {
		t.Fatalf("truncate = %q, want empty", got)
	}
	if got := padToWidth("ab", 4); got != "ab  " {
		t.Fatalf("padToWidth = %q, want \"ab  \"", got)
	}
	if got := stripANSI("\x1b[31mred\x1b[0m"); got != "red" {
		t.Fatalf("stripANSI = %q, want red", got)
	}
}

func TestFitHeight(t *testing.T) {
	if got := FitHeight("a\nb\nc", 2); got != "a\nb" {
		t.Fatalf("FitHeight trim = %q", got)
	}
	if got := FitHeight("a", 3); got != "a\n\n" {
		t.Fatalf("FitHeight pad = %q", got)
	}
	if got := FitHeight("a", 0); got != "" {
		t.Fatalf("FitHeight zero = %q", got)
	}
}

func TestRenderSplitPane_FixedSize(t *testing.T) {
	out := RenderSplitPane("left one\nleft two", "right", 60, 4, "#ffffff")
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	left, right := splitWidths(60)
	for i, line := range lines {
		if w := lipgloss.Width(line); w != splitMargin+left+2+right {
			t.Fatalf("line %d width = %d, want %d", i, w, splitMargin+left+2+right)
		}
	}
	if !strings.Contains(lines[0], "left one") || !strings.Contains(lines[0], "right") {
		t.Fatalf("first line = %q", lines[0])
	}
}

func TestShortTime(t *testing.T) {
	oldLocal := time.Local
	time.Local = time.UTC
	defer func() {
		time.Local = oldLocal
	}()

	if got := shortTime("2025-12-13T10:11:12.345Z"); got != "10:11:12" {
		t.Fatalf("shortTime = %q, want 10:11:12", got)
	}
	if got := shortTime("yesterday"); got != "yesterday" {
		t.Fatalf("shortTime = %q, want input unchanged", got)
	}
}

func TestFormatLogEntry(t *testing.T) {
	m := Model{theme: GetTheme("Nightfox")}
	got := stripANSI(m.formatLogEntry(logging.Entry{
		Timestamp: "2025-12-13T10:11:12.000Z",
		Level:     "WARN",
		Message:   "stage failed",
		Component: "inventree",
		Stage:     "FetchToken",
		Error:     "status 401",
	}))
	for _, want := range []string{"WARN", "[inventree] stage failed", "stage=FetchToken", "error=status 401"} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatLogEntry = %q, want it to contain %q", got, want)
		}
	}
	if raw := stripANSI(m.formatLogEntry(logging.Entry{Raw: "plain text"})); raw != "plain text" {
		t.Fatalf("raw entry = %q", raw)
	}
}
