package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants for consistent spacing.
const (
	// Fixed rows: header, search bar, status bar, footer.
	chromeRows = 4
	// contentTop is the 1-based terminal row the split pane starts on.
	contentTop = 3

	splitMargin  = 2  // left margin of the split pane
	splitPercent = 40 // share of the width given to the results list
	splitBorder  = 3  // "│ " separator plus one column of slack

	maxImageRows = 12
	minDetailRow = 6 // detail text always keeps at least this many rows

	maxLogLines = 500
)

// splitWidths returns the left and right pane widths for a total width.
func splitWidths(total int) (left, right int) {
	left = (total - splitMargin) * splitPercent / 100
	right = total - splitMargin - left - splitBorder
	return max(left, 0), max(right, 0)
}

// RenderSplitPane renders a split pane with left and right content.
func RenderSplitPane(left, right string, totalWidth, totalHeight int, border string) string {
	leftWidth, rightWidth := splitWidths(totalWidth)

	leftLines := strings.Split(FitHeight(left, totalHeight), "\n")
	rightLines := strings.Split(FitHeight(right, totalHeight), "\n")

	margin := strings.Repeat(" ", splitMargin)
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color(border)).Render("│") + " "

	result := make([]string, 0, totalHeight)
	for i := 0; i < totalHeight; i++ {
		leftPadded := padToWidth(truncate(leftLines[i], leftWidth), leftWidth)
		rightPadded := padToWidth(truncate(rightLines[i], rightWidth), rightWidth)
		result = append(result, margin+leftPadded+sep+rightPadded)
	}
	return strings.Join(result, "\n")
}

// padToWidth pads a string with spaces to reach the target width.
// Uses lipgloss width calculation to handle ANSI escape codes.
func padToWidth(s string, width int) string {
	currentWidth := lipgloss.Width(s)
	if currentWidth >= width {
		return s
	}
	return s + strings.Repeat(" ", width-currentWidth)
}

// FitHeight pads or trims content to fit exact height.
func FitHeight(content string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) >= height {
		return strings.Join(lines[:height], "\n")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to width display cells, marking the cut with an ellipsis.
// Styled strings are measured by their visible width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(stripANSI(s))
	out := make([]rune, 0, width)
	w := 0
	for _, r := range runes {
		rw := lipgloss.Width(string(r))
		if w+rw > width-1 {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out) + "…"
}

// stripANSI removes CSI escape sequences.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inEscape:
			if c >= 0x40 && c <= 0x7e && c != '[' {
				inEscape = false
			}
		case c == 0x1b:
			inEscape = true
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// contentHeight is the number of rows the split pane or log view gets.
func (m Model) contentHeight() int {
	return max(m.height-chromeRows, 1)
}

// imageRows is the number of detail rows reserved for the image preview.
func (m Model) imageRows() int {
	if !m.imagesSupported || !m.showImages || m.imagePath == "" {
		return 0
	}
	h := m.contentHeight()
	rows := min(maxImageRows, h-minDetailRow)
	return max(rows, 0)
}

// imageBox returns the cell area the preview is scaled into.
func (m Model) imageBox() (int, int) {
	_, right := splitWidths(m.width)
	return right, m.imageRows()
}

// resize applies the terminal size to the widgets.
func (m *Model) resize() {
	_, right := splitWidths(m.width)
	m.detailViewport.Width = right
	m.detailViewport.Height = max(m.contentHeight()-m.imageRows(), 1)
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = m.contentHeight()
	m.searchInput.Width = max(m.width-8, 10)
	m.help.Width = m.width
}
