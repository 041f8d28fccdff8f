package ui

import (
	"fmt"
	"strings"
)

// renderPicker renders the results list and detail pane side by side, with
// the kitty image, if any, drawn over the top of the detail pane.
func (m Model) renderPicker() string {
	height := m.contentHeight()
	left, _ := splitWidths(m.width)

	detail := m.detailViewport.View()
	if rows := m.imageRows(); rows > 0 {
		detail = strings.Repeat("\n", rows) + detail
	}

	var b strings.Builder
	if m.image != nil && m.showImages {
		col := splitMargin + left + 2 + 1
		b.WriteString("\x1b7") // save cursor
		fmt.Fprintf(&b, "\x1b[%d;%dH", contentTop, col)
		b.WriteString(m.image.Render())
		b.WriteString("\x1b8") // restore cursor
	}
	b.WriteString(RenderSplitPane(m.renderResults(height), detail, m.width, height, m.paneBorder()))
	return b.String()
}

func (m Model) paneBorder() string {
	if m.focus == PaneDetail || m.focus == PaneResults {
		return m.theme.BorderFocus
	}
	return m.theme.Border
}

// renderResults renders the visible window of search results around the cursor.
func (m Model) renderResults(height int) string {
	styles := m.theme.Styles()
	results := m.snapshot.Results
	left, _ := splitWidths(m.width)

	if len(results) == 0 {
		switch {
		case m.busy == "Searching":
			return styles.MutedText.Render("Searching...")
		case m.snapshot.SearchCount > 0:
			return styles.MutedText.Render("No parts found")
		case !m.snapshot.Connected:
			return styles.FaintText.Render("Not connected")
		default:
			return styles.FaintText.Render("Press / to search")
		}
	}

	start, end := visibleWindow(len(results), m.cursor, height)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		marker := "  "
		if i == m.selected {
			marker = "▸ "
		}
		text := results[i]
		if text == "" {
			text = "(no description)"
		}
		line := padToWidth(truncate(marker+text, left), left)
		switch {
		case i == m.cursor && m.focus == PaneResults:
			line = styles.Selected.Render(line)
		case i == m.cursor:
			line = styles.AccentText.Render(line)
		case i == m.selected:
			line = styles.Text.Bold(true).Render(line)
		default:
			line = styles.Text.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// visibleWindow returns the [start, end) range of rows to show so the cursor
// stays on screen.
func visibleWindow(count, cursor, height int) (int, int) {
	if height <= 0 || count == 0 {
		return 0, 0
	}
	if count <= height {
		return 0, count
	}
	start := cursor - height/2
	start = max(start, 0)
	start = min(start, count-height)
	return start, start + height
}
