package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// notesLabel is the detail field rendered as markdown below the table.
const notesLabel = "Notes"

// leadingFields are shown first, in this order, when present.
var leadingFields = []string{"Description", "Default Location", "In Stock", "Full Name", "Link", "Pk"}

// detailFields returns the labels of fields in display order: the leading
// attribute labels first, then everything else alphabetically. Notes are
// rendered separately and left out.
func detailFields(fields map[string]string) []string {
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(leadingFields))
	for _, label := range leadingFields {
		if _, ok := fields[label]; ok {
			out = append(out, label)
			seen[label] = struct{}{}
		}
	}

	rest := make([]string, 0, len(fields))
	for label := range fields {
		if _, ok := seen[label]; ok || label == notesLabel {
			continue
		}
		rest = append(rest, label)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// updateDetailViewport rebuilds the detail pane content.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	m.resize()
	m.detailViewport.SetContent(m.renderDetail(m.detailViewport.Width))
}

func (m Model) renderDetail(width int) string {
	styles := m.theme.Styles()
	snap := m.snapshot

	if !snap.HasDetail {
		if len(snap.Results) > 0 {
			return styles.FaintText.Render("Press enter to show the selected part")
		}
		return ""
	}

	detail := snap.Detail
	var b strings.Builder

	title := detail.Name
	if title == "" {
		title = detail.Fields["Full Name"]
	}
	if title != "" {
		b.WriteString(styles.AccentText.Bold(true).Render(truncate(title, width)))
		b.WriteString("\n\n")
	}

	labels := detailFields(detail.Fields)
	labelWidth := 0
	for _, label := range labels {
		labelWidth = max(labelWidth, lipgloss.Width(label))
	}
	labelWidth = min(labelWidth, max(width/3, 8))
	labelStyle := styles.MutedText.Width(labelWidth + 2)
	valueWidth := max(width-labelWidth-2, 1)

	for _, label := range labels {
		value := strings.TrimSpace(detail.Fields[label])
		if value == "" {
			value = styles.FaintText.Render("-")
		}
		b.WriteString(labelStyle.Render(truncate(label, labelWidth)))
		b.WriteString(styles.Text.Width(valueWidth).Render(value))
		b.WriteString("\n")
	}

	if detail.ImagePath != "" && (!m.imagesSupported || !m.showImages) {
		b.WriteString(labelStyle.Render("Image"))
		b.WriteString(styles.FaintText.Render(truncate(detail.ImagePath, valueWidth)))
		b.WriteString("\n")
	}

	if notes := strings.TrimSpace(detail.Fields[notesLabel]); notes != "" {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render(notesLabel))
		b.WriteString("\n")
		b.WriteString(m.notes.render(notes, width, m.theme))
	}

	return b.String()
}
