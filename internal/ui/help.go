package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/partpick/internal/catalog"
)

// helpTitles names the columns of keyMap.FullHelp.
var helpTitles = []string{"Picker", "Navigation", "Detail", "View", "General"}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	groups := m.keys.FullHelp()
	for i, group := range groups {
		title := ""
		if i < len(helpTitles) {
			title = helpTitles[i]
		}
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		b.WriteString("\n")
		writeBindings(&b, group, m.theme)
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

func writeBindings(b *strings.Builder, bindings []key.Binding, theme Theme) {
	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Warning)).
		Width(12)
	descStyle := theme.Styles().Text
	for _, binding := range bindings {
		h := binding.Help()
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteString(descStyle.Render(h.Desc))
		b.WriteString("\n")
	}
}

// renderDialog renders an error or info status as a modal until a key is pressed.
func (m Model) renderDialog() string {
	styles := m.theme.Styles()
	line := m.dialog

	title := "Info"
	border := m.theme.Info
	if line.Severity == catalog.SeverityErrorDialog {
		title = "Error"
		border = m.theme.Danger
	}
	if line.Context != "" {
		title += " · " + line.Context
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(border)).Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(line.Message))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("press any key"))

	width := min(max(m.width/2, 40), max(m.width-4, 20))
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
