package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/partpick/internal/catalog"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.view == ViewLogs {
		b.WriteString(m.renderLogsTitle())
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	} else {
		b.WriteString(m.renderSearchBar())
		b.WriteString("\n")
		b.WriteString(m.renderPicker())
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the logo and connection state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	on := func(s lipgloss.Style) lipgloss.Style { return s.Background(bg) }
	sep := on(lipgloss.NewStyle()).Render("  ")

	parts := []string{on(styles.Logo).Render("partpick")}

	snap := m.snapshot
	switch {
	case snap.Connected:
		user := m.creds.Username()
		parts = append(parts, on(styles.SuccessText).Render("● connected"))
		if user != "" {
			parts = append(parts, on(styles.Text).Render(user))
		}
		if v := snap.Info["version"]; v != "" {
			parts = append(parts, on(styles.MutedText).Render("InvenTree "+v))
		}
	case snap.LastError != nil:
		parts = append(parts, on(styles.DangerText).Render("● offline"))
	default:
		parts = append(parts, on(styles.WarningText).Render("● connecting"))
	}

	if m.serverURL != "" {
		parts = append(parts, on(styles.FaintText).Render(m.serverURL))
	}
	if snap.SearchCount > 0 {
		parts = append(parts, on(styles.MutedText).Render(fmt.Sprintf("%d results", len(snap.Results))))
	}

	return styles.Header.
		Width(m.width).
		Render(truncate(strings.Join(parts, sep), max(m.width-2, 1)))
}

// renderSearchBar renders the search input.
func (m Model) renderSearchBar() string {
	input := m.searchInput.View()
	if m.focus != PaneSearch {
		input = m.theme.Styles().MutedText.Render(stripANSI(input))
	}
	return " " + truncate(input, max(m.width-2, 1))
}

// renderStatusBar renders the latest status message with the busy spinner.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(" ")

	if m.busy != "" {
		b.WriteString(styles.AccentText.Render(m.spinner.View() + m.busy + "..."))
		b.WriteString("  ")
	}

	if line, ok := m.snapshot.LastStatus(); ok {
		msg := strings.ReplaceAll(line.Message, "\n", " ")
		color := lipgloss.Color(m.theme.SeverityColor(line.Severity))
		b.WriteString(styles.FaintText.Render(line.Time.Format(time.TimeOnly) + " "))
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(msg))
		if line.Context != "" && line.Severity != catalog.SeverityStatusBar {
			b.WriteString(styles.FaintText.Render(" (" + line.Context + ")"))
		}
	} else if m.snapshot.LastError != nil {
		b.WriteString(styles.DangerText.Render(m.snapshot.LastError.Error()))
	}

	return truncate(b.String(), max(m.width, 1))
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return m.theme.Styles().Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}
