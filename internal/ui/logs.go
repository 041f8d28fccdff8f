package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/partpick/internal/logging"
)

// renderLogsTitle renders the line above the log view.
func (m Model) renderLogsTitle() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log")
	if m.logFile != "" {
		title += " " + styles.FaintText.Render(m.logFile)
	}
	return " " + truncate(title, max(m.width-2, 1))
}

func (m Model) renderLogs() string {
	return FitHeight(m.logViewport.View(), m.contentHeight())
}

// updateLogViewport rebuilds the log view, following the tail when the view
// was already at the bottom.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	atBottom := m.logViewport.AtBottom()
	m.logViewport.SetContent(m.formatLogs())
	if atBottom {
		m.logViewport.GotoBottom()
	}
}

func (m Model) formatLogs() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render(m.logErr.Error())
	}
	if len(m.logEntries) == 0 {
		return styles.FaintText.Render("No log entries yet")
	}

	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, m.formatLogEntry(e))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatLogEntry(e logging.Entry) string {
	styles := m.theme.Styles()
	if e.Level == "" && e.Message == "" {
		return styles.FaintText.Render(e.Raw)
	}

	var b strings.Builder
	b.WriteString(styles.FaintText.Render(shortTime(e.Timestamp)))
	b.WriteString(" ")
	level := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.LevelColor(e.Level))).Width(5)
	b.WriteString(level.Render(e.Level))
	b.WriteString(" ")
	if e.Component != "" {
		b.WriteString(styles.InfoText.Render("[" + e.Component + "]"))
		b.WriteString(" ")
	}
	b.WriteString(styles.Text.Render(e.Message))
	if e.Stage != "" {
		b.WriteString(styles.MutedText.Render(" stage=" + e.Stage))
	}
	if e.Error != "" {
		b.WriteString(styles.DangerText.Render(" error=" + e.Error))
	}
	return b.String()
}

// shortTime reduces an ISO8601 timestamp to its clock part.
func shortTime(ts string) string {
	for _, layout := range []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339Nano} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Local().Format(time.TimeOnly)
		}
	}
	return ts
}
