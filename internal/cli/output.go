package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// printer writes command results in the selected output format. Table output
// is styled only when stdout is a terminal.
type printer struct {
	out    io.Writer
	format string
	styled bool
}

func newPrinter(cmd interface{ OutOrStdout() io.Writer }, format string) printer {
	out := cmd.OutOrStdout()
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return printer{out: out, format: strings.ToLower(format), styled: styled}
}

func (p printer) table() bool {
	return p.format == "" || p.format == "table"
}

// structured writes v as JSON or YAML.
func (p printer) structured(v any) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", p.format)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func (p printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p printer) header(title string) {
	_, _ = fmt.Fprintln(p.out, p.render(headerStyle, title))
}

func (p printer) muted(text string) {
	_, _ = fmt.Fprintln(p.out, p.render(mutedStyle, text))
}

// rows writes two-column rows with the first column padded to a common width.
// Multi-line values are indented under their first line.
func (p printer) rows(rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	indent := strings.Repeat(" ", width+2)
	for _, r := range rows {
		label := r[0] + strings.Repeat(" ", width-lipgloss.Width(r[0]))
		value := strings.ReplaceAll(strings.TrimRight(r[1], "\n"), "\n", "\n"+indent)
		_, _ = fmt.Fprintf(p.out, "%s  %s\n", p.render(keyStyle, label), value)
	}
}
