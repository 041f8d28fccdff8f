package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// notesCache keeps the last rendered notes; glamour is too slow to run on
// every frame.
type notesCache struct {
	text   string
	width  int
	theme  string
	output string
}

func (c *notesCache) reset() {
	*c = notesCache{}
}

// render returns text rendered as markdown, or the plain text if glamour fails.
func (c *notesCache) render(text string, width int, theme Theme) string {
	if c.output != "" && c.text == text && c.width == width && c.theme == theme.Name {
		return c.output
	}
	out, err := renderMarkdown(text, width, theme)
	if err != nil {
		out = text
	}
	*c = notesCache{text: text, width: width, theme: theme.Name, output: out}
	return out
}

func renderMarkdown(content string, width int, theme Theme) (string, error) {
	if width <= 0 {
		width = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(notesStyle(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.Trim(rendered, "\n"), nil
}

func notesStyle(t Theme) ansi.StyleConfig {
	text := strPtr(t.Text)
	muted := strPtr(t.Muted)
	accent := strPtr(t.Accent)

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: text},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted},
			Indent:         uintPtr(1),
			IndentToken:    strPtr("│ "),
		},
		Paragraph: ansi.StyleBlock{},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Color:       accent,
				Bold:        boolPtr(true),
			},
		},
		Strikethrough: ansi.StylePrimitive{CrossedOut: boolPtr(true)},
		Emph:          ansi.StylePrimitive{Italic: boolPtr(true)},
		Strong:        ansi.StylePrimitive{Bold: boolPtr(true)},
		HorizontalRule: ansi.StylePrimitive{
			Color:  muted,
			Format: "\n--------\n",
		},
		Item:        ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration: ansi.StylePrimitive{BlockPrefix: ". "},
		Task: ansi.StyleTask{
			Ticked:   "[x] ",
			Unticked: "[ ] ",
		},
		Link: ansi.StylePrimitive{
			Color:     muted,
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: accent,
			Bold:  boolPtr(true),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: "`", Suffix: "`", Color: accent},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: muted}},
		},
		Table: ansi.StyleTable{
			CenterSeparator: strPtr("┼"),
			ColumnSeparator: strPtr("│"),
			RowSeparator:    strPtr("─"),
		},
	}
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func uintPtr(v uint) *uint { return &v }
