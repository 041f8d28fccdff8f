package catalog

import (
	"strings"
	"unicode"
)

// visibleAttributes lists the part fields shown in the detail view.
var visibleAttributes = map[string]struct{}{
	"description":        {},
	DefaultLocationField: {},
	"full_name":          {},
	"in_stock":           {},
	"link":               {},
	"notes":              {},
	"pk":                 {},
}

// VisibleAttribute reports whether a raw attribute name belongs in the detail map.
func VisibleAttribute(name string) bool {
	_, ok := visibleAttributes[name]
	return ok
}

// FormatName turns a wire field name into a display label: underscores become
// spaces and the first letter of every word is upper-cased.
func FormatName(text string) string {
	runes := []rune(strings.ReplaceAll(text, "_", " "))
	for i := range runes {
		if i == 0 || runes[i-1] == ' ' {
			runes[i] = unicode.ToUpper(runes[i])
		}
	}
	return string(runes)
}
