package util

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// TruncateText truncates s to maxLen terminal cells, appending "…" if truncated.
// Escape sequences and wide runes are measured by display width.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 || ansi.StringWidth(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "…")
}

// OneLine collapses every run of whitespace, newlines included, into a single space.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
