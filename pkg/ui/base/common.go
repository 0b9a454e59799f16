package base

import "github.com/mattn/go-runewidth"

const ellipsis = "..."

// TruncateString shortens s to at most maxWidth terminal cells, ending it
// with an ellipsis when there is room for one. Multi-byte and wide
// characters are never split.
func TruncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if maxWidth < len(ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// DisplayWidth is the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}
