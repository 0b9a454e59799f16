package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	keywords = []string{
		"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "SHOW",
		"TABLE", "TABLES", "INDEX", "IF", "NOT", "EXISTS", "NULL",
		"STORAGE", "FORMAT",
	}

	typeNames = []string{
		"CHAR", "CHARS", "VARCHAR", "TEXT", "STRING", "INT", "INTS", "INTEGER",
		"FLOAT", "FLOATS", "DOUBLE", "REAL", "BOOL", "BOOLEAN", "BOOLEANS", "DATE", "DATES",
		"ROW", "PAX",
	}
)

// SQLHighlighter colours the echo of a submitted line in the shell history.
type SQLHighlighter struct {
	keywords     map[string]bool
	types        map[string]bool
	keywordStyle lipgloss.Style
	typeStyle    lipgloss.Style
	numberStyle  lipgloss.Style
	metaStyle    lipgloss.Style
}

// NewSQLHighlighter returns a highlighter with the default styles.
func NewSQLHighlighter() *SQLHighlighter {
	h := &SQLHighlighter{
		keywords: make(map[string]bool, len(keywords)),
		types:    make(map[string]bool, len(typeNames)),
	}
	for _, kw := range keywords {
		h.keywords[kw] = true
	}
	for _, tn := range typeNames {
		h.types[tn] = true
	}

	h.keywordStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF79C6")).
		Bold(true)

	h.typeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#8BE9FD"))

	h.numberStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#BD93F9"))

	h.metaStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFB86C")).
		Bold(true)

	return h
}

// Highlight styles each whitespace-separated word. Meta commands are styled
// as a whole.
func (h *SQLHighlighter) Highlight(line string) string {
	if strings.HasPrefix(line, `\`) {
		return h.metaStyle.Render(line)
	}

	words := strings.Fields(line)
	out := make([]string, 0, len(words))
	for _, word := range words {
		clean := strings.ToUpper(strings.TrimRight(word, ",;()"))
		if i := strings.IndexByte(clean, '('); i > 0 {
			clean = clean[:i]
		}

		switch {
		case h.keywords[clean]:
			out = append(out, h.keywordStyle.Render(word))
		case h.types[clean]:
			out = append(out, h.typeStyle.Render(word))
		case isNumeric(strings.Trim(word, ",;()")):
			out = append(out, h.numberStyle.Render(word))
		default:
			out = append(out, word)
		}
	}
	return strings.Join(out, " ")
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
