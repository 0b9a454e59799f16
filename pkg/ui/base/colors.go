package base

import "github.com/charmbracelet/lipgloss"

// ColorPalette is the colour scheme of the shell.
type ColorPalette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DarkPalette is the shell's default colour scheme.
var DarkPalette = ColorPalette{
	Primary:   lipgloss.Color("#7C3AED"),
	Secondary: lipgloss.Color("#06B6D4"),
	Accent:    lipgloss.Color("#10B981"),
	Error:     lipgloss.Color("#EF4444"),
	Muted:     lipgloss.Color("#94A3B8"),
}
