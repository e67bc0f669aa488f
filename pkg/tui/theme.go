package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorPrimary = lipgloss.Color("#6B50FF")
	ColorAccent  = lipgloss.Color("#00FFB2")
	ColorWarning = lipgloss.Color("#E8FE96")
	ColorText    = lipgloss.Color("#DFDBDD")
	ColorMuted   = lipgloss.Color("#858392")
	ColorBorder  = lipgloss.Color("#3A3943")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorText).
			Width(14)

	StyleFocused = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleHint = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleCopied = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	StylePreview = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

const (
	cursorMark   = "▌"
	checkedBox   = "[x]"
	uncheckedBox = "[ ]"
)
