package ui

import "github.com/charmbracelet/lipgloss"

// Accent and depth colors for comment nesting.
var (
	accent = lipgloss.Color("#00BFFF")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	MetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#828282"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(accent)
)
