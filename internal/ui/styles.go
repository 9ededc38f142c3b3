package ui

import "github.com/charmbracelet/lipgloss"

var (
	selectedColor = lipgloss.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = lipgloss.AdaptiveColor{Light: "#555", Dark: "#555"}
	errorColor    = lipgloss.AdaptiveColor{Light: "1", Dark: "9"}
	dimColor      = lipgloss.AdaptiveColor{Light: "#888", Dark: "#888"}

	selectedFg = lipgloss.NewStyle().Foreground(selectedColor)
	dimFg      = lipgloss.NewStyle().Foreground(dimColor)

	infoBarStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	paneBorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(borderColor)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true).
				Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(selectedColor).
			Padding(1, 2)
)
