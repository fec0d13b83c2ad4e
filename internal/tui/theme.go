package tui

import "github.com/charmbracelet/lipgloss"

var (
	base     = lipgloss.Color("#1e1e2e")
	surface1 = lipgloss.Color("#45475a")
	text     = lipgloss.Color("#cdd6f4")
	subtext  = lipgloss.Color("#a6adc8")
	lavender = lipgloss.Color("#b4befe")
	green    = lipgloss.Color("#a6e3a1")
	peach    = lipgloss.Color("#fab387")
	red      = lipgloss.Color("#f38ba8")

	appStyle = lipgloss.NewStyle().
			Foreground(text).
			Padding(1, 2)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(surface1).
			Padding(1, 4).
			Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().Foreground(lavender).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(subtext)
	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(text)
	workStyle  = lipgloss.NewStyle().Foreground(peach).Bold(true)
	breakStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(red)
	barFill    = lipgloss.NewStyle().Foreground(lavender)
	barEmpty   = lipgloss.NewStyle().Foreground(surface1)
	flashStyle = lipgloss.NewStyle().Foreground(base).Background(green).Padding(0, 1)
)
