package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	PrimaryColor = lipgloss.Color("#5F87FF") // Blue
	SuccessColor = lipgloss.Color("#04B575") // Green
	ErrorColor   = lipgloss.Color("#FF5F5F") // Red
	WarningColor = lipgloss.Color("#FFCC00") // Yellow
	SubtleColor  = lipgloss.Color("#626262") // Gray

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ToolStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	BarStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)
