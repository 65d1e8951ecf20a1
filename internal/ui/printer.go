// Package ui renders CLI output: styled status lines and the download
// progress meter. The pipeline packages never print; everything the user
// sees goes through here.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Success prints a success message (green tick)
func Success(format string, a ...interface{}) {
	icon := SuccessStyle.Render("✓")
	fmt.Printf("%s %s\n", icon, fmt.Sprintf(format, a...))
}

// Error prints an error message (red cross)
func Error(format string, a ...interface{}) {
	icon := ErrorStyle.Render("✖")
	fmt.Printf("%s %s\n", icon, fmt.Sprintf(format, a...))
}

// Warning prints a warning message (yellow triangle)
func Warning(format string, a ...interface{}) {
	icon := lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render("⚠")
	fmt.Printf("%s %s\n", icon, fmt.Sprintf(format, a...))
}

// Info prints an informational message (blue i)
func Info(format string, a ...interface{}) {
	icon := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Render("ℹ")
	fmt.Printf("%s %s\n", icon, fmt.Sprintf(format, a...))
}
