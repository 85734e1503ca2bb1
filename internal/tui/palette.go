package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent  = lipgloss.Color("#88C0D0")
	ColorSuccess = lipgloss.Color("#A3BE8C")
	ColorError   = lipgloss.Color("#BF616A")
)

var (
	waitStyle    = lipgloss.NewStyle().Foreground(ColorAccent)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
)

// Success renders msg in the success colour when color is set.
func Success(msg string, color bool) string {
	return render(successStyle, msg, color)
}

func Error(msg string, color bool) string {
	return render(errorStyle, msg, color)
}

func render(style lipgloss.Style, msg string, color bool) string {
	if !color {
		return msg
	}
	return style.Render(msg)
}
