package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rileyhilliard/pidash/internal/status"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary lipgloss.Color = "7" // White/default
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors are cycled by the spinner.
var GradientColors = []lipgloss.Color{
	lipgloss.Color("#FF2E97"),
	lipgloss.Color("#BF40FF"),
	lipgloss.Color("#00FFFF"),
	lipgloss.Color("#39FF14"),
}

var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	infoStyle    = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// DisableColors switches lipgloss to plain ASCII output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// bandColor maps a gauge band to a semantic color.
func bandColor(b status.Band) lipgloss.Color {
	switch b {
	case status.BandHigh:
		return ColorError
	case status.BandMedium:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// tempClassColor maps a temperature class to a semantic color.
func tempClassColor(class string) lipgloss.Color {
	switch class {
	case status.TempHot.Class():
		return ColorError
	case status.TempWarm.Class():
		return ColorWarning
	default:
		return ColorSuccess
	}
}
