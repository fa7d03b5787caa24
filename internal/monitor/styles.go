package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/status"
)

// Dashboard color palette - Gen Z Electric Synthwave
const (
	// Background colors
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Band colors - neon style
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF") // Pure white
	ColorTextSecondary = lipgloss.Color("#B4B4D0") // Lavender gray
	ColorTextMuted     = lipgloss.Color("#6B6B8D") // Purple-gray

	// Accent colors - neon pink primary, purple secondary
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Chart series
	ColorSeriesCPU    = lipgloss.Color("#FF2E97") // Neon pink
	ColorSeriesMemory = lipgloss.Color("#00FFFF") // Neon cyan
	ColorSeriesTemp   = lipgloss.Color("#FFAA00") // Electric amber
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	StatusOnlineStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy)

	StatusOfflineStyle = lipgloss.NewStyle().
				Foreground(ColorCritical)

	StatusPausedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning)
)

// Connection indicator glyphs
const (
	StatusOnline  = "●"
	StatusOffline = "●"
	StatusPaused  = "◌"
)

// BandColor maps a gauge band to a palette color.
func BandColor(b status.Band) lipgloss.Color {
	switch b {
	case status.BandHigh:
		return ColorCritical
	case status.BandMedium:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// BandStyle returns a foreground style for the band of percent.
func BandStyle(percent float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(BandColor(status.ColorBand(percent)))
}

// TempClassColor maps a temperature class (temp-normal, temp-warm, temp-hot).
func TempClassColor(class string) lipgloss.Color {
	switch class {
	case status.TempHot.Class():
		return ColorCritical
	case status.TempWarm.Class():
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// ConnectionIndicator renders the status dot for the header.
func ConnectionIndicator(c dashboard.Connectivity, paused bool) string {
	switch {
	case paused:
		return StatusPausedStyle.Render(StatusPaused)
	case c == dashboard.Offline:
		return StatusOfflineStyle.Render(StatusOffline)
	default:
		return StatusOnlineStyle.Render(StatusOnline)
	}
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// "╭─ " + title + " " on the left, " " + value + " ╮" on the right
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╭─ ") +
		TitleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat("─", fillWidth)+" ") +
		value +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
// Format: ╰────────────────────────────────────────────────────╯
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	// "│ " on the left and " │" on the right
	padding := width - 4 - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// Section renders a full bordered block: header, content lines, footer.
func Section(title, value string, lines []string, width int) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		out = append(out, SectionContentLine(l, width))
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}

// KeyValue renders "label  value" with the label padded to labelWidth.
func KeyValue(label, value string, labelWidth int) string {
	pad := labelWidth - lipgloss.Width(label)
	if pad < 1 {
		pad = 1
	}
	return LabelStyle.Render(label) + strings.Repeat(" ", pad) + ValueStyle.Render(value)
}
