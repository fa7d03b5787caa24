package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pidash/internal/render"
)

// gaugeGlyphs quarter the gauge sweep, like a pie filling clockwise.
var gaugeGlyphs = []string{"○", "◔", "◑", "◕", "●"}

// GaugeGlyph picks the pie glyph nearest to a sweep in degrees (0-360).
func GaugeGlyph(degrees float64) string {
	switch {
	case degrees <= 0:
		return gaugeGlyphs[0]
	case degrees < 135:
		return gaugeGlyphs[1]
	case degrees < 225:
		return gaugeGlyphs[2]
	case degrees < 360:
		return gaugeGlyphs[3]
	default:
		return gaugeGlyphs[4]
	}
}

// GaugeBar renders a bracketless bar for g, colored by its band.
func GaugeBar(width int, g render.Gauge) string {
	if width < 1 {
		width = 1
	}

	frac := g.Fraction()
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac * float64(width))
	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return lipgloss.NewStyle().Foreground(BandColor(g.Band)).Render(bar)
}

// renderGauge renders one gauge line: glyph, bar, and the formatted value.
func renderGauge(g render.Gauge, value string, barWidth int) string {
	style := lipgloss.NewStyle().Foreground(BandColor(g.Band))
	return style.Render(GaugeGlyph(g.Degrees)) + " " +
		GaugeBar(barWidth, g) + " " +
		style.Bold(true).Render(value)
}
