package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pidash/internal/window"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '⠀'

// Chart scale. Every series is drawn on 0-100, like the web chart's y axis.
const (
	chartMin = 0.0
	chartMax = 100.0
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// normalizeValue converts a value to the 0-1 range of the chart scale.
func normalizeValue(val float64) float64 {
	n := (val - chartMin) / (chartMax - chartMin)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3}, // Row 0: dots 1 and 4
	{1, 4}, // Row 1: dots 2 and 5
	{2, 5}, // Row 2: dots 3 and 6
	{6, 7}, // Row 3: dots 7 and 8
}

// RenderBrailleSparkline renders a series using braille characters.
// Each character holds 2 data points horizontally and 4 levels vertically.
// Short series are right-aligned so the newest point is always at the edge.
func RenderBrailleSparkline(data []float64, width, height int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		dotHeight := clampInt(int(normalizeValue(val)*float64(totalDots)+0.5), totalDots)
		// always show at least the baseline dot so zero readings are visible
		if dotHeight == 0 {
			dotHeight = 1
		}

		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}
		subCol := (i + horizOffset) % 2

		// Fill dots from bottom up
		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, 0, height)
	for _, row := range grid {
		lines = append(lines, style.Render(string(row)))
	}
	return strings.Join(lines, "\n")
}

// RenderMiniSparkline renders a single-row sparkline using block characters.
func RenderMiniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	resampled := data
	if len(data) > width {
		resampled = resampleData(data, width)
	}

	var result strings.Builder
	for _, val := range resampled {
		idx := clampInt(int(normalizeValue(val)*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}
	return result.String()
}

// chartSeries is one labeled line of the performance chart.
type chartSeries struct {
	label string
	unit  string
	color lipgloss.Color
	data  []float64
}

func seriesOf(s window.Series) []chartSeries {
	return []chartSeries{
		{label: "CPU", unit: "%", color: ColorSeriesCPU, data: s.CPU},
		{label: "Memory", unit: "%", color: ColorSeriesMemory, data: s.Memory},
		{label: "Temp", unit: "°C", color: ColorSeriesTemp, data: s.Temperature},
	}
}

// RenderChart draws the rolling window: one braille strip per series with
// its latest value, then a time axis. rowHeight 0 switches to one-row block
// sparklines for compact layouts.
func RenderChart(s window.Series, timeLayout string, width, rowHeight int) string {
	if s.Len() == 0 {
		return MutedStyle.Render("collecting samples...")
	}

	const labelWidth = 8
	const valueWidth = 9
	plotWidth := width - labelWidth - valueWidth
	if plotWidth < 4 {
		plotWidth = 4
	}

	var lines []string
	for _, cs := range seriesOf(s) {
		last := cs.data[len(cs.data)-1]
		label := lipgloss.NewStyle().Foreground(cs.color).Bold(true).Width(labelWidth).Render(cs.label)
		value := lipgloss.NewStyle().Width(valueWidth).Align(lipgloss.Right).Render(formatSeriesValue(last, cs.unit))

		if rowHeight <= 0 {
			spark := lipgloss.NewStyle().Foreground(cs.color).Render(RenderMiniSparkline(cs.data, plotWidth))
			lines = append(lines, label+padRight(spark, plotWidth)+value)
			continue
		}

		// braille holds two points per cell
		graph := RenderBrailleSparkline(cs.data, (plotWidth+1)/2, rowHeight, cs.color)
		rows := strings.Split(graph, "\n")
		for i, row := range rows {
			prefix := strings.Repeat(" ", labelWidth)
			suffix := ""
			if i == 0 {
				prefix = label
			}
			if i == len(rows)-1 {
				suffix = value
			}
			lines = append(lines, prefix+padRight(row, plotWidth)+suffix)
		}
	}

	lines = append(lines, strings.Repeat(" ", labelWidth)+timeAxis(s.Labels(timeLayout), plotWidth))
	return strings.Join(lines, "\n")
}

// timeAxis renders the oldest label on the left and the newest on the right.
func timeAxis(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	first, last := labels[0], labels[len(labels)-1]
	if len(labels) == 1 || lipgloss.Width(first)+lipgloss.Width(last)+1 > width {
		return MutedStyle.Render(padLeft(last, width))
	}
	gap := width - lipgloss.Width(first) - lipgloss.Width(last)
	return MutedStyle.Render(first + strings.Repeat(" ", gap) + last)
}

// formatSeriesValue renders one decimal at most: 42.0 -> "42", 42.25 -> "42.2".
func formatSeriesValue(v float64, unit string) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".") + unit
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

func padLeft(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	// Downsampling: use max within each bucket to preserve peaks
	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
