package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pidash/internal/window"
)

func init() {
	// Plain output so assertions can match glyphs without ANSI codes
	lipgloss.SetColorProfile(termenv.Ascii)
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

func seriesOfPoints(points ...[3]float64) window.Series {
	buf := window.New(window.DefaultCapacity)
	for i, p := range points {
		buf.Append(t0.Add(time.Duration(i)*5*time.Second), p[0], p[1], p[2])
	}
	return buf.Snapshot()
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		val  float64
		want float64
	}{
		{name: "zero", val: 0, want: 0},
		{name: "middle", val: 50, want: 0.5},
		{name: "top", val: 100, want: 1},
		{name: "above scale clamps", val: 130, want: 1},
		{name: "below scale clamps", val: -5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizeValue(tt.val), 0.001)
		})
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		name string
		val  int
		max  int
		want int
	}{
		{name: "within range", val: 5, max: 10, want: 5},
		{name: "at max", val: 10, max: 10, want: 10},
		{name: "over max", val: 15, max: 10, want: 10},
		{name: "negative clamped to zero", val: -5, max: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampInt(tt.val, tt.max))
		})
	}
}

func TestResampleData(t *testing.T) {
	assert.Nil(t, resampleData(nil, 10))
	assert.Nil(t, resampleData([]float64{1, 2}, 0))
	assert.Equal(t, []float64{1, 2, 3}, resampleData([]float64{1, 2, 3}, 3))
	assert.Equal(t, []float64{42, 42, 42}, resampleData([]float64{42}, 3))
}

func TestResampleData_DownsamplingPreservesPeaks(t *testing.T) {
	data := []float64{10, 10, 10, 100, 10, 10, 10, 10, 10, 10}

	result := resampleData(data, 5)

	require.Len(t, result, 5)
	assert.Contains(t, result, 100.0, "downsampling should preserve peak values")
}

func TestResampleData_UpsamplingInterpolates(t *testing.T) {
	result := resampleData([]float64{0, 100}, 5)

	require.Len(t, result, 5)
	assert.InDelta(t, 0, result[0], 0.1)
	assert.InDelta(t, 25, result[1], 0.1)
	assert.InDelta(t, 50, result[2], 0.1)
	assert.InDelta(t, 75, result[3], 0.1)
	assert.InDelta(t, 100, result[4], 0.1)
}

func TestRenderBrailleSparkline_EmptyInputs(t *testing.T) {
	assert.Empty(t, RenderBrailleSparkline(nil, 10, 4, ColorSeriesCPU))
	assert.Empty(t, RenderBrailleSparkline([]float64{50}, 0, 4, ColorSeriesCPU))
	assert.Empty(t, RenderBrailleSparkline([]float64{50}, 10, 0, ColorSeriesCPU))
}

func TestRenderBrailleSparkline_RowCount(t *testing.T) {
	result := RenderBrailleSparkline([]float64{25, 50, 75, 100}, 10, 3, ColorSeriesCPU)

	assert.Len(t, strings.Split(result, "\n"), 3)
}

func TestRenderBrailleSparkline_RightAligned(t *testing.T) {
	// One full-height point lands in the right column of the last cell.
	result := RenderBrailleSparkline([]float64{100}, 2, 1, ColorSeriesCPU)

	assert.Equal(t, "⠀⢸", result)
}

func TestRenderBrailleSparkline_ZeroKeepsBaselineDot(t *testing.T) {
	result := RenderBrailleSparkline([]float64{0}, 1, 1, ColorSeriesCPU)

	assert.NotEqual(t, string(brailleBase), result)
}

func TestRenderMiniSparkline(t *testing.T) {
	assert.Empty(t, RenderMiniSparkline(nil, 5))
	assert.Equal(t, "▁█", RenderMiniSparkline([]float64{0, 100}, 5))
	assert.Len(t, []rune(RenderMiniSparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 4)), 4)
}

func TestRenderChart_Empty(t *testing.T) {
	assert.Contains(t, RenderChart(window.Series{}, "15:04:05", 80, 2), "collecting samples")
}

func TestRenderChart_Compact(t *testing.T) {
	s := seriesOfPoints([3]float64{10, 40, 50}, [3]float64{42, 41, 51.3})

	out := RenderChart(s, "15:04:05", 80, 0)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 4, "three series plus a time axis")
	assert.Contains(t, lines[0], "CPU")
	assert.Contains(t, lines[0], "42%")
	assert.Contains(t, lines[1], "Memory")
	assert.Contains(t, lines[1], "41%")
	assert.Contains(t, lines[2], "Temp")
	assert.Contains(t, lines[2], "51.3°C")
	assert.Contains(t, lines[3], "12:00:00")
	assert.Contains(t, lines[3], "12:00:05")
}

func TestRenderChart_BrailleRows(t *testing.T) {
	s := seriesOfPoints([3]float64{10, 40, 50})

	out := RenderChart(s, "15:04:05", 80, 3)

	assert.Len(t, strings.Split(out, "\n"), 3*3+1)
}

func TestTimeAxis_NarrowShowsNewest(t *testing.T) {
	out := timeAxis([]string{"12:00:00", "12:00:05"}, 10)

	assert.Equal(t, "  12:00:05", out)
}

func TestFormatSeriesValue(t *testing.T) {
	assert.Equal(t, "42%", formatSeriesValue(42, "%"))
	assert.Equal(t, "100%", formatSeriesValue(100, "%"))
	assert.Equal(t, "0%", formatSeriesValue(0, "%"))
	assert.Equal(t, "51.3°C", formatSeriesValue(51.3, "°C"))
}
