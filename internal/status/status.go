// Package status maps raw metric values to presentation categories and
// display strings. Everything here is pure.
package status

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Band is the colour tier of a gauge.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// Gauge thresholds. Each value is the inclusive lower bound of the next tier.
const (
	MediumThreshold = 50.0
	HighThreshold   = 75.0
)

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMedium:
		return "medium"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ColorBand classifies a percentage. Out-of-range input is not clamped.
func ColorBand(percent float64) Band {
	switch {
	case percent < MediumThreshold:
		return BandLow
	case percent < HighThreshold:
		return BandMedium
	default:
		return BandHigh
	}
}

// TempState is the thermal classification of the host.
type TempState int

const (
	TempNormal TempState = iota
	TempWarm
	TempHot
)

// Temperature thresholds in °C.
const (
	WarmCelsius = 60.0
	HotCelsius  = 75.0
)

// TemperatureState classifies a temperature in °C.
func TemperatureState(celsius float64) TempState {
	switch {
	case celsius < WarmCelsius:
		return TempNormal
	case celsius < HotCelsius:
		return TempWarm
	default:
		return TempHot
	}
}

// String returns the display text.
func (s TempState) String() string {
	switch s {
	case TempWarm:
		return "Warm"
	case TempHot:
		return "Hot"
	default:
		return "Normal"
	}
}

// Class returns the presentation class used by render sinks.
func (s TempState) Class() string {
	return "temp-" + strings.ToLower(s.String())
}

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with 1024 steps and up to two decimals.
// Counts past the TB range stay in TB.
func FormatBytes(bytes uint64) string {
	if bytes == 0 {
		return "0 B"
	}

	i := int(math.Floor(math.Log2(float64(bytes)) / 10))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Floor(v*100+0.5) / 100
	return FormatNumber(v) + " " + byteUnits[i]
}

// FormatUptime renders hours as "Nd Nh Nm", dropping leading zero units.
// Minutes are always shown.
func FormatUptime(hours float64) string {
	if hours < 0 || math.IsNaN(hours) {
		hours = 0
	}

	days := int(math.Floor(hours / 24))
	rem := int(math.Floor(math.Mod(hours, 24)))
	// the epsilon absorbs float error in the fractional hour (25.7 -> 42m, not 41m)
	minutes := int(math.Floor(math.Mod(hours, 1)*60 + 1e-9))
	if minutes >= 60 {
		minutes = 59
	}

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, rem, minutes)
	case rem > 0:
		return fmt.Sprintf("%dh %dm", rem, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatNumber renders a float with the shortest exact representation
// (23 not 23.0, 23.5 not 23.50).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent renders "23.5%".
func FormatPercent(v float64) string {
	return FormatNumber(v) + "%"
}

// FormatCount renders an integer counter with thousands separators.
func FormatCount(n uint64) string {
	if n > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(n))
	}
	return humanize.Comma(int64(n))
}

// FormatOrUnknown returns s, or "Unknown" when s is empty.
func FormatOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// FormatCores renders a core count, "Unknown" when the host did not report one.
func FormatCores(n int) string {
	if n <= 0 {
		return "Unknown"
	}
	return strconv.Itoa(n)
}
