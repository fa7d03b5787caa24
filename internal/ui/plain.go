package ui

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/poller"
	"github.com/rileyhilliard/pidash/internal/render"
)

// PlainLine renders the board as one uncolored line for logs and pipes:
//
//	raspberrypi cpu=42% mem=61.5% temp=68.2°C (Warm) disk=30% | Last updated: 12:00:05
func PlainLine(v render.View) string {
	if !v.Rendered() {
		if v.Label == "" {
			return "waiting for first reading"
		}
		return v.Label
	}

	fields := []string{
		v.Text(dashboard.TargetHostname),
		"cpu=" + v.Text(dashboard.TargetCPUPercentage),
		"mem=" + v.Text(dashboard.TargetMemoryPercentage),
		fmt.Sprintf("temp=%s (%s)", v.Text(dashboard.TargetTempValue), v.Text(dashboard.TargetTempStatus)),
		"disk=" + v.Text(dashboard.TargetStoragePercentage),
	}
	line := strings.Join(fields, " ")
	if v.Label != "" {
		line += " | " + v.Label
	}
	return line
}

// RenderHealth renders the outcome of a health check.
func RenderHealth(endpoint string, report poller.HealthReport, err error) string {
	if err != nil {
		return errorStyle.Render(SymbolFail) + " " + endpoint + " " + mutedStyle.Render("unreachable")
	}

	symbol := successStyle.Render(SymbolSuccess)
	state := report.Status
	if !report.Healthy() {
		symbol = warningStyle.Render(SymbolFail)
	}
	if state == "" {
		state = "unknown"
	}

	line := fmt.Sprintf("%s %s %s %s", symbol, endpoint, state, mutedStyle.Render(formatDuration(report.Latency)))
	if report.Timestamp != "" {
		line += " " + mutedStyle.Render("("+report.Timestamp+")")
	}
	return line
}
