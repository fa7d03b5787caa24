package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/render"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// nothing is ever selected in printed output
	s.Selected = lipgloss.NewStyle()

	t.SetStyles(s)
	return t
}

// ReadoutRow is one line of the readout.
type ReadoutRow struct {
	Section string `json:"section,omitempty"`
	Metric  string `json:"metric"`
	Value   string `json:"value"`
}

var readoutColumns = []TableColumn{
	{Title: "SECTION", Width: 10},
	{Title: "METRIC", Width: 14},
	{Title: "VALUE", Width: 24},
}

// ReadoutRows lists the board's texts in dashboard order. Only the first
// row of each section carries the section name.
func ReadoutRows(v render.View) []ReadoutRow {
	pair := func(a, b string) string {
		return v.Text(a) + " / " + v.Text(b)
	}

	groups := []struct {
		section string
		rows    [][2]string
	}{
		{"System", [][2]string{
			{"Hostname", v.Text(dashboard.TargetHostname)},
			{"OS", v.Text(dashboard.TargetOS)},
			{"Architecture", v.Text(dashboard.TargetArchitecture)},
			{"Cores", v.Text(dashboard.TargetCPUCores)},
			{"Uptime", v.Text(dashboard.TargetUptime)},
		}},
		{"CPU", [][2]string{
			{"Usage", v.Text(dashboard.TargetCPUPercentage)},
			{"Frequency", v.Text(dashboard.TargetCPUFreq)},
		}},
		{"Memory", [][2]string{
			{"Usage", v.Text(dashboard.TargetMemoryPercentage)},
			{"Used / Total", pair(dashboard.TargetMemoryUsed, dashboard.TargetMemoryTotal)},
		}},
		{"Temp", [][2]string{
			{"Celsius", v.Text(dashboard.TargetTempValue)},
			{"Fahrenheit", v.Text(dashboard.TargetTempFahrenheit)},
			{"Status", v.Text(dashboard.TargetTempStatus)},
		}},
		{"Storage", [][2]string{
			{"Usage", v.Text(dashboard.TargetStoragePercentage)},
			{"Used / Total", pair(dashboard.TargetStorageUsed, dashboard.TargetStorageTotal)},
			{"Free", v.Text(dashboard.TargetStorageFree)},
		}},
		{"Network", [][2]string{
			{"Sent", v.Text(dashboard.TargetBytesSent)},
			{"Received", v.Text(dashboard.TargetBytesReceived)},
			{"Packets sent", v.Text(dashboard.TargetPacketsSent)},
			{"Packets recv", v.Text(dashboard.TargetPacketsReceived)},
		}},
	}

	var out []ReadoutRow
	for _, g := range groups {
		for i, r := range g.rows {
			row := ReadoutRow{Metric: r[0], Value: r[1]}
			if i == 0 {
				row.Section = g.section
			}
			out = append(out, row)
		}
	}
	return out
}

// RenderReadout renders a presented board as a table with a one-line
// summary of the gauges underneath.
func RenderReadout(v render.View) string {
	if !v.Rendered() {
		return mutedStyle.Render("No readings") + "\n"
	}

	rows := ReadoutRows(v)
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row{r.Section, r.Metric, r.Value}
	}

	var b strings.Builder
	b.WriteString(infoStyle.Render(v.Text(dashboard.TargetHostname)))
	if v.Label != "" {
		b.WriteString("  " + mutedStyle.Render(v.Label))
	}
	b.WriteString("\n")
	b.WriteString(NewTable(readoutColumns, tableRows).View())
	b.WriteString("\n")
	b.WriteString(gaugeSummary(v))
	b.WriteString("\n")
	return b.String()
}

var gaugeLabels = []struct {
	label  string
	target string
	text   string
}{
	{"cpu", dashboard.TargetCPUProgress, dashboard.TargetCPUPercentage},
	{"mem", dashboard.TargetMemoryProgress, dashboard.TargetMemoryPercentage},
	{"temp", dashboard.TargetTempProgress, dashboard.TargetTempValue},
	{"disk", dashboard.TargetStorageProgress, dashboard.TargetStoragePercentage},
}

// gaugeSummary colors each gauge by its band, temperature by its class.
func gaugeSummary(v render.View) string {
	parts := make([]string, 0, len(gaugeLabels))
	for _, g := range gaugeLabels {
		gauge, ok := v.Gauges[g.target]
		if !ok {
			continue
		}
		color := bandColor(gauge.Band)
		if g.target == dashboard.TargetTempProgress {
			color = tempClassColor(v.States[dashboard.TargetTempStatus])
		}
		parts = append(parts, mutedStyle.Render(g.label+" ")+
			lipgloss.NewStyle().Foreground(color).Render(v.Text(g.text)))
	}
	return strings.Join(parts, "  ")
}
