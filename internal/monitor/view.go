package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/errors"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if !m.view.Rendered() {
		b.WriteString(m.renderWaiting())
	} else {
		b.WriteString(m.renderBody())
	}

	if m.ShowFooter() {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

func (m Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

// renderHeader renders the title, endpoint and connection label.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("Pi dashboard")

	parts := []string{title}
	if m.opts.Endpoint != "" && m.LayoutMode() != LayoutMinimal {
		parts = append(parts, LabelStyle.Render(m.opts.Endpoint))
	}

	label := m.view.Label
	switch {
	case m.Paused():
		label = "paused"
	case label == "":
		label = "connecting"
	}
	parts = append(parts, ConnectionIndicator(m.view.Connectivity, m.Paused())+" "+ValueStyle.Render(label))

	if age := m.SecondsSinceUpdate(); age > 0 && m.LayoutMode() >= LayoutStandard {
		parts = append(parts, MutedStyle.Render(formatAge(age)))
	}

	return HeaderStyle.Render(strings.Join(parts, LabelStyle.Render(" | ")))
}

func formatAge(seconds int) string {
	if seconds == 1 {
		return "1s ago"
	}
	return fmt.Sprintf("%ds ago", seconds)
}

// renderWaiting shows what happened before the first snapshot arrived.
func (m Model) renderWaiting() string {
	if err := m.status.LastError; err != nil {
		return StatusOfflineStyle.Render("Waiting for "+m.endpointName()+": ") +
			LabelStyle.Render(errors.Summary(err))
	}
	return LabelStyle.Render("Waiting for the first reading from " + m.endpointName() + "...")
}

func (m Model) endpointName() string {
	if m.opts.Endpoint == "" {
		return "the device"
	}
	return m.opts.Endpoint
}

func (m Model) renderBody() string {
	width := m.contentWidth()
	mode := m.LayoutMode()

	gauges := m.renderGauges(width, mode)
	if mode == LayoutMinimal {
		return gauges + "\n" + m.renderSystemLines()
	}

	var cards string
	if mode == LayoutWide {
		half := (width - 1) / 2
		cards = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderSystemCard(half), " ", m.renderNetworkCard(width-half-1))
	} else {
		cards = m.renderSystemCard(width) + "\n" + m.renderNetworkCard(width)
	}

	return gauges + "\n" + cards + "\n" + m.renderChart(width, mode)
}

type gaugeRow struct {
	title  string
	target string
	value  string
	detail string
}

func (m Model) gaugeRows() []gaugeRow {
	v := m.view
	return []gaugeRow{
		{
			title:  "CPU",
			target: dashboard.TargetCPUProgress,
			value:  v.Text(dashboard.TargetCPUPercentage),
			detail: v.Text(dashboard.TargetCPUFreq),
		},
		{
			title:  "Memory",
			target: dashboard.TargetMemoryProgress,
			value:  v.Text(dashboard.TargetMemoryPercentage),
			detail: v.Text(dashboard.TargetMemoryUsed) + " / " + v.Text(dashboard.TargetMemoryTotal),
		},
		{
			title:  "Temp",
			target: dashboard.TargetTempProgress,
			value:  v.Text(dashboard.TargetTempValue),
			detail: m.renderTempStatus(),
		},
		{
			title:  "Storage",
			target: dashboard.TargetStorageProgress,
			value:  v.Text(dashboard.TargetStoragePercentage),
			detail: v.Text(dashboard.TargetStorageUsed) + " / " + v.Text(dashboard.TargetStorageTotal),
		},
	}
}

func (m Model) renderTempStatus() string {
	class := m.view.States[dashboard.TargetTempStatus]
	text := m.view.Text(dashboard.TargetTempStatus)
	if text == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(TempClassColor(class)).Render(text) +
		MutedStyle.Render(" ("+m.view.Text(dashboard.TargetTempFahrenheit)+")")
}

// renderGauges draws the four progress gauges. Standard and wider layouts
// put them in one section; narrower ones stack them.
func (m Model) renderGauges(width int, mode LayoutMode) string {
	rows := m.gaugeRows()

	barWidth := 10
	if mode >= LayoutStandard {
		barWidth = 20
	}

	var lines []string
	for _, r := range rows {
		g, ok := m.view.Gauges[r.target]
		if !ok {
			lines = append(lines, KeyValue(r.title, "-", 9))
			continue
		}
		line := KeyValue(r.title, "", 9) + renderGauge(g, r.value, barWidth)
		if mode != LayoutMinimal && r.detail != "" {
			line += "  " + LabelStyle.Render(r.detail)
		}
		lines = append(lines, line)
	}

	if mode == LayoutMinimal {
		return strings.Join(lines, "\n")
	}
	return Section("Resources", "", lines, width)
}

func (m Model) renderSystemLines() string {
	v := m.view
	return strings.Join([]string{
		KeyValue("Host", v.Text(dashboard.TargetHostname), 9),
		KeyValue("Uptime", v.Text(dashboard.TargetUptime), 9),
	}, "\n")
}

func (m Model) renderSystemCard(width int) string {
	v := m.view
	lines := []string{
		KeyValue("Host", v.Text(dashboard.TargetHostname), 12),
		KeyValue("OS", v.Text(dashboard.TargetOS), 12),
		KeyValue("Arch", v.Text(dashboard.TargetArchitecture), 12),
		KeyValue("Cores", v.Text(dashboard.TargetCPUCores), 12),
		KeyValue("Uptime", v.Text(dashboard.TargetUptime), 12),
	}
	return Section("System", "", lines, width)
}

func (m Model) renderNetworkCard(width int) string {
	v := m.view
	lines := []string{
		KeyValue("Sent", v.Text(dashboard.TargetBytesSent), 12),
		KeyValue("Received", v.Text(dashboard.TargetBytesReceived), 12),
		KeyValue("Pkts sent", v.Text(dashboard.TargetPacketsSent), 12),
		KeyValue("Pkts recv", v.Text(dashboard.TargetPacketsReceived), 12),
		KeyValue("Free disk", v.Text(dashboard.TargetStorageFree), 12),
	}
	return Section("Network", "", lines, width)
}

func (m Model) renderChart(width int, mode LayoutMode) string {
	rowHeight := 0
	switch mode {
	case LayoutStandard:
		rowHeight = 2
	case LayoutWide:
		rowHeight = 3
	}
	if m.height > 0 && m.height < HeightMinimal {
		rowHeight = 0
	}

	value := MutedStyle.Render(fmt.Sprintf("%d samples, every %s", m.view.Series.Len(), m.opts.Interval))

	chart := RenderChart(m.view.Series, m.opts.TimeLayout, width-4, rowHeight)
	return Section("History", value, strings.Split(chart, "\n"), width)
}

// renderFooter renders the key hints and the latest notice.
func (m Model) renderFooter() string {
	hints := m.help.ShortHelpView(keys.ShortHelp())
	if m.notice != "" {
		hints += MutedStyle.Render("  " + m.notice)
	}
	if err := m.status.LastError; err != nil && m.view.Rendered() && m.LayoutMode() >= LayoutStandard {
		hints += StatusOfflineStyle.Render("  " + errors.Summary(err))
	}
	return FooterStyle.Render(hints)
}
