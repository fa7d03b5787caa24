package dashboard

import (
	"math"

	"github.com/rileyhilliard/pidash/internal/snapshot"
	"github.com/rileyhilliard/pidash/internal/status"
)

// Present pushes every per-field value of snap through the classifier to
// sink. A failing update doesn't stop the rest; all failures are returned.
func Present(sink Sink, snap *snapshot.Snapshot) []error {
	p := &presenter{sink: sink}

	sys := snap.System()
	p.text(TargetHostname, status.FormatOrUnknown(sys.Hostname))
	p.text(TargetUptime, status.FormatUptime(snap.Uptime().Hours))
	p.text(TargetCPUCores, status.FormatCores(snap.CPU().Count))
	p.text(TargetArchitecture, status.FormatOrUnknown(sys.Machine))
	p.text(TargetOS, status.FormatOrUnknown(joinNonEmpty(sys.System, sys.Release)))

	cpu := snap.CPU()
	p.text(TargetCPUPercentage, status.FormatPercent(cpu.UsagePercent))
	p.text(TargetCPUFreq, status.FormatNumber(cpu.FrequencyMHz)+" MHz")
	p.gauge(TargetCPUProgress, cpu.UsagePercent)

	mem := snap.Memory()
	p.text(TargetMemoryPercentage, status.FormatPercent(mem.Percent))
	p.text(TargetMemoryUsed, gb(mem.UsedGB))
	p.text(TargetMemoryTotal, gb(mem.TotalGB))
	p.gauge(TargetMemoryProgress, mem.Percent)

	temp := snap.Temperature()
	state := status.TemperatureState(temp.Celsius)
	p.text(TargetTempValue, status.FormatNumber(temp.Celsius)+"°C")
	p.text(TargetTempFahrenheit, status.FormatNumber(temp.Fahrenheit)+"°F")
	p.text(TargetTempStatus, state.String())
	p.state(TargetTempStatus, state.Class())
	p.gauge(TargetTempProgress, math.Min(temp.Celsius, 100))

	disk := snap.Storage()
	p.text(TargetStoragePercentage, status.FormatPercent(disk.Percent))
	p.text(TargetStorageUsed, gb(disk.UsedGB))
	p.text(TargetStorageFree, gb(disk.FreeGB))
	p.text(TargetStorageTotal, gb(disk.TotalGB))
	p.gauge(TargetStorageProgress, disk.Percent)

	net := snap.Network()
	p.text(TargetBytesSent, status.FormatBytes(net.BytesSent))
	p.text(TargetBytesReceived, status.FormatBytes(net.BytesRecv))
	p.text(TargetPacketsSent, status.FormatCount(net.PacketsSent))
	p.text(TargetPacketsReceived, status.FormatCount(net.PacketsRecv))

	return p.errs
}

type presenter struct {
	sink Sink
	errs []error
}

func (p *presenter) text(target, text string) {
	p.record(p.sink.SetText(target, text))
}

func (p *presenter) gauge(target string, percent float64) {
	p.record(p.sink.SetGauge(target, percent, 100))
}

func (p *presenter) state(target, class string) {
	p.record(p.sink.SetState(target, class))
}

func (p *presenter) record(err error) {
	if err != nil {
		p.errs = append(p.errs, err)
	}
}

func gb(v float64) string {
	return status.FormatNumber(v) + " GB"
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
