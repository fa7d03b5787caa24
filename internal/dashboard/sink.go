package dashboard

import (
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/window"
)

// Sink is where a poll cycle's output goes. Implementations decide how
// things are drawn; the controller only guarantees values and formatting.
type Sink interface {
	SetText(target, text string) error
	SetGauge(target string, percent, max float64) error
	SetState(target, class string) error
	UpdateChart(series window.Series) error
	SetConnection(c Connectivity, label string) error
}

// ErrUnknownTarget is returned (wrapped) by sinks for a target they don't know.
var ErrUnknownTarget = stderrors.New("unknown render target")

// UnknownTarget builds the error a sink returns for target.
func UnknownTarget(target string) error {
	return errors.WrapWithCode(ErrUnknownTarget, errors.ErrRender,
		fmt.Sprintf("Render target %q not found", target), "")
}

// Render targets.
const (
	TargetHostname     = "hostname"
	TargetUptime       = "uptime"
	TargetCPUCores     = "cpuCores"
	TargetArchitecture = "architecture"
	TargetOS           = "os"

	TargetCPUPercentage = "cpuPercentage"
	TargetCPUFreq       = "cpuFreq"
	TargetCPUProgress   = "cpuProgress"

	TargetMemoryPercentage = "memoryPercentage"
	TargetMemoryUsed       = "memoryUsed"
	TargetMemoryTotal      = "memoryTotal"
	TargetMemoryProgress   = "memoryProgress"

	TargetTempValue      = "tempValue"
	TargetTempFahrenheit = "tempFahrenheit"
	TargetTempStatus     = "tempStatus"
	TargetTempProgress   = "tempProgress"

	TargetStoragePercentage = "storagePercentage"
	TargetStorageUsed       = "storageUsed"
	TargetStorageFree       = "storageFree"
	TargetStorageTotal      = "storageTotal"
	TargetStorageProgress   = "storageProgress"

	TargetBytesSent       = "bytesSent"
	TargetBytesReceived   = "bytesReceived"
	TargetPacketsSent     = "packetsSent"
	TargetPacketsReceived = "packetsReceived"
)

// TextTargets lists every target Present writes text to.
var TextTargets = []string{
	TargetHostname, TargetUptime, TargetCPUCores, TargetArchitecture, TargetOS,
	TargetCPUPercentage, TargetCPUFreq,
	TargetMemoryPercentage, TargetMemoryUsed, TargetMemoryTotal,
	TargetTempValue, TargetTempFahrenheit, TargetTempStatus,
	TargetStoragePercentage, TargetStorageUsed, TargetStorageFree, TargetStorageTotal,
	TargetBytesSent, TargetBytesReceived, TargetPacketsSent, TargetPacketsReceived,
}

// GaugeTargets lists every gauge Present drives.
var GaugeTargets = []string{
	TargetCPUProgress, TargetMemoryProgress, TargetTempProgress, TargetStorageProgress,
}

// StateTargets lists every target that takes a presentation class.
var StateTargets = []string{TargetTempStatus}

// Labels for the connection indicator.
const (
	LabelLastUpdated    = "Last updated: "
	LabelConnectionLost = "Connection lost"
)
