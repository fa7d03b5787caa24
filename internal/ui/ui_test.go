package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/render"
	"github.com/rileyhilliard/pidash/internal/snapshot"
)

func init() {
	DisableColors()
}

func presented(t *testing.T) render.View {
	t.Helper()
	board := render.NewBoard()
	require.Empty(t, dashboard.Present(board, &snapshot.Snapshot{
		CPUInfo:         &snapshot.CPU{UsagePercent: 42, Count: 4, FrequencyMHz: 1500},
		MemoryInfo:      &snapshot.Memory{Percent: 61.5, UsedGB: 2.3, TotalGB: 3.7},
		TemperatureInfo: &snapshot.Temperature{Celsius: 68.2, Fahrenheit: 154.8},
		StorageInfo:     &snapshot.Storage{Percent: 30, UsedGB: 9, FreeGB: 20, TotalGB: 29},
		NetworkInfo:     &snapshot.Network{BytesSent: 1536, BytesRecv: 1048576, PacketsSent: 1200, PacketsRecv: 3400},
		SystemInfo:      &snapshot.System{Hostname: "raspberrypi", Machine: "aarch64", System: "Linux", Release: "6.1.21-v8+"},
		UptimeInfo:      &snapshot.Uptime{Hours: 25.5},
	}))
	require.NoError(t, board.SetConnection(dashboard.Online, dashboard.LabelLastUpdated+"12:00:05"))
	return board.View()
}
