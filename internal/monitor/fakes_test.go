package monitor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/platform"
	"github.com/rileyhilliard/pidash/internal/render"
	"github.com/rileyhilliard/pidash/internal/snapshot"
)

type fakeController struct {
	mu        sync.Mutex
	status    dashboard.Status
	stops     int
	resumes   int
	refreshes int
	refreshOK bool
}

func newFakeController() *fakeController {
	return &fakeController{status: dashboard.Status{State: dashboard.Running}, refreshOK: true}
}

func (f *fakeController) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.status.State = dashboard.Stopped
}

func (f *fakeController) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
	f.status.State = dashboard.Running
}

func (f *fakeController) Refresh() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshOK
}

func (f *fakeController) Status() dashboard.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeController) setStatus(fn func(*dashboard.Status)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.status)
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []platform.Signal
}

func (f *fakePublisher) Publish(sig platform.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sig)
}

func (f *fakePublisher) Sent() []platform.Signal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]platform.Signal(nil), f.sent...)
}

func sampleSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		CPUInfo:         &snapshot.CPU{UsagePercent: 42, Count: 4, FrequencyMHz: 1500},
		MemoryInfo:      &snapshot.Memory{Percent: 61.5, UsedGB: 2.3, TotalGB: 3.7},
		TemperatureInfo: &snapshot.Temperature{Celsius: 68.2, Fahrenheit: 154.8},
		StorageInfo:     &snapshot.Storage{Percent: 30, UsedGB: 9, FreeGB: 20, TotalGB: 29},
		NetworkInfo:     &snapshot.Network{BytesSent: 1536, BytesRecv: 1048576, PacketsSent: 1200, PacketsRecv: 3400},
		SystemInfo:      &snapshot.System{Hostname: "raspberrypi", Machine: "aarch64", System: "Linux", Release: "6.1.21-v8+"},
		UptimeInfo:      &snapshot.Uptime{Hours: 25.5},
	}
}

// presentedBoard returns a board that has rendered sampleSnapshot.
func presentedBoard(t *testing.T) *render.Board {
	t.Helper()
	board := render.NewBoard()
	require.Empty(t, dashboard.Present(board, sampleSnapshot()))
	series := seriesOfPoints([3]float64{40, 60, 67}, [3]float64{42, 61.5, 68.2})
	require.NoError(t, board.UpdateChart(series))
	require.NoError(t, board.SetConnection(dashboard.Online, dashboard.LabelLastUpdated+"12:00:05"))
	return board
}
