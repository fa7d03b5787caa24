package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pidash/internal/logger"
	"github.com/rileyhilliard/pidash/internal/platform"
	"github.com/rileyhilliard/pidash/internal/poller"
	"github.com/rileyhilliard/pidash/internal/snapshot"
)

const (
	waitFor = time.Second
	pollGap = time.Millisecond
	quiet   = 50 * time.Millisecond
)

type harness struct {
	ctrl    *Controller
	clock   *fakeClock
	fetcher *fakeFetcher
	sink    *fakeSink
	bus     *platform.Bus
	log     *logger.BufferLogger
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		clock:   newFakeClock(),
		fetcher: newFakeFetcher(),
		sink:    newFakeSink(),
		bus:     platform.NewBus(),
		log:     logger.NewBufferLogger(),
	}
	opts.Clock = h.clock
	opts.Logger = h.log
	h.ctrl = New(h.fetcher, h.sink, h.bus, opts)
	t.Cleanup(h.ctrl.Close)
	return h
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.ctrl.Start(context.Background()))
}

func (h *harness) stats() Stats {
	return h.ctrl.Status().Stats
}

func (h *harness) waitStats(t *testing.T, cond func(Stats) bool) {
	t.Helper()
	require.Eventually(t, func() bool { return cond(h.stats()) }, waitFor, pollGap)
}

func (h *harness) waitCalls(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.fetcher.Calls() >= n }, waitFor, pollGap)
}

func (h *harness) tick() {
	h.clock.Advance(DefaultInterval)
}

func TestNew_StartsStopped(t *testing.T) {
	h := newHarness(t, Options{})

	st := h.ctrl.Status()
	assert.Equal(t, Stopped, st.State)
	assert.Equal(t, Online, st.Connectivity)
	assert.Equal(t, 0, h.clock.Created())
	assert.Equal(t, 0, h.bus.Len())
	assert.Equal(t, 0, h.fetcher.Calls())
}

func TestStart_FirstCycleThenRunning(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)

	st := h.ctrl.Status()
	assert.Equal(t, Running, st.State)
	assert.Equal(t, Online, st.Connectivity)
	assert.Equal(t, 1, st.Stats.Applied)
	assert.Equal(t, 1, st.Window.Len())
	assert.Equal(t, epoch0, st.LastUpdate)
	assert.Equal(t, 1, h.clock.Active())
	assert.Equal(t, 1, h.bus.Len(), "subscribed once")

	assert.Equal(t, "pi", h.sink.text(TargetHostname))
	assert.Equal(t, "1d 1h 30m", h.sink.text(TargetUptime))
	assert.Equal(t, 1, h.sink.chartCount())

	conn, ok := h.sink.lastConn()
	require.True(t, ok)
	assert.Equal(t, connEvent{Conn: Online, Label: "Last updated: 12:00:00"}, conn)
}

func TestStart_WhileRunningKeepsOneTicker(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)
	h.start(t)
	h.ctrl.Resume()

	assert.Equal(t, 1, h.clock.Created())
	assert.Equal(t, 1, h.clock.Active())
	assert.Equal(t, 1, h.bus.Len())
	assert.Equal(t, 1, h.fetcher.Calls())

	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })
	assert.Never(t, func() bool { return h.fetcher.Calls() > 2 }, quiet, pollGap,
		"one tick must produce exactly one cycle")
}

func TestTick_AppendsToWindow(t *testing.T) {
	h := newHarness(t, Options{Capacity: 3})
	h.start(t)

	for i := 2; i <= 5; i++ {
		h.tick()
		want := i
		h.waitStats(t, func(s Stats) bool { return s.Applied == want })
	}

	st := h.ctrl.Status()
	assert.Equal(t, 3, st.Window.Len())
	assert.Equal(t, []float64{3, 4, 5}, st.Window.CPU)
	assert.Len(t, st.Window.Memory, 3)
	assert.Len(t, st.Window.Temperature, 3)
}

func TestStopAndResume(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)

	h.ctrl.Stop()
	assert.Equal(t, Stopped, h.ctrl.Status().State)
	assert.Equal(t, 0, h.clock.Active())

	h.ctrl.Stop()
	h.tick()
	assert.Never(t, func() bool { return h.fetcher.Calls() > 1 }, quiet, pollGap,
		"no cycles while stopped")

	h.ctrl.Resume()
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })
	assert.Equal(t, Running, h.ctrl.Status().State)
	assert.Equal(t, 1, h.clock.Active())
	assert.Equal(t, 2, h.clock.Created())
}

func TestResume_BeforeStartIsNoop(t *testing.T) {
	h := newHarness(t, Options{})
	h.ctrl.Resume()
	h.ctrl.Stop()

	assert.Equal(t, Stopped, h.ctrl.Status().State)
	assert.Equal(t, 0, h.fetcher.Calls())
}

func TestVisibilitySignals(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)

	h.bus.Publish(platform.Hidden)
	require.Eventually(t, func() bool { return h.ctrl.Status().State == Stopped }, waitFor, pollGap)
	assert.Equal(t, 0, h.clock.Active())

	h.bus.Publish(platform.Visible)
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })
	assert.Equal(t, Running, h.ctrl.Status().State)
	assert.Equal(t, 1, h.clock.Active())
}

func TestOfflinePropagation(t *testing.T) {
	h := newHarness(t, Options{})
	h.fetcher.setScript(func(n int) poller.Result {
		if n == 2 {
			return fail()
		}
		return ok(n)
	})
	h.start(t)

	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Failures == 1 })

	st := h.ctrl.Status()
	assert.Equal(t, Offline, st.Connectivity)
	assert.Equal(t, 1, st.Window.Len(), "failure leaves the window alone")
	assert.Error(t, st.LastError)
	conn, _ := h.sink.lastConn()
	assert.Equal(t, connEvent{Conn: Offline, Label: LabelConnectionLost}, conn)

	h.clock.Set(time.Minute)
	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })

	st = h.ctrl.Status()
	assert.Equal(t, Online, st.Connectivity)
	assert.NoError(t, st.LastError)
	conn, _ = h.sink.lastConn()
	assert.Equal(t, Online, conn.Conn)
	assert.Equal(t, "Last updated: 12:01:10", conn.Label)
}

func TestOfflineSignalIsImmediate(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)

	h.bus.Publish(platform.Offline)
	require.Eventually(t, func() bool { return h.ctrl.Status().Connectivity == Offline }, waitFor, pollGap)

	conn, _ := h.sink.lastConn()
	assert.Equal(t, connEvent{Conn: Offline, Label: LabelConnectionLost}, conn)
	assert.Equal(t, 1, h.fetcher.Calls(), "no fetch needed")
	assert.Equal(t, Running, h.ctrl.Status().State)
}

func TestOnlineSignal(t *testing.T) {
	t.Run("while running refreshes without a new ticker", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.start(t)

		h.bus.Publish(platform.Online)
		h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })
		assert.Equal(t, 1, h.clock.Created())
		assert.Equal(t, 1, h.clock.Active())
	})

	t.Run("while stopped resumes", func(t *testing.T) {
		h := newHarness(t, Options{})
		h.start(t)
		h.ctrl.Stop()

		h.bus.Publish(platform.Online)
		h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })
		assert.Equal(t, Running, h.ctrl.Status().State)
		assert.Equal(t, 1, h.clock.Active())
	})
}

func TestRejectedSnapshot(t *testing.T) {
	h := newHarness(t, Options{})
	h.fetcher.setScript(func(n int) poller.Result {
		switch n {
		case 2:
			return fail()
		case 3:
			return rejected()
		}
		return ok(n)
	})
	h.start(t)

	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Failures == 1 })
	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Rejected == 1 })

	st := h.ctrl.Status()
	assert.Equal(t, Offline, st.Connectivity, "rejection leaves connectivity alone")
	assert.Equal(t, 1, st.Window.Len())
	assert.Equal(t, 1, h.sink.chartCount())
	assert.True(t, h.log.Contains("warn", "sensor read failed"))
}

func TestBooleanErrorMarkerKeepsConnectivity(t *testing.T) {
	flagged, err := snapshot.Decode(strings.NewReader(`{"error": true, "timestamp": "x"}`))
	require.NoError(t, err)

	h := newHarness(t, Options{})
	h.fetcher.setScript(func(n int) poller.Result {
		if n == 2 {
			return poller.Result{Snapshot: flagged}
		}
		return ok(n)
	})
	h.start(t)

	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Rejected == 1 })

	st := h.ctrl.Status()
	assert.Equal(t, Online, st.Connectivity)
	assert.Equal(t, 0, st.Stats.Failures)
	assert.Equal(t, 1, st.Window.Len())
	assert.True(t, h.log.Contains("warn", "error flag set"))
}

func TestLateResultForStoppedControllerIsDiscarded(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)
	release := h.fetcher.gate(2)

	h.tick()
	h.waitCalls(t, 2)
	h.ctrl.Stop()
	close(release)

	h.waitStats(t, func(s Stats) bool { return s.Discarded == 1 })
	st := h.ctrl.Status()
	assert.Equal(t, 1, st.Stats.Applied)
	assert.Equal(t, 1, st.Window.Len())
	assert.Equal(t, 1, h.sink.chartCount())
}

func TestStaleEpochResultIsDiscarded(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)
	release := h.fetcher.gate(2)

	h.tick()
	h.waitCalls(t, 2)
	h.ctrl.Stop()
	h.ctrl.Resume()
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })

	close(release)
	h.waitStats(t, func(s Stats) bool { return s.Discarded == 1 })
	assert.Equal(t, []float64{1, 3}, h.ctrl.Status().Window.CPU)
}

func TestOverlappingPollsAllowedByDefault(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)
	release := h.fetcher.gate(2)

	h.tick()
	h.waitCalls(t, 2)
	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })
	assert.Equal(t, 1, h.ctrl.Status().InFlight)

	close(release)
	h.waitStats(t, func(s Stats) bool { return s.Applied == 3 })

	st := h.ctrl.Status()
	assert.Equal(t, 0, st.Stats.Dropped)
	assert.Equal(t, 0, st.InFlight)
	// applied in arrival order, so the slow second fetch lands last
	assert.Equal(t, []float64{1, 3, 2}, st.Window.CPU)
}

func TestSingleFlightDropsTicks(t *testing.T) {
	h := newHarness(t, Options{SingleFlight: true})
	h.start(t)
	release := h.fetcher.gate(2)

	h.tick()
	h.waitCalls(t, 2)
	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Dropped == 1 })
	assert.Equal(t, 2, h.fetcher.Calls())
	assert.False(t, h.ctrl.Refresh(), "refresh is dropped too")

	close(release)
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })

	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Applied == 3 })
	assert.Equal(t, []float64{1, 2, 3}, h.ctrl.Status().Window.CPU)
}

func TestRenderFailureDoesNotAbortCycle(t *testing.T) {
	h := newHarness(t, Options{})
	h.sink.fail(TargetHostname)
	h.sink.fail(TargetTempStatus)
	h.start(t)

	st := h.ctrl.Status()
	assert.Equal(t, 1, st.Stats.Applied)
	assert.Equal(t, 3, st.Stats.RenderErrors, "hostname text plus tempStatus text and class")
	assert.Equal(t, "aarch64", h.sink.text(TargetArchitecture))
	assert.Equal(t, 1, h.sink.chartCount())
	assert.True(t, h.log.Contains("error", "hostname"))

	conn, _ := h.sink.lastConn()
	assert.Equal(t, Online, conn.Conn)

	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })
}

func TestRefresh(t *testing.T) {
	h := newHarness(t, Options{RefreshLimit: time.Second})
	h.start(t)

	assert.True(t, h.ctrl.Refresh())
	assert.False(t, h.ctrl.Refresh(), "rate limited")
	h.waitStats(t, func(s Stats) bool { return s.Applied == 2 })

	h.clock.Set(time.Second)
	assert.True(t, h.ctrl.Refresh())
	h.waitStats(t, func(s Stats) bool { return s.Applied == 3 })

	h.ctrl.Stop()
	h.clock.Set(time.Minute)
	assert.False(t, h.ctrl.Refresh(), "ignored while stopped")
}

func TestUnloadSignalCloses(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)

	h.bus.Publish(platform.Unload)
	select {
	case <-h.ctrl.Done():
	case <-time.After(waitFor):
		t.Fatal("controller did not close on unload")
	}

	assert.Equal(t, Closed, h.ctrl.Status().State)
	assert.Equal(t, 0, h.clock.Active())
	assert.Equal(t, 0, h.bus.Len())
	assert.ErrorIs(t, h.ctrl.Start(context.Background()), ErrClosed)
	assert.False(t, h.ctrl.Refresh())

	h.tick()
	assert.Never(t, func() bool { return h.fetcher.Calls() > 1 }, quiet, pollGap)
}

func TestCloseCancelsInFlightFetch(t *testing.T) {
	h := newHarness(t, Options{})
	h.start(t)
	h.fetcher.gate(2)

	h.tick()
	h.waitCalls(t, 2)

	h.ctrl.Close()
	h.ctrl.Close()

	require.Eventually(t, func() bool { return h.fetcher.Cancelled() == 1 }, waitFor, pollGap)
	st := h.ctrl.Status()
	assert.Equal(t, Closed, st.State)
	assert.Equal(t, 1, st.Stats.Applied)
	assert.Equal(t, 0, h.bus.Len())
}

func TestStartContextCancelClosesController(t *testing.T) {
	h := newHarness(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.ctrl.Start(ctx))

	cancel()
	select {
	case <-h.ctrl.Done():
	case <-time.After(waitFor):
		t.Fatal("controller did not close when its context ended")
	}
}

func TestFetcherPanicIsAFailure(t *testing.T) {
	h := newHarness(t, Options{})
	h.fetcher.setScript(func(n int) poller.Result {
		if n == 2 {
			panic("boom")
		}
		return ok(n)
	})
	h.start(t)

	h.tick()
	h.waitStats(t, func(s Stats) bool { return s.Failures == 1 })
	assert.Equal(t, Offline, h.ctrl.Status().Connectivity)
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "online", Online.String())
	assert.Equal(t, "offline", Offline.String())
}
