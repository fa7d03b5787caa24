package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/poller"
	"github.com/rileyhilliard/pidash/internal/snapshot"
	"github.com/rileyhilliard/pidash/internal/window"
)

var epoch0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)

// fakeClock hands out manually fired tickers.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch0}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{clock: f, period: d, c: make(chan time.Time, 1)}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves time forward and fires every active ticker once.
func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	for _, t := range f.tickers {
		if t.stopped {
			continue
		}
		select {
		case t.c <- f.now:
		default:
		}
	}
}

// Set moves time without firing tickers.
func (f *fakeClock) Set(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Active counts tickers that haven't been stopped.
func (f *fakeClock) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Created counts every ticker ever made.
func (f *fakeClock) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

type fakeTicker struct {
	clock   *fakeClock
	period  time.Duration
	c       chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

// fakeFetcher answers call n (1-based) with script(n). A gate registered
// for n holds that call until released or the context is cancelled.
type fakeFetcher struct {
	mu        sync.Mutex
	calls     int
	script    func(n int) poller.Result
	gates     map[int]chan struct{}
	cancelled int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		script: func(n int) poller.Result { return ok(n) },
		gates:  make(map[int]chan struct{}),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context) poller.Result {
	f.mu.Lock()
	f.calls++
	n := f.calls
	gate := f.gates[n]
	script := f.script
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			f.mu.Lock()
			f.cancelled++
			f.mu.Unlock()
			return poller.Result{Err: ctx.Err()}
		}
	}
	return script(n)
}

func (f *fakeFetcher) gate(n int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[n] = g
	return g
}

func (f *fakeFetcher) setScript(fn func(n int) poller.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = fn
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) Cancelled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// ok builds a valid snapshot whose cpu reading is n, so ordering is visible
// in the window.
func ok(n int) poller.Result {
	return poller.Result{Snapshot: &snapshot.Snapshot{
		CPUInfo:         &snapshot.CPU{UsagePercent: float64(n), Count: 4, FrequencyMHz: 1500},
		MemoryInfo:      &snapshot.Memory{Percent: 40, UsedGB: 1.5, TotalGB: 3.7},
		TemperatureInfo: &snapshot.Temperature{Celsius: 51.2, Fahrenheit: 124.2},
		SystemInfo:      &snapshot.System{Hostname: "pi", Machine: "aarch64"},
		UptimeInfo:      &snapshot.Uptime{Hours: 25.5},
	}}
}

func fail() poller.Result {
	return poller.Result{Err: errors.New(errors.ErrFetch, "http://pi/api/system returned 503 Service Unavailable", "")}
}

func rejected() poller.Result {
	return poller.Result{Snapshot: &snapshot.Snapshot{Error: "sensor read failed"}}
}

type connEvent struct {
	Conn  Connectivity
	Label string
}

// fakeSink records every update. Targets in failing return ErrUnknownTarget.
type fakeSink struct {
	mu      sync.Mutex
	texts   map[string]string
	gauges  map[string]float64
	states  map[string]string
	charts  []window.Series
	conns   []connEvent
	failing map[string]bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		texts:   make(map[string]string),
		gauges:  make(map[string]float64),
		states:  make(map[string]string),
		failing: make(map[string]bool),
	}
}

func (s *fakeSink) check(target string) error {
	if s.failing[target] {
		return UnknownTarget(target)
	}
	return nil
}

func (s *fakeSink) SetText(target, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(target); err != nil {
		return err
	}
	s.texts[target] = text
	return nil
}

func (s *fakeSink) SetGauge(target string, percent, max float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(target); err != nil {
		return err
	}
	s.gauges[target] = percent
	return nil
}

func (s *fakeSink) SetState(target, class string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(target); err != nil {
		return err
	}
	s.states[target] = class
	return nil
}

func (s *fakeSink) UpdateChart(series window.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charts = append(s.charts, series)
	return nil
}

func (s *fakeSink) SetConnection(c Connectivity, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns = append(s.conns, connEvent{Conn: c, Label: label})
	return nil
}

func (s *fakeSink) text(target string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texts[target]
}

func (s *fakeSink) gauge(target string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gauges[target]
}

func (s *fakeSink) lastConn() (connEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.conns) == 0 {
		return connEvent{}, false
	}
	return s.conns[len(s.conns)-1], true
}

func (s *fakeSink) chartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.charts)
}

func (s *fakeSink) fail(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[target] = true
}
