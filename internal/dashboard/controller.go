package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/logger"
	"github.com/rileyhilliard/pidash/internal/platform"
	"github.com/rileyhilliard/pidash/internal/poller"
	"github.com/rileyhilliard/pidash/internal/window"
)

const (
	DefaultInterval     = 5 * time.Second
	DefaultTimeLayout   = "15:04:05"
	DefaultRefreshLimit = time.Second
)

// ErrClosed is returned by Start once the controller has been closed.
var ErrClosed = errors.New(errors.ErrExec, "Dashboard is closed", "")

// Fetcher performs one poll. *poller.Poller satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) poller.Result
}

// Signals is the platform event source. *platform.Bus satisfies it.
type Signals interface {
	Subscribe(fn platform.Handler) *platform.Subscription
}

// Options tunes a Controller. Zero values pick the defaults.
type Options struct {
	Interval time.Duration
	Capacity int

	// SingleFlight drops a tick while a fetch from the current lifecycle is
	// still outstanding. Off by default: overlapping polls are allowed.
	SingleFlight bool

	// TimeLayout formats the "Last updated" label.
	TimeLayout string

	// RefreshLimit is the minimum gap between manual refreshes.
	RefreshLimit time.Duration

	Clock  Clock
	Logger logger.Logger
}

type fetched struct {
	epoch  uint64
	result poller.Result
	done   chan struct{}
}

// Controller orchestrates poller, window, classifier and sink.
type Controller struct {
	fetcher Fetcher
	sink    Sink
	signals Signals
	clock   Clock
	log     logger.Logger
	opts    Options

	cmds    chan func()
	results chan fetched
	sigs    chan platform.Signal
	quit    chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	status    atomic.Pointer[Status]

	// fetchCtx is cancelled on Close so in-flight requests are abandoned.
	fetchCtx    context.Context
	fetchCancel context.CancelFunc

	// loop-owned
	state    State
	conn     Connectivity
	started  bool
	epoch    uint64
	inflight int
	ticker   Ticker
	sub      *platform.Subscription
	win      *window.Buffer
	limiter  *rate.Limiter
	stats    Stats
	lastUp   time.Time
	lastLat  time.Duration
	lastErr  error
}

// New builds a controller and starts its event loop. It stays Stopped,
// without a ticker, until Start. Call Close to release it.
func New(fetcher Fetcher, sink Sink, signals Signals, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Capacity <= 0 {
		opts.Capacity = window.DefaultCapacity
	}
	if opts.TimeLayout == "" {
		opts.TimeLayout = DefaultTimeLayout
	}
	if opts.RefreshLimit == 0 {
		opts.RefreshLimit = DefaultRefreshLimit
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	limit := rate.Inf
	if opts.RefreshLimit > 0 {
		limit = rate.Every(opts.RefreshLimit)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:     fetcher,
		sink:        sink,
		signals:     signals,
		clock:       opts.Clock,
		log:         opts.Logger,
		opts:        opts,
		cmds:        make(chan func()),
		results:     make(chan fetched),
		sigs:        make(chan platform.Signal, 16),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		fetchCtx:    ctx,
		fetchCancel: cancel,
		state:       Stopped,
		conn:        Online,
		win:         window.New(opts.Capacity),
		limiter:     rate.NewLimiter(limit, 1),
	}
	c.publishStatus()

	go c.loop()
	return c
}

// Start subscribes to platform signals (once), runs one poll cycle and
// leaves the controller Running with its ticker armed. It returns after
// that first cycle has been applied. Starting a Running controller is a
// no-op; starting a Stopped one behaves like Resume.
//
// The first ctx passed to Start scopes the controller's lifetime: when it
// is cancelled the controller is closed, exactly as if Close were called.
// Pass a long-lived context, not a per-request one.
func (c *Controller) Start(ctx context.Context) error {
	var first chan struct{}
	ok := c.do(func() {
		if !c.started {
			c.started = true
			if c.signals != nil {
				c.sub = c.signals.Subscribe(c.onSignal)
			}
			go c.closeWhenDone(ctx)
		}
		first = c.resume("start")
	})
	if !ok {
		return ErrClosed
	}
	if first == nil {
		return nil
	}

	select {
	case <-first:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop moves Running to Stopped and releases the ticker. In-flight fetches
// are left alone; their results will be discarded.
func (c *Controller) Stop() {
	c.do(func() { c.stop("stop") })
}

// Resume moves Stopped to Running with an immediate poll cycle. No-op when
// already running or never started.
func (c *Controller) Resume() {
	c.do(func() {
		if c.started {
			c.resume("resume")
		}
	})
}

// Refresh runs one poll cycle now, outside the ticker. It reports whether
// a cycle was started: refreshes are rate limited, ignored while Stopped,
// and subject to the single-flight guard.
func (c *Controller) Refresh() bool {
	var accepted bool
	c.do(func() {
		if c.state != Running {
			return
		}
		if !c.limiter.AllowN(c.clock.Now(), 1) {
			c.log.Debug("refresh rate limited")
			return
		}
		accepted = c.cycle(nil, "refresh")
	})
	return accepted
}

// Close tears the controller down: ticker stopped, subscription released,
// in-flight fetches cancelled. Safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.quit) })
	<-c.done
}

// Done is closed once the controller has shut down, whether by Close or by
// an Unload signal.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Status returns the latest read-only view. Never blocks.
func (c *Controller) Status() Status {
	return *c.status.Load()
}

// do runs fn on the loop and waits for it. Returns false once closed.
func (c *Controller) do(fn func()) bool {
	ran := make(chan struct{})
	select {
	case c.cmds <- func() { fn(); close(ran) }:
	case <-c.done:
		return false
	}
	select {
	case <-ran:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) onSignal(sig platform.Signal) {
	select {
	case c.sigs <- sig:
	case <-c.done:
	}
}

func (c *Controller) closeWhenDone(ctx context.Context) {
	select {
	case <-ctx.Done():
		c.Close()
	case <-c.done:
	}
}

func (c *Controller) loop() {
	defer close(c.done)

	for {
		var tickC <-chan time.Time
		if c.ticker != nil {
			tickC = c.ticker.C()
		}

		select {
		case <-c.quit:
			c.shutdown("close")
			return
		case fn := <-c.cmds:
			fn()
		case f := <-c.results:
			c.apply(f)
		case sig := <-c.sigs:
			if c.handleSignal(sig) {
				return
			}
		case <-tickC:
			c.tick()
		}
		c.publishStatus()
	}
}

// handleSignal reacts to one platform signal. Returns true on Unload.
func (c *Controller) handleSignal(sig platform.Signal) bool {
	c.log.Debug("signal %s while %s", sig, c.state)

	switch sig {
	case platform.Hidden:
		c.stop("hidden")
	case platform.Visible:
		c.resume("visible")
	case platform.Online:
		if c.state == Running {
			c.cycle(nil, "online")
		} else {
			c.resume("online")
		}
	case platform.Offline:
		c.goOffline(nil)
	case platform.Unload:
		c.shutdown("unload")
		return true
	}
	return false
}

func (c *Controller) tick() {
	if c.state != Running {
		return
	}
	c.cycle(nil, "tick")
}

// resume transitions Stopped to Running. It returns a channel closed when
// the immediate cycle completes, or nil if nothing happened.
func (c *Controller) resume(reason string) chan struct{} {
	if c.state != Stopped {
		return nil
	}
	c.state = Running
	c.epoch++
	c.inflight = 0
	c.ticker = c.clock.NewTicker(c.opts.Interval)
	c.log.Info("polling every %s (%s)", c.opts.Interval, reason)

	done := make(chan struct{})
	c.cycle(done, reason)
	return done
}

func (c *Controller) stop(reason string) {
	if c.state != Running {
		return
	}
	c.state = Stopped
	c.epoch++
	c.inflight = 0
	c.releaseTicker()
	c.log.Info("polling paused (%s)", reason)
}

func (c *Controller) shutdown(reason string) {
	if c.state == Closed {
		return
	}
	c.state = Closed
	c.epoch++
	c.inflight = 0
	c.releaseTicker()
	c.sub.Unsubscribe()
	c.sub = nil
	c.fetchCancel()
	c.log.Info("dashboard closed (%s)", reason)
	c.publishStatus()
}

func (c *Controller) releaseTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// cycle starts one fetch. done, when non-nil, is closed after the result
// has been handled. Returns false when the single-flight guard dropped it.
func (c *Controller) cycle(done chan struct{}, reason string) bool {
	if c.opts.SingleFlight && c.inflight > 0 {
		c.stats.Dropped++
		c.log.Debug("%s dropped: fetch already in flight", reason)
		if done != nil {
			close(done)
		}
		return false
	}

	c.inflight++
	c.stats.Cycles++
	epoch := c.epoch
	go c.fetch(epoch, done)
	return true
}

func (c *Controller) fetch(epoch uint64, done chan struct{}) {
	res := c.safeFetch()
	select {
	case c.results <- fetched{epoch: epoch, result: res, done: done}:
	case <-c.done:
	}
}

func (c *Controller) safeFetch() (res poller.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = poller.Result{Err: errors.New(errors.ErrFetch, fmt.Sprintf("Fetcher panicked: %v", r), "")}
		}
	}()
	return c.fetcher.Fetch(c.fetchCtx)
}

// apply runs the rest of a poll cycle on the loop.
func (c *Controller) apply(f fetched) {
	if f.done != nil {
		defer close(f.done)
	}

	if f.epoch != c.epoch || c.state != Running {
		c.stats.Discarded++
		c.log.Debug("discarding result from epoch %d (now %d, %s)", f.epoch, c.epoch, c.state)
		return
	}
	c.inflight--

	res := f.result
	c.lastLat = res.Latency

	switch {
	case res.Err != nil:
		c.stats.Failures++
		c.lastErr = res.Err
		c.log.Warn("fetch failed: %s", errors.Summary(res.Err))
		c.goOffline(res.Err)

	case !res.OK():
		c.stats.Rejected++
		c.log.Warn("invalid system data: %s", res.Snapshot.Reason())

	default:
		snap := res.Snapshot
		now := c.clock.Now()
		c.conn = Online
		c.lastErr = nil
		c.win.Append(now, snap.CPU().UsagePercent, snap.Memory().Percent, snap.Temperature().Celsius)

		for _, err := range Present(c.sink, snap) {
			c.renderFailed(err)
		}
		if err := c.sink.UpdateChart(c.win.Snapshot()); err != nil {
			c.renderFailed(err)
		}

		c.lastUp = now
		c.stats.Applied++
		if err := c.sink.SetConnection(Online, LabelLastUpdated+now.Format(c.opts.TimeLayout)); err != nil {
			c.renderFailed(err)
		}
	}
}

func (c *Controller) goOffline(cause error) {
	c.conn = Offline
	if cause == nil {
		c.log.Info("connection lost")
	}
	if err := c.sink.SetConnection(Offline, LabelConnectionLost); err != nil {
		c.renderFailed(err)
	}
}

func (c *Controller) renderFailed(err error) {
	c.stats.RenderErrors++
	c.log.Error("render: %s", errors.Summary(err))
}

func (c *Controller) publishStatus() {
	s := Status{
		State:        c.state,
		Connectivity: c.conn,
		LastUpdate:   c.lastUp,
		LastLatency:  c.lastLat,
		LastError:    c.lastErr,
		InFlight:     c.inflight,
		Window:       c.win.Snapshot(),
		Stats:        c.stats,
	}
	c.status.Store(&s)
}
