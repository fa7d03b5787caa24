// Package netwatch probes the metrics host and publishes Online/Offline
// signals when reachability changes. It plays the part a browser's
// connectivity events play for a web dashboard.
package netwatch

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/rileyhilliard/pidash/internal/logger"
	"github.com/rileyhilliard/pidash/internal/platform"
)

const (
	DefaultInterval = 3 * time.Second
	DefaultTimeout  = 2 * time.Second
)

// DialFunc opens a connection. net.Dialer.DialContext satisfies it.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Publisher receives connectivity signals. *platform.Bus satisfies it.
type Publisher interface {
	Publish(platform.Signal)
}

// Options configures a Watcher.
type Options struct {
	Address  string // host:port to probe
	Interval time.Duration
	Timeout  time.Duration
	Dial     DialFunc
	Logger   logger.Logger
}

// Watcher polls reachability of one address.
type Watcher struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	dial     DialFunc
	pub      Publisher
	log      logger.Logger

	mu     sync.Mutex
	online bool
}

// New creates a watcher. The host is assumed online until a probe fails,
// so the first publish only happens on a real change.
func New(pub Publisher, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Dial == nil {
		d := &net.Dialer{}
		opts.Dial = d.DialContext
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	return &Watcher{
		addr:     opts.Address,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		dial:     opts.Dial,
		pub:      pub,
		log:      opts.Logger,
		online:   true,
	}
}

// Online returns the last observed reachability.
func (w *Watcher) Online() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online
}

// Run probes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Probe(ctx)
		}
	}
}

// Probe dials once and publishes if reachability changed. It returns the
// observed state.
func (w *Watcher) Probe(ctx context.Context) bool {
	dctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	conn, err := w.dial(dctx, "tcp", w.addr)
	up := err == nil
	if conn != nil {
		conn.Close()
	}
	if ctx.Err() != nil {
		// shutting down; a cancelled dial says nothing about the network
		return w.Online()
	}

	w.mu.Lock()
	changed := up != w.online
	w.online = up
	w.mu.Unlock()

	if !changed {
		return up
	}
	if up {
		w.log.Info("%s reachable again", w.addr)
		w.pub.Publish(platform.Online)
	} else {
		w.log.Warn("%s unreachable: %v", w.addr, err)
		w.pub.Publish(platform.Offline)
	}
	return up
}
