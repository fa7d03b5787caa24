package doctor

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rileyhilliard/pidash/internal/netwatch"
	"github.com/rileyhilliard/pidash/internal/platform"
	"github.com/rileyhilliard/pidash/internal/poller"
)

// Resolver looks up host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ResolveCheck verifies the endpoint's host name resolves.
type ResolveCheck struct {
	Endpoint string
	Resolver Resolver
}

func (c *ResolveCheck) Name() string     { return "endpoint_dns" }
func (c *ResolveCheck) Category() string { return CategoryNetwork }

func (c *ResolveCheck) Run(ctx context.Context) CheckResult {
	addr, err := poller.Address(c.Endpoint)
	if err != nil {
		return CheckResult{Name: c.Name(), Status: StatusFail, Message: "Endpoint has no usable host"}
	}
	host, _, _ := net.SplitHostPort(addr)
	if net.ParseIP(host) != nil {
		return CheckResult{Name: c.Name(), Status: StatusPass, Message: host + " is an IP address"}
	}

	addrs, err := c.Resolver.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		res := CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Couldn't resolve %s", host),
			Suggestion: "Check the host name, or use the Pi's IP address",
		}
		if strings.HasSuffix(host, ".local") {
			res.Suggestion = "mDNS names need avahi/Bonjour on both ends; try the Pi's IP address"
		}
		return res
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s resolves to %s", host, strings.Join(addrs, ", ")),
	}
}

func (c *ResolveCheck) Fix() error { return nil }

// ReachCheck opens a TCP connection to the endpoint the same way the
// connectivity watcher does.
type ReachCheck struct {
	Endpoint string
	Timeout  time.Duration
	Dial     netwatch.DialFunc // nil uses net.Dialer
}

func (c *ReachCheck) Name() string     { return "endpoint_tcp" }
func (c *ReachCheck) Category() string { return CategoryNetwork }

func (c *ReachCheck) Run(ctx context.Context) CheckResult {
	addr, err := poller.Address(c.Endpoint)
	if err != nil {
		return CheckResult{Name: c.Name(), Status: StatusFail, Message: "Endpoint has no usable address"}
	}

	w := netwatch.New(platform.NewBus(), netwatch.Options{
		Address: addr,
		Timeout: c.Timeout,
		Dial:    c.Dial,
	})
	start := time.Now()
	if !w.Probe(ctx) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Can't connect to %s", addr),
			Suggestion: "Check the Pi is powered on and the metrics server is listening on that port",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Connected to %s (%s)", addr, time.Since(start).Round(time.Millisecond)),
	}
}

func (c *ReachCheck) Fix() error { return nil }

// NewNetworkChecks returns the NETWORK checks for endpoint.
func NewNetworkChecks(endpoint string, timeout time.Duration) []Check {
	return []Check{
		&ResolveCheck{Endpoint: endpoint, Resolver: net.DefaultResolver},
		&ReachCheck{Endpoint: endpoint, Timeout: timeout},
	}
}
