package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/poller"
	"github.com/rileyhilliard/pidash/internal/snapshot"
	"github.com/rileyhilliard/pidash/internal/status"
)

// Server is the part of a poller the SERVER checks use.
type Server interface {
	MetricsURL() string
	HealthURL() string
	Fetch(ctx context.Context) poller.Result
	Health(ctx context.Context) (poller.HealthReport, error)
}

// HealthCheck calls the health endpoint.
type HealthCheck struct {
	Server Server
}

func (c *HealthCheck) Name() string     { return "server_health" }
func (c *HealthCheck) Category() string { return CategoryServer }

func (c *HealthCheck) Run(ctx context.Context) CheckResult {
	report, err := c.Server.Health(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Health check failed: " + errors.Summary(err),
			Suggestion: "Check health_path, or that the server exposes " + c.Server.HealthURL(),
		}
	}
	if !report.Healthy() {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: fmt.Sprintf("Server reports %q", report.Status),
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Server healthy (%s)", report.Latency.Round(time.Millisecond)),
	}
}

func (c *HealthCheck) Fix() error { return nil }

// MetricsCheck fetches one snapshot and checks it decodes, isn't rejected
// and arrives well within the poll interval.
type MetricsCheck struct {
	Server   Server
	Interval time.Duration

	// Snapshot is the last good snapshot, for ReadingsCheck.
	Snapshot *snapshot.Snapshot
}

func (c *MetricsCheck) Name() string     { return "server_metrics" }
func (c *MetricsCheck) Category() string { return CategoryServer }

func (c *MetricsCheck) Run(ctx context.Context) CheckResult {
	c.Snapshot = nil
	res := c.Server.Fetch(ctx)
	if res.Err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Metrics fetch failed: " + errors.Summary(res.Err),
			Suggestion: "Check metrics_path; pidash expects the document at " + c.Server.MetricsURL(),
		}
	}
	if res.Snapshot.Rejected() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Server returned an error instead of metrics: " + res.Snapshot.Reason(),
			Suggestion: "Check the metrics server's logs on the Pi",
		}
	}

	c.Snapshot = res.Snapshot
	latency := res.Latency.Round(time.Millisecond)
	if c.Interval > 0 && res.Latency > c.Interval/2 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Metrics took %s, more than half the %s interval", latency, c.Interval),
			Suggestion: "Raise interval or enable single_flight to avoid overlapping polls",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Metrics OK from %s (%s)", status.FormatOrUnknown(res.Snapshot.System().Hostname), latency),
	}
}

func (c *MetricsCheck) Fix() error { return nil }

// DiskNearlyFull is the storage percentage ReadingsCheck warns at.
const DiskNearlyFull = 90.0

// ReadingsCheck looks at the snapshot MetricsCheck fetched and flags a hot
// CPU or a nearly full disk. It must run after MetricsCheck.
type ReadingsCheck struct {
	Metrics *MetricsCheck
}

func (c *ReadingsCheck) Name() string     { return "server_readings" }
func (c *ReadingsCheck) Category() string { return CategoryServer }

func (c *ReadingsCheck) Run(ctx context.Context) CheckResult {
	snap := c.Metrics.Snapshot
	if snap == nil {
		return CheckResult{Name: c.Name(), Status: StatusWarn, Message: "No readings to inspect"}
	}

	celsius := snap.Temperature().Celsius
	if status.TemperatureState(celsius) == status.TempHot {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("CPU is hot: %s°C", status.FormatNumber(celsius)),
			Suggestion: "Check cooling; the Pi throttles around 80°C",
		}
	}
	if disk := snap.Storage().Percent; disk >= DiskNearlyFull {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Storage nearly full: " + status.FormatPercent(disk),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Readings normal (%s°C, disk %s)", status.FormatNumber(celsius), status.FormatPercent(snap.Storage().Percent)),
	}
}

func (c *ReadingsCheck) Fix() error { return nil }

// NewServerChecks returns the SERVER checks. They share state and must run
// in order.
func NewServerChecks(srv Server, interval time.Duration) []Check {
	metrics := &MetricsCheck{Server: srv, Interval: interval}
	return []Check{
		&HealthCheck{Server: srv},
		metrics,
		&ReadingsCheck{Metrics: metrics},
	}
}
