package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/ui"
)

// HealthOutput is the data of `health --json`.
type HealthOutput struct {
	Endpoint  string `json:"endpoint"`
	Healthy   bool   `json:"healthy"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

func healthCommand(ctx context.Context, w io.Writer, jsonOut bool) error {
	cfg, _, err := loadConfig(globalFlags)
	if err != nil {
		if jsonOut {
			_ = WriteJSONFromError(w, err)
			return errors.NewExitError(1)
		}
		return err
	}
	applyColorMode(cfg.Output.Color, isTerminal(os.Stdout))
	return runHealth(ctx, cfg, w, jsonOut)
}

// runHealth calls the health endpoint once. An unhealthy or unreachable
// server exits 1 after printing its line.
func runHealth(ctx context.Context, cfg *config.Config, w io.Writer, jsonOut bool) error {
	p, err := newPoller(cfg)
	if err != nil {
		if jsonOut {
			_ = WriteJSONFromError(w, err)
			return errors.NewExitError(1)
		}
		return err
	}

	report, err := p.Health(ctx)
	if jsonOut {
		if err != nil {
			_ = WriteJSONFromError(w, err)
			return errors.NewExitError(1)
		}
		if werr := WriteJSONSuccess(w, HealthOutput{
			Endpoint:  p.HealthURL(),
			Healthy:   report.Healthy(),
			Status:    report.Status,
			Timestamp: report.Timestamp,
			LatencyMS: report.Latency.Milliseconds(),
		}); werr != nil {
			return werr
		}
	} else {
		fmt.Fprintln(w, ui.RenderHealth(p.HealthURL(), report, err))
		if err != nil {
			fmt.Fprintf(w, "  %s\n", errors.Summary(err))
		}
	}

	if err != nil || !report.Healthy() {
		return errors.NewExitError(1)
	}
	return nil
}
