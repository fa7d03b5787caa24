package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/logger"
	"github.com/rileyhilliard/pidash/internal/poller"
	"github.com/rileyhilliard/pidash/internal/render"
	"github.com/rileyhilliard/pidash/internal/snapshot"
	"github.com/rileyhilliard/pidash/internal/ui"
)

// OnceOptions holds options for the once command.
type OnceOptions struct {
	JSON bool

	// Out receives the readout; Err receives progress. Animate turns on
	// the spinner.
	Out     io.Writer
	Err     io.Writer
	Animate bool
}

// OnceOutput is the data of a successful `once --json`.
type OnceOutput struct {
	Endpoint  string             `json:"endpoint"`
	LatencyMS int64              `json:"latency_ms"`
	FetchedAt time.Time          `json:"fetched_at"`
	Snapshot  *snapshot.Snapshot `json:"snapshot"`
	Readout   []ui.ReadoutRow    `json:"readout"`
}

func newPoller(cfg *config.Config) (*poller.Poller, error) {
	return poller.New(poller.Options{
		Endpoint:    cfg.Endpoint,
		MetricsPath: cfg.MetricsPath,
		HealthPath:  cfg.HealthPath,
		Timeout:     cfg.Timeout,
		UserAgent:   userAgent(),
		Logger:      logger.NewEnvLogger("[poller]"),
	})
}

func onceCommand(ctx context.Context, opts OnceOptions) error {
	cfg, _, err := loadConfig(globalFlags)
	if err != nil {
		if opts.JSON {
			_ = WriteJSONFromError(opts.Out, err)
			return errors.NewExitError(1)
		}
		return err
	}
	applyColorMode(cfg.Output.Color, opts.Animate)
	return runOnce(ctx, cfg, opts)
}

// runOnce fetches a single reading, presents it to a fresh board and prints
// the result. Rejected snapshots are failures here, same as a transport
// error.
func runOnce(ctx context.Context, cfg *config.Config, opts OnceOptions) error {
	p, err := newPoller(cfg)
	if err != nil {
		return onceFailed(opts, err)
	}

	var spin *ui.Spinner
	if !opts.JSON {
		spin = ui.NewSpinner(opts.Err, "Fetching "+p.MetricsURL(), opts.Animate)
		spin.Start()
	}

	res := p.Fetch(ctx)
	if res.Err == nil && !res.OK() {
		res.Err = errors.New(errors.ErrFetch,
			"Snapshot rejected by the server",
			"The metrics server reported: "+res.Snapshot.Reason())
	}
	if res.Err != nil {
		if spin != nil {
			spin.Fail(errors.Summary(res.Err))
		}
		return onceFailed(opts, res.Err)
	}
	if spin != nil {
		spin.Success("")
	}

	board := render.NewBoard()
	if errs := dashboard.Present(board, res.Snapshot); len(errs) > 0 {
		for _, e := range errs {
			logger.Default().Warn("render: %v", e)
		}
	}
	fetchedAt := time.Now()
	_ = board.SetConnection(dashboard.Online, "Last updated: "+fetchedAt.Format(cfg.TimeFormat))
	view := board.View()

	if opts.JSON {
		return WriteJSONSuccess(opts.Out, OnceOutput{
			Endpoint:  p.MetricsURL(),
			LatencyMS: res.Latency.Milliseconds(),
			FetchedAt: fetchedAt,
			Snapshot:  res.Snapshot,
			Readout:   ui.ReadoutRows(view),
		})
	}

	_, err = fmt.Fprint(opts.Out, ui.RenderReadout(view))
	return err
}

// onceFailed reports err in JSON mode and returns the exit code, otherwise
// it hands err back to Execute.
func onceFailed(opts OnceOptions, err error) error {
	if !opts.JSON {
		return err
	}
	if writeErr := WriteJSONFromError(opts.Out, err); writeErr != nil {
		return writeErr
	}
	return errors.NewExitError(1)
}
