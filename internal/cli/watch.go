package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/logger"
	"github.com/rileyhilliard/pidash/internal/monitor"
	"github.com/rileyhilliard/pidash/internal/netwatch"
	"github.com/rileyhilliard/pidash/internal/platform"
	"github.com/rileyhilliard/pidash/internal/poller"
	"github.com/rileyhilliard/pidash/internal/render"
	"github.com/rileyhilliard/pidash/internal/ui"
)

// session is everything one watch run owns.
type session struct {
	cfg    *config.Config
	poller *poller.Poller
	board  *render.Board
	sink   *monitor.Sink
	bus    *platform.Bus
	ctrl   *dashboard.Controller
}

// newSession builds the poller, board, bus and controller for cfg. The
// controller is created Stopped.
func newSession(cfg *config.Config) (*session, error) {
	p, err := newPoller(cfg)
	if err != nil {
		return nil, err
	}

	board := render.NewBoard()
	sink := monitor.NewSink(board)
	bus := platform.NewBus()

	// config uses 0 for "no limit", the controller uses 0 for "default"
	refreshLimit := cfg.RefreshLimit
	if refreshLimit == 0 {
		refreshLimit = -1
	}

	ctrl := dashboard.New(p, sink, bus, dashboard.Options{
		Interval:     cfg.Interval,
		Capacity:     cfg.Window,
		SingleFlight: cfg.SingleFlight,
		TimeLayout:   cfg.TimeFormat,
		RefreshLimit: refreshLimit,
		Logger:       logger.NewEnvLogger("[dashboard]"),
	})

	return &session{
		cfg:    cfg,
		poller: p,
		board:  board,
		sink:   sink,
		bus:    bus,
		ctrl:   ctrl,
	}, nil
}

// start runs the first cycle in the background and, when enabled, the
// connectivity watcher. Both stop with ctx.
func (s *session) start(ctx context.Context) error {
	if s.cfg.Network.Enabled {
		addr, err := poller.Address(s.cfg.Endpoint)
		if err != nil {
			return err
		}
		w := netwatch.New(s.bus, netwatch.Options{
			Address:  addr,
			Interval: s.cfg.Network.Interval,
			Timeout:  s.cfg.Network.Timeout,
			Logger:   logger.NewEnvLogger("[netwatch]"),
		})
		go w.Run(ctx)
	}

	go func() {
		if err := s.ctrl.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Default().Warn("start: %s", errors.Summary(err))
		}
	}()
	return nil
}

// shutdown publishes Unload and waits for the controller to finish.
func (s *session) shutdown() {
	s.bus.Publish(platform.Unload)
	s.ctrl.Close()
	<-s.ctrl.Done()
}

func watchCommand(ctx context.Context) error {
	cfg, _, err := loadConfig(globalFlags)
	if err != nil {
		return err
	}

	tty := isTerminal(os.Stdout)
	applyColorMode(cfg.Output.Color, tty)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.shutdown()

	if !tty {
		if err := s.start(ctx); err != nil {
			return err
		}
		return watchLines(ctx, s, os.Stdout)
	}

	closeLog, err := redirectLog(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := s.start(ctx); err != nil {
		return err
	}
	return watchTUI(ctx, s)
}

// linePoll backs up sink notifications in line mode; a notification can
// arrive before the controller has published the status it belongs to.
const linePoll = 250 * time.Millisecond

// lineKey identifies one printable state of the controller.
type lineKey struct {
	applied int
	conn    dashboard.Connectivity
	err     string
}

// watchLines prints one plain line each time the controller applies a
// snapshot or changes connectivity, until ctx ends or the controller closes.
func watchLines(ctx context.Context, s *session, w io.Writer) error {
	tick := time.NewTicker(linePoll)
	defer tick.Stop()

	var last lineKey
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.ctrl.Done():
			return nil
		case <-s.sink.Changes():
		case <-tick.C:
		}

		st := s.ctrl.Status()
		key := lineKey{applied: st.Stats.Applied, conn: st.Connectivity, err: errors.Summary(st.LastError)}
		if key == last {
			continue
		}
		last = key

		line := ui.PlainLine(s.board.View())
		if key.err != "" && st.Connectivity == dashboard.Offline {
			line += " (" + key.err + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
}

func watchTUI(ctx context.Context, s *session) error {
	model := monitor.NewModel(s.board, s.ctrl, s.bus, monitor.Options{
		Endpoint:    s.poller.MetricsURL(),
		Interval:    s.cfg.Interval,
		TimeLayout:  s.cfg.TimeFormat,
		PauseOnBlur: s.cfg.PauseOnBlur,
	})

	prog := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	fwdCtx, cancelFwd := context.WithCancel(ctx)
	defer cancelFwd()
	go s.sink.Forward(fwdCtx, prog.Send)

	_, err := prog.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRender,
			"Dashboard stopped unexpectedly",
			"Try 'pidash watch | cat' for plain output")
	}
	return nil
}

// redirectLog keeps log output off the alternate screen: into path when
// set, otherwise nowhere.
func redirectLog(path string) (func(), error) {
	if path == "" {
		prev := log.Writer()
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(prev) }, nil
	}

	f, err := tea.LogToFile(config.ExpandTilde(path), "pidash")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't open log file "+path,
			"Check output.log_file in your config")
	}
	return func() {
		_ = f.Close()
		log.SetOutput(os.Stderr)
	}, nil
}
