package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/logger"
	"github.com/rileyhilliard/pidash/internal/ui"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	Config   string
	Endpoint string
	Interval string
	NoColor  bool
	Verbose  bool
}

var globalFlags GlobalFlags

// AddGlobalFlags registers --config, --endpoint, --interval, --no-color and
// --verbose on cmd.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.Config, "config", "", "config file (default: .pidash.yaml, then ~/.config/pidash/config.yaml)")
	pf.StringVarP(&flags.Endpoint, "endpoint", "e", "", "metrics server base URL (e.g., http://raspberrypi.local:5000)")
	pf.StringVar(&flags.Interval, "interval", "", "poll interval (e.g., 2s, 5s, 1m)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "print debug logs")
}

func applyGlobalFlags(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(globalFlags.Verbose)
	if globalFlags.NoColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColors()
	}
	return nil
}

// ParseInterval parses an --interval value. Returns zero if the flag is empty.
func ParseInterval(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 5s, or 500ms.")
	}
	return d, nil
}

// loadConfig finds and loads the config, applies flag overrides, and
// validates the result. The path is empty when no file was found.
func loadConfig(flags GlobalFlags) (*config.Config, string, error) {
	cfg, path, err := resolveConfig(flags)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// resolveConfig is loadConfig without validation.
func resolveConfig(flags GlobalFlags) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(flags.Config)
	if err != nil {
		return nil, "", err
	}

	if flags.Endpoint != "" {
		cfg.Endpoint = flags.Endpoint
	}
	interval, err := ParseInterval(flags.Interval)
	if err != nil {
		return nil, "", err
	}
	if interval > 0 {
		cfg.Interval = interval
	}
	return cfg, path, nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// applyColorMode honors output.color once the config is known. --no-color
// always wins.
func applyColorMode(mode string, tty bool) {
	switch {
	case globalFlags.NoColor:
		ui.DisableColors()
	case mode == "never":
		ui.DisableColors()
	case mode == "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	case !tty:
		ui.DisableColors()
	}
}
