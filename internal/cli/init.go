package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/ui"
)

// initProbeTimeout bounds the health check init runs before saving.
const initProbeTimeout = 3 * time.Second

// InitOptions holds options for the init command.
type InitOptions struct {
	Endpoint       string // Pre-specified endpoint
	Path           string // Config path; defaults to ./.pidash.yaml
	Global         bool   // Write ~/.config/pidash/config.yaml instead
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults

	Out io.Writer
}

var intervalChoices = []time.Duration{
	time.Second, 2 * time.Second, 5 * time.Second, 10 * time.Second, 30 * time.Second,
}

// Init creates a config file.
func Init(ctx context.Context, opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
		if opts.Global {
			configPath = config.GlobalConfigPath()
		}
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			if opts.Endpoint == "" {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Config file already exists: %s", configPath),
					"Use --force to overwrite, or --endpoint to change just the endpoint")
			}
			return updateEndpoint(out, configPath, opts.Endpoint)
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Endpoint != "" {
		cfg.Endpoint = opts.Endpoint
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.ValidateEndpoint(cfg.Endpoint); err != nil {
		return err
	}

	// An unreachable Pi is common at setup time; it only warns.
	checkCtx, cancel := context.WithTimeout(ctx, initProbeTimeout)
	defer cancel()
	if err := runHealth(checkCtx, cfg, io.Discard, false); err != nil {
		fmt.Fprintf(out, "%s Couldn't confirm %s is up yet. Saving anyway.\n", ui.SymbolSkipped, cfg.Endpoint)
	} else {
		fmt.Fprintf(out, "%s %s is healthy\n", ui.SymbolSuccess, cfg.Endpoint)
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  pidash          - Open the dashboard")
	fmt.Fprintln(out, "  pidash once     - Print one reading")
	fmt.Fprintln(out, "  pidash health   - Check the metrics server")
	return nil
}

func promptConfig(cfg *config.Config) error {
	interval := cfg.Interval
	options := make([]huh.Option[time.Duration], 0, len(intervalChoices))
	for _, d := range intervalChoices {
		options = append(options, huh.NewOption(d.String(), d))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics endpoint").
				Description("Base URL of the Pi's metrics server").
				Placeholder("http://raspberrypi.local:5000").
				Value(&cfg.Endpoint).
				Validate(func(s string) error {
					if err := config.ValidateEndpoint(s); err != nil {
						return fmt.Errorf("%s", errors.Summary(err))
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[time.Duration]().
				Title("Poll interval").
				Options(options...).
				Value(&interval),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Pause polling while the terminal is unfocused?").
				Value(&cfg.PauseOnBlur),
			huh.NewConfirm().
				Title("Watch network reachability of the Pi?").
				Value(&cfg.Network.Enabled),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Interval = interval
	return nil
}

// updateEndpoint rewrites only the endpoint key, keeping the rest of the
// file (comments included) as it was.
func updateEndpoint(out io.Writer, path, endpoint string) error {
	if err := config.ValidateEndpoint(endpoint); err != nil {
		return err
	}
	if err := config.SetValue(path, "endpoint", endpoint); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to update "+path,
			"Check the file is valid YAML, or use --force to rewrite it")
	}
	fmt.Fprintf(out, "%s Updated endpoint in %s\n", ui.SymbolSuccess, path)
	return nil
}
