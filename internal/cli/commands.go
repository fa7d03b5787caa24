package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pidash/internal/errors"
)

// Command-specific flags
var (
	onceJSON           bool
	healthJSON         bool
	initForce          bool
	initNonInteractive bool
	initGlobal         bool
	doctorJSONFlag     bool
	doctorFix          bool
)

// watchCmd runs the live dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard (the default command)",
	Long: `Poll the metrics endpoint and show a live dashboard.

When stdout is not a terminal, prints one plain line per update instead.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  p           Pause / resume polling
  ?           Show help

Examples:
  pidash watch
  pidash watch --interval 2s
  pidash watch | tee pi.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context())
	},
}

// onceCmd fetches a single reading
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Fetch one reading and print it",
	Long: `Fetch a single snapshot from the metrics endpoint and print it as a table.

With --json, prints the snapshot and readout in a JSON envelope and exits
non-zero on failure.

Examples:
  pidash once
  pidash once --json | jq .data.snapshot.cpu`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return onceCommand(cmd.Context(), OnceOptions{
			JSON:    onceJSON,
			Out:     cmd.OutOrStdout(),
			Err:     cmd.ErrOrStderr(),
			Animate: isTerminal(os.Stderr),
		})
	},
}

// healthCmd calls the health endpoint
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the metrics server's health endpoint",
	Long: `Call the health endpoint and report the server's status.

Exits 1 when the server is unreachable or not healthy.

Examples:
  pidash health
  pidash health --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return healthCommand(cmd.Context(), cmd.OutOrStdout(), healthJSON)
	},
}

// initCmd creates a new .pidash.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .pidash.yaml configuration",
	Long: `Create a pidash configuration file.

Creates .pidash.yaml in the current directory (or the global config with
--global), guiding you through the endpoint and polling options.

Examples:
  pidash init
  pidash init --endpoint http://raspberrypi.local:5000 --non-interactive
  pidash init --global --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.Context(), InitOptions{
			Endpoint:       globalFlags.Endpoint,
			Global:         initGlobal,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
			Out:            cmd.OutOrStdout(),
		})
	},
}

// doctorCmd diagnoses config, network and server issues
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, network and server issues",
	Long: `Run diagnostic checks to find out why the dashboard isn't showing data.

Checks:
  - Config file and validation
  - DNS and TCP reachability of the endpoint
  - Health endpoint and a test metrics fetch
  - Readings (temperature, storage)
  - Terminal capabilities

Examples:
  pidash doctor
  pidash doctor --fix
  pidash doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), DoctorOptions{
			JSON: doctorJSONFlag,
			Fix:  doctorFix,
			Out:  cmd.OutOrStdout(),
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for pidash.

Examples:
  # Bash
  pidash completion bash > /etc/bash_completion.d/pidash

  # Zsh
  pidash completion zsh > "${fpath[1]}/_pidash"

  # Fish
  pidash completion fish > ~/.config/fish/completions/pidash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrExec,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	AddGlobalFlags(rootCmd, &globalFlags)

	onceCmd.Flags().BoolVar(&onceJSON, "json", false, "output as JSON")
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
	doctorCmd.Flags().BoolVar(&doctorJSONFlag, "json", false, "output as JSON")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts, use defaults and flags")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write the global config instead of ./.pidash.yaml")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(onceCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}
