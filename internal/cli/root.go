package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pidash/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "pidash",
	Short: "Terminal dashboard for a Raspberry Pi metrics endpoint",
	Long: `pidash polls a Raspberry Pi's /api/system endpoint and shows CPU, memory,
temperature, storage, network and uptime, with a rolling history chart.

Run without a subcommand to open the live dashboard.

Examples:
  pidash --endpoint http://raspberrypi.local:5000
  pidash once --json
  pidash health`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyGlobalFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context())
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if code, ok := errors.GetExitCode(err); ok {
			os.Exit(code)
		}
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders structured errors as-is and gives anything else
// (cobra usage errors, mostly) the same leading mark.
func formatError(err error) string {
	var pdErr *errors.Error
	if stderrors.As(err, &pdErr) {
		return pdErr.Error()
	}
	return "✗ " + err.Error() + "\n"
}
