package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	versionShort bool
	versionJSON  bool
)

// VersionOutput is the --json payload of the version command.
type VersionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	UserAgent string `json:"user_agent"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build date of pidash.

The user agent line is what pidash sends to the metrics server, which is
handy when matching requests in the server's access log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeVersion(cmd.OutOrStdout(), versionShort, versionJSON)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output in JSON format")
}

func writeVersion(out io.Writer, short, jsonOut bool) error {
	info := currentVersion()
	if jsonOut {
		return WriteJSONSuccess(out, info)
	}
	if short {
		_, err := fmt.Fprintln(out, version)
		return err
	}

	_, err := fmt.Fprintf(out, "pidash %s\ncommit: %s\nbuilt: %s\ngo: %s\nos/arch: %s\nuser agent: %s\n",
		info.Version, info.Commit, info.BuiltAt, info.GoVersion, info.Platform, info.UserAgent)
	return err
}

func currentVersion() VersionOutput {
	return VersionOutput{
		Version:   formatVersion(version),
		Commit:    commit,
		BuiltAt:   date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		UserAgent: userAgent(),
	}
}

func userAgent() string {
	return "pidash/" + version
}

// formatVersion adds a 'v' prefix to release versions.
func formatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

// SetVersionInfo is called from main with the ldflags values.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// GetVersion returns the current version string.
func GetVersion() string {
	return version
}
