// Package cli implements the pidash command-line interface.
//
// # Command Structure
//
// The root command runs the dashboard; subcommands cover one-shot use:
//
//	pidash              - Live dashboard (same as pidash watch)
//	pidash watch        - Live dashboard; one line per update when piped
//	pidash once         - Fetch one reading and print it (--json for machines)
//	pidash health       - Call the health endpoint
//	pidash init         - Create .pidash.yaml
//	pidash doctor       - Diagnose config, network and server issues
//	pidash version      - Print version information
//	pidash completion   - Generate shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --endpoint, --interval, --no-color, --verbose)
// live on the root command. Flag values override the config file, which
// overrides PIDASH_* environment variables only where the file is silent
// (see config.Load).
//
// # Watch Lifecycle
//
// watch wires the pieces together:
//
//	poller -> dashboard.Controller -> monitor.Sink -> render.Board -> monitor.Model
//	                ^
//	platform.Bus ---+--- terminal focus (Visible/Hidden)
//	                +--- netwatch (Online/Offline)
//	                +--- SIGINT/SIGTERM and quitting (Unload)
//
// # Error Handling
//
// Commands return *errors.Error values, which Execute prints in the
// three-part "what / why / fix" layout. Commands that already reported
// their outcome return an errors.ExitError with just the exit code.
package cli
