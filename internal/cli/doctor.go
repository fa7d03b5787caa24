package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/doctor"
	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/ui"
)

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	JSON bool
	Fix  bool
	Out  io.Writer
}

func doctorCommand(ctx context.Context, opts DoctorOptions) error {
	// load errors become a failed CONFIG check rather than an early exit
	cfg, _, loadErr := resolveConfig(globalFlags)
	if cfg == nil {
		cfg = config.DefaultConfig()
		if globalFlags.Endpoint != "" {
			cfg.Endpoint = globalFlags.Endpoint
		}
	}
	applyColorMode(cfg.Output.Color, isTerminal(os.Stdout))

	checks := collectChecks(globalFlags.Config, cfg, loadErr)
	return runDoctor(ctx, checks, opts)
}

// collectChecks gathers the diagnostic checks. Network and server checks
// only run when the endpoint is usable.
func collectChecks(explicit string, cfg *config.Config, loadErr error) []doctor.Check {
	checks := doctor.NewConfigChecks(explicit, config.ConfigFileName, cfg, loadErr)

	if config.ValidateEndpoint(cfg.Endpoint) == nil {
		checks = append(checks, doctor.NewNetworkChecks(cfg.Endpoint, cfg.Network.Timeout)...)
		if p, err := newPoller(cfg); err == nil {
			checks = append(checks, doctor.NewServerChecks(p, cfg.Interval)...)
		}
	}

	return append(checks, &doctor.TerminalCheck{Out: os.Stdout})
}

func runDoctor(ctx context.Context, checks []doctor.Check, opts DoctorOptions) error {
	results := doctor.Run(ctx, checks)
	if opts.Fix {
		results = doctor.ApplyFixes(ctx, checks, results)
	}

	if opts.JSON {
		if err := WriteJSONSuccess(opts.Out, doctorJSON(checks, results)); err != nil {
			return err
		}
	} else {
		renderDoctorText(opts.Out, checks, results, opts.Fix)
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

func doctorJSON(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(checks)
	out := DoctorOutput{Categories: make([]CategoryOutput, 0, len(grouped))}

	for _, cat := range doctor.CategoryOrder {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		co := CategoryOutput{Name: cat}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		out.Categories = append(out.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	out.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return out
}

func renderDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("pidash Diagnostic Report"))
	fmt.Fprintln(w)

	grouped := doctor.GroupByCategory(checks)
	for _, category := range doctor.CategoryOrder {
		indices := grouped[category]
		if len(indices) == 0 {
			continue
		}

		fmt.Fprintln(w, headerStyle.Render(category))
		for _, idx := range indices {
			result := results[idx]

			symbol, style := ui.SymbolSuccess, successStyle
			switch result.Status {
			case doctor.StatusWarn:
				symbol, style = ui.SymbolSkipped, warnStyle
			case doctor.StatusFail:
				symbol, style = ui.SymbolFail, errorStyle
			}
			fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)

			if result.Suggestion != "" && result.Status != doctor.StatusPass {
				for _, line := range strings.Split(result.Suggestion, "\n") {
					fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
				}
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Run with %s to attempt automatic fixes where possible.\n", mutedStyle.Render("--fix"))
		}
	}
	fmt.Fprintln(w)
}
