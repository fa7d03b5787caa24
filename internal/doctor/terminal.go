package doctor

import (
	"context"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TerminalCheck reports whether stdout can host the dashboard and which
// color profile it gets.
type TerminalCheck struct {
	Out *os.File
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run(ctx context.Context) CheckResult {
	if !term.IsTerminal(int(c.Out.Fd())) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "stdout is not a terminal; watch prints plain lines",
			Suggestion: "Run pidash directly in a terminal for the dashboard",
		}
	}

	w, h, err := term.GetSize(int(c.Out.Fd()))
	profile := profileName(termenv.NewOutput(c.Out).Profile)
	if err == nil && (w < 80 || h < 24) {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Terminal is small; the dashboard drops the chart and footer below 80x24",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Terminal with " + profile + " color",
	}
}

func (c *TerminalCheck) Fix() error { return nil }

func profileName(p termenv.Profile) string {
	switch p {
	case termenv.TrueColor:
		return "true"
	case termenv.ANSI256:
		return "256"
	case termenv.ANSI:
		return "16"
	default:
		return "no"
	}
}
