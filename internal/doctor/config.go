package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/errors"
)

// ConfigFileCheck reports which config file is in use. Running on
// defaults alone is a warning; Fix writes them to Target.
type ConfigFileCheck struct {
	ConfigPath string         // explicit --config path, or empty to search
	Target     string         // where Fix writes a config
	Defaults   *config.Config // what Fix writes; DefaultConfig when nil
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Error finding config: " + errors.Summary(err),
			Suggestion: "Check the --config path or run 'pidash init'",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using defaults",
			Suggestion: "Run 'pidash init' (or doctor --fix) to write " + config.ConfigFileName,
			Fixable:    c.Target != "",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

func (c *ConfigFileCheck) Fix() error {
	if c.Target == "" {
		return fmt.Errorf("no target path")
	}
	cfg := c.Defaults
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return config.Save(c.Target, cfg)
}

// ConfigValidCheck validates the effective config: file, environment and
// flags together.
type ConfigValidCheck struct {
	Config *config.Config
	Err    error // load error, if loading already failed
}

func (c *ConfigValidCheck) Name() string     { return "config_valid" }
func (c *ConfigValidCheck) Category() string { return CategoryConfig }

func (c *ConfigValidCheck) Run(ctx context.Context) CheckResult {
	err := c.Err
	if err == nil {
		err = config.Validate(c.Config)
	}
	if err != nil {
		res := CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Config invalid: " + errors.Summary(err),
		}
		var pdErr *errors.Error
		if stderrors.As(err, &pdErr) {
			res.Suggestion = pdErr.Suggestion
		}
		return res
	}

	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("Endpoint %s, every %s, %d-sample window",
			c.Config.Endpoint, c.Config.Interval, c.Config.Window),
	}
}

func (c *ConfigValidCheck) Fix() error {
	return nil // validation errors need a human
}

// NewConfigChecks returns the CONFIG checks. fixTarget is where --fix may
// write a config; empty disables the fix.
func NewConfigChecks(explicit, fixTarget string, cfg *config.Config, loadErr error) []Check {
	if fixTarget != "" && !filepath.IsAbs(fixTarget) {
		if abs, err := filepath.Abs(fixTarget); err == nil {
			fixTarget = abs
		}
	}
	return []Check{
		&ConfigFileCheck{ConfigPath: explicit, Target: fixTarget, Defaults: cfg},
		&ConfigValidCheck{Config: cfg, Err: loadErr},
	}
}
