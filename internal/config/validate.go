package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/pidash/internal/errors"
)

// ValidColorModes are the accepted output.color values.
var ValidColorModes = []string{"auto", "always", "never"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pidash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pidash, or set version: 1")
	}

	if err := ValidateEndpoint(cfg.Endpoint); err != nil {
		return err
	}

	for name, p := range map[string]string{"metrics_path": cfg.MetricsPath, "health_path": cfg.HealthPath} {
		if !strings.HasPrefix(p, "/") {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s '%s' must start with /", name, p),
				fmt.Sprintf("Try %s: /%s", name, strings.TrimLeft(p, "/")))
		}
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("interval %s is too short (minimum %s)", cfg.Interval, MinInterval),
			"The dashboard polls every interval; something like 5s is plenty.")
	}

	if err := positive("timeout", cfg.Timeout); err != nil {
		return err
	}
	if cfg.RefreshLimit < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_limit can't be negative (got %s)", cfg.RefreshLimit),
			"Use 0 to allow unlimited manual refreshes.")
	}

	if cfg.Window < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("window must hold at least one sample (got %d)", cfg.Window),
			fmt.Sprintf("The default is %d.", DefaultWindow))
	}

	if strings.TrimSpace(cfg.TimeFormat) == "" {
		return errors.New(errors.ErrConfig,
			"time_format is empty",
			"Use a Go time layout such as 15:04:05.")
	}

	if cfg.Network.Enabled {
		if err := positive("network.interval", cfg.Network.Interval); err != nil {
			return err
		}
		if err := positive("network.timeout", cfg.Network.Timeout); err != nil {
			return err
		}
	}

	return validateOutput(cfg.Output)
}

// ValidateEndpoint checks that endpoint is an http(s) URL or a bare host.
func ValidateEndpoint(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return errors.New(errors.ErrConfig,
			"No endpoint configured",
			"Set endpoint in .pidash.yaml, pass --endpoint, or run 'pidash init'.")
	}

	raw := endpoint
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' isn't a valid URL", endpoint),
			"Use something like http://raspberrypi.local:5000")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint scheme '%s' isn't supported", u.Scheme),
			"Use http:// or https://")
	}
	if u.Hostname() == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' has no host", endpoint),
			"Use something like http://raspberrypi.local:5000")
	}
	return nil
}

func positive(name string, d time.Duration) error {
	if d <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s must be positive (got %s)", name, d),
			"Use a duration like 2s or 500ms.")
	}
	return nil
}

func validateOutput(out OutputConfig) error {
	for _, m := range ValidColorModes {
		if out.Color == m {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("output.color '%s' isn't valid", out.Color),
		"Use one of: "+strings.Join(ValidColorModes, ", "))
}
