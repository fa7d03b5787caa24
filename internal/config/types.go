package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Defaults and limits.
const (
	DefaultEndpoint     = "http://raspberrypi.local"
	DefaultMetricsPath  = "/api/system"
	DefaultHealthPath   = "/api/health"
	DefaultInterval     = 5 * time.Second
	MinInterval         = 500 * time.Millisecond
	DefaultTimeout      = 10 * time.Second
	DefaultWindow       = 20
	DefaultTimeFormat   = "15:04:05"
	DefaultRefreshLimit = time.Second
	DefaultProbeEvery   = 3 * time.Second
	DefaultProbeTimeout = 2 * time.Second
)

// Config represents the complete .pidash.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Endpoint is the base URL of the metrics server. A bare host gets http://.
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	MetricsPath string `yaml:"metrics_path" mapstructure:"metrics_path"`
	HealthPath  string `yaml:"health_path" mapstructure:"health_path"`

	// Interval between poll cycles.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds a single request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Window is how many samples the history chart keeps.
	Window int `yaml:"window" mapstructure:"window"`

	// SingleFlight skips a tick while the previous request is still out.
	SingleFlight bool `yaml:"single_flight" mapstructure:"single_flight"`

	// PauseOnBlur stops polling while the terminal is unfocused.
	PauseOnBlur bool `yaml:"pause_on_blur" mapstructure:"pause_on_blur"`

	// TimeFormat is a Go time layout for chart labels and "Last updated".
	TimeFormat string `yaml:"time_format" mapstructure:"time_format"`

	// RefreshLimit is the minimum gap between manual refreshes.
	RefreshLimit time.Duration `yaml:"refresh_limit" mapstructure:"refresh_limit"`

	Network NetworkConfig `yaml:"network" mapstructure:"network"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// NetworkConfig controls the connectivity watcher.
type NetworkConfig struct {
	// Enabled turns on TCP probing of the endpoint.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Interval between probes.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout for a single probe.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`

	// LogFile receives debug logs while the dashboard owns the terminal.
	// Supports ~ expansion. Empty discards them.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:      CurrentConfigVersion,
		Endpoint:     DefaultEndpoint,
		MetricsPath:  DefaultMetricsPath,
		HealthPath:   DefaultHealthPath,
		Interval:     DefaultInterval,
		Timeout:      DefaultTimeout,
		Window:       DefaultWindow,
		TimeFormat:   DefaultTimeFormat,
		RefreshLimit: DefaultRefreshLimit,
		Network: NetworkConfig{
			Enabled:  true,
			Interval: DefaultProbeEvery,
			Timeout:  DefaultProbeTimeout,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
