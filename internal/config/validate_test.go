package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pidash/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bare host endpoint", mutate: func(c *Config) { c.Endpoint = "192.168.1.20:5000" }},
		{name: "https endpoint", mutate: func(c *Config) { c.Endpoint = "https://pi.example.com" }},
		{name: "future version", mutate: func(c *Config) { c.Version = 99 }, wantErr: "from the future"},
		{name: "empty endpoint", mutate: func(c *Config) { c.Endpoint = " " }, wantErr: "No endpoint"},
		{name: "bad scheme", mutate: func(c *Config) { c.Endpoint = "ftp://pi" }, wantErr: "scheme 'ftp'"},
		{name: "no host", mutate: func(c *Config) { c.Endpoint = "http://" }, wantErr: "has no host"},
		{name: "relative metrics path", mutate: func(c *Config) { c.MetricsPath = "api/system" }, wantErr: "metrics_path"},
		{name: "interval too short", mutate: func(c *Config) { c.Interval = 100 * time.Millisecond }, wantErr: "too short"},
		{name: "interval at minimum", mutate: func(c *Config) { c.Interval = MinInterval }},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: "timeout must be positive"},
		{name: "negative refresh limit", mutate: func(c *Config) { c.RefreshLimit = -time.Second }, wantErr: "refresh_limit"},
		{name: "zero refresh limit", mutate: func(c *Config) { c.RefreshLimit = 0 }},
		{name: "empty window", mutate: func(c *Config) { c.Window = 0 }, wantErr: "at least one sample"},
		{name: "empty time format", mutate: func(c *Config) { c.TimeFormat = "" }, wantErr: "time_format"},
		{name: "network probe interval", mutate: func(c *Config) { c.Network.Interval = 0 }, wantErr: "network.interval"},
		{name: "network disabled skips probe checks", mutate: func(c *Config) {
			c.Network.Enabled = false
			c.Network.Interval = 0
		}},
		{name: "bad color", mutate: func(c *Config) { c.Output.Color = "sometimes" }, wantErr: "output.color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, errors.Summary(err), tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}
