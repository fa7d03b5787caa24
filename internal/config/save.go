package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pidash/internal/errors"
)

const fileHeader = `# pidash configuration
# Run 'pidash' to open the dashboard, 'pidash once' for a single reading.
# Every key can be overridden with PIDASH_<KEY> (dots become underscores).

`

// fileConfig mirrors Config with durations as strings, so the written file
// says "5s" rather than 5000000000.
type fileConfig struct {
	Version      int        `yaml:"version"`
	Endpoint     string     `yaml:"endpoint"`
	MetricsPath  string     `yaml:"metrics_path"`
	HealthPath   string     `yaml:"health_path"`
	Interval     string     `yaml:"interval"`
	Timeout      string     `yaml:"timeout"`
	Window       int        `yaml:"window"`
	SingleFlight bool       `yaml:"single_flight"`
	PauseOnBlur  bool       `yaml:"pause_on_blur"`
	TimeFormat   string     `yaml:"time_format"`
	RefreshLimit string     `yaml:"refresh_limit"`
	Network      fileNet    `yaml:"network"`
	Output       fileOutput `yaml:"output"`
}

type fileNet struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
	Timeout  string `yaml:"timeout"`
}

type fileOutput struct {
	Color   string `yaml:"color"`
	LogFile string `yaml:"log_file,omitempty"`
}

// Marshal renders cfg as the YAML written by Save, header included.
func Marshal(cfg *Config) ([]byte, error) {
	fc := fileConfig{
		Version:      cfg.Version,
		Endpoint:     cfg.Endpoint,
		MetricsPath:  cfg.MetricsPath,
		HealthPath:   cfg.HealthPath,
		Interval:     cfg.Interval.String(),
		Timeout:      cfg.Timeout.String(),
		Window:       cfg.Window,
		SingleFlight: cfg.SingleFlight,
		PauseOnBlur:  cfg.PauseOnBlur,
		TimeFormat:   cfg.TimeFormat,
		RefreshLimit: cfg.RefreshLimit.String(),
		Network: fileNet{
			Enabled:  cfg.Network.Enabled,
			Interval: cfg.Network.Interval.String(),
			Timeout:  cfg.Network.Timeout.String(),
		},
		Output: fileOutput{Color: cfg.Output.Color, LogFile: cfg.Output.LogFile},
	}

	var buf strings.Builder
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to create config directory: "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file: "+path,
			"Check directory permissions")
	}
	return nil
}

// SetValue sets a scalar in an existing config file, keeping its comments
// and layout. Dotted keys address nested maps ("network.enabled"); missing
// maps and keys are created.
func SetValue(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind == 0 {
		// empty file
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := findMapValue(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalar(part), child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a map", part)
		}
		node = child
	}

	last := parts[len(parts)-1]
	if existing := findMapValue(node, last); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Value = value
		existing.Content = nil
	} else {
		v := scalar(value)
		v.Tag = ""
		node.Content = append(node.Content, scalar(last), v)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
