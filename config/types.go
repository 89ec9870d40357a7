package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

const (
	DefaultSimulationInterval = 5 * time.Second
	DefaultGitInterval        = 30 * time.Second
	DefaultDebounceMS         = 100
	DefaultRefreshInterval    = time.Second
)

// Config is the parsed pulse.yml / pulse.toml.
type Config struct {
	Version   string           `yaml:"version,omitempty" toml:"version,omitempty" json:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Daemon    *DaemonConfig    `yaml:"daemon,omitempty" toml:"daemon,omitempty" json:"daemon,omitempty" jsonschema:"description=Settings for the pulse daemon"`
	Dashboard *DashboardConfig `yaml:"dashboard,omitempty" toml:"dashboard,omitempty" json:"dashboard,omitempty" jsonschema:"description=Settings for the terminal dashboard"`

	// Extensions holds every top-level section pulse does not own, such as
	// "logging". Decode them with UnmarshalExtension.
	Extensions map[string]interface{} `yaml:"-" toml:"-" json:"-"`

	// Source is the file the config was loaded from, empty for defaults.
	Source string `yaml:"-" toml:"-" json:"-"`
}

// DaemonConfig configures the collectors and listeners of `pulse daemon`.
type DaemonConfig struct {
	Simulation         *bool  `yaml:"simulation,omitempty" toml:"simulation,omitempty" json:"simulation,omitempty" jsonschema:"description=Run the monitor simulator (default: true)"`
	SimulationInterval string `yaml:"simulation_interval,omitempty" toml:"simulation_interval,omitempty" json:"simulation_interval,omitempty" jsonschema:"description=Interval between simulated monitor updates (e.g. '5s')"`
	GitRepo            string `yaml:"git_repo,omitempty" toml:"git_repo,omitempty" json:"git_repo,omitempty" jsonschema:"description=Repository whose commit count feeds the code phase"`
	GitInterval        string `yaml:"git_interval,omitempty" toml:"git_interval,omitempty" json:"git_interval,omitempty" jsonschema:"description=Interval between git polls (e.g. '30s')"`
	Listen             string `yaml:"listen,omitempty" toml:"listen,omitempty" json:"listen,omitempty" jsonschema:"description=Optional TCP address to serve the API on (e.g. '127.0.0.1:9470')"`
	ConfigWatch        *bool  `yaml:"config_watch,omitempty" toml:"config_watch,omitempty" json:"config_watch,omitempty" jsonschema:"description=Broadcast config_reload events when the config file changes (default: true)"`
	ConfigDebounceMS   int    `yaml:"config_debounce_ms,omitempty" toml:"config_debounce_ms,omitempty" json:"config_debounce_ms,omitempty" jsonschema:"description=Quiet period in milliseconds between reported config changes,minimum=0"`
}

// DashboardConfig configures `pulse dashboard`.
type DashboardConfig struct {
	Theme           string `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty" jsonschema:"description=Color theme for the dashboard,enum=default,enum=kanagawa,enum=terminal"`
	RefreshInterval string `yaml:"refresh_interval,omitempty" toml:"refresh_interval,omitempty" json:"refresh_interval,omitempty" jsonschema:"description=How often the clock in the footer is redrawn (e.g. '1s')"`
}

// knownSections are the top-level keys decoded into Config itself.
var knownSections = map[string]bool{
	"version":   true,
	"daemon":    true,
	"dashboard": true,
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}

	if c.Daemon == nil {
		c.Daemon = &DaemonConfig{}
	}
	if c.Daemon.Simulation == nil {
		trueVal := true
		c.Daemon.Simulation = &trueVal
	}
	if c.Daemon.SimulationInterval == "" {
		c.Daemon.SimulationInterval = DefaultSimulationInterval.String()
	}
	if c.Daemon.GitInterval == "" {
		c.Daemon.GitInterval = DefaultGitInterval.String()
	}
	if c.Daemon.ConfigWatch == nil {
		trueVal := true
		c.Daemon.ConfigWatch = &trueVal
	}
	if c.Daemon.ConfigDebounceMS == 0 {
		c.Daemon.ConfigDebounceMS = DefaultDebounceMS
	}

	if c.Dashboard == nil {
		c.Dashboard = &DashboardConfig{}
	}
	if c.Dashboard.Theme == "" {
		c.Dashboard.Theme = "default"
	}
	if c.Dashboard.RefreshInterval == "" {
		c.Dashboard.RefreshInterval = DefaultRefreshInterval.String()
	}
}

// SimulationEnabled reports whether the daemon runs the monitor simulator.
func (d *DaemonConfig) SimulationEnabled() bool {
	return d.Simulation == nil || *d.Simulation
}

// WatchEnabled reports whether the daemon watches its config file.
func (d *DaemonConfig) WatchEnabled() bool {
	return d.ConfigWatch == nil || *d.ConfigWatch
}

// SimulationEvery parses SimulationInterval. Call after Validate.
func (d *DaemonConfig) SimulationEvery() time.Duration {
	return parseDurationOr(d.SimulationInterval, DefaultSimulationInterval)
}

// GitEvery parses GitInterval. Call after Validate.
func (d *DaemonConfig) GitEvery() time.Duration {
	return parseDurationOr(d.GitInterval, DefaultGitInterval)
}

// Debounce returns ConfigDebounceMS as a duration.
func (d *DaemonConfig) Debounce() time.Duration {
	if d.ConfigDebounceMS <= 0 {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(d.ConfigDebounceMS) * time.Millisecond
}

// RefreshEvery parses RefreshInterval. Call after Validate.
func (d *DashboardConfig) RefreshEvery() time.Duration {
	return parseDurationOr(d.RefreshInterval, DefaultRefreshInterval)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded pulse.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	// Use mapstructure to decode the generic map[string]interface{}
	// into the strongly-typed target struct. We configure it to use
	// `yaml` tags for consistency.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
