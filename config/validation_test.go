package config

import (
	"testing"

	"github.com/grovetools/pulse/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero interval", func(c *Config) { c.Daemon.SimulationInterval = "0s" }, true},
		{"negative interval", func(c *Config) { c.Daemon.GitInterval = "-1s" }, true},
		{"garbage interval", func(c *Config) { c.Dashboard.RefreshInterval = "often" }, true},
		{"negative debounce", func(c *Config) { c.Daemon.ConfigDebounceMS = -1 }, true},
		{"tcp listen", func(c *Config) { c.Daemon.Listen = ":9470" }, false},
		{"listen without port", func(c *Config) { c.Daemon.Listen = "localhost" }, true},
		{"unknown theme", func(c *Config) { c.Dashboard.Theme = "neon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !errors.Is(err, errors.ErrCodeConfigValidation) {
					t.Errorf("expected CONFIG_VALIDATION, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
