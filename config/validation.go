package config

import (
	"fmt"
	"net"
	"time"

	"github.com/grovetools/pulse/errors"
)

// Themes lists the dashboard themes pulse ships.
var Themes = []string{"default", "kanagawa", "terminal"}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Daemon != nil {
		if err := validateDaemon(c.Daemon); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid daemon configuration")
		}
	}

	if c.Dashboard != nil {
		if err := validateDashboard(c.Dashboard); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigValidation, "invalid dashboard configuration")
		}
	}

	return nil
}

func validateDaemon(d *DaemonConfig) error {
	if err := validateInterval("daemon.simulation_interval", d.SimulationInterval); err != nil {
		return err
	}
	if err := validateInterval("daemon.git_interval", d.GitInterval); err != nil {
		return err
	}

	if d.ConfigDebounceMS < 0 {
		return errors.New(errors.ErrCodeConfigValidation, "daemon.config_debounce_ms cannot be negative").
			WithDetail("config_debounce_ms", d.ConfigDebounceMS)
	}

	if d.Listen != "" {
		if _, _, err := net.SplitHostPort(d.Listen); err != nil {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("invalid listen address: %s (must be host:port)", d.Listen)).
				WithDetail("listen", d.Listen)
		}
	}

	return nil
}

func validateDashboard(d *DashboardConfig) error {
	if d.Theme != "" {
		known := false
		for _, theme := range Themes {
			if d.Theme == theme {
				known = true
				break
			}
		}
		if !known {
			return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("unknown theme: %s", d.Theme)).
				WithDetail("theme", d.Theme)
		}
	}

	return validateInterval("dashboard.refresh_interval", d.RefreshInterval)
}

// validateInterval accepts an empty value, otherwise a positive Go duration.
func validateInterval(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("%s is not a duration: %s", fieldName, value)).
			WithDetail("value", value)
	}
	if d <= 0 {
		return errors.New(errors.ErrCodeConfigValidation, fmt.Sprintf("%s must be positive", fieldName)).
			WithDetail("value", value)
	}
	return nil
}
