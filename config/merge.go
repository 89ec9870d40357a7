package config

// mergeConfigs merges override configuration into base
func mergeConfigs(base, override *Config) *Config {
	result := *base

	// Merge version
	if override.Version != "" {
		result.Version = override.Version
	}
	if override.Source != "" {
		result.Source = override.Source
	}

	result.Daemon = mergeDaemon(base.Daemon, override.Daemon)
	result.Dashboard = mergeDashboard(base.Dashboard, override.Dashboard)

	// Merge extensions
	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for key, value := range base.Extensions {
			merged[key] = value
		}
		for key, value := range override.Extensions {
			// If both base and override have the same extension key, merge them
			if baseValue, exists := merged[key]; exists {
				if baseMap, baseOk := baseValue.(map[string]interface{}); baseOk {
					if overrideMap, overrideOk := value.(map[string]interface{}); overrideOk {
						mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
						for k, v := range baseMap {
							mergedMap[k] = v
						}
						for k, v := range overrideMap {
							mergedMap[k] = v
						}
						merged[key] = mergedMap
						continue
					}
				}
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	return &result
}

// mergeDaemon overlays the fields override sets explicitly. Both configs have
// had SetDefaults applied, so a field equal to its default in override
// does not clobber a non-default value in base.
func mergeDaemon(base, override *DaemonConfig) *DaemonConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}
	result := *base
	defaults := Default().Daemon

	if override.Simulation != nil && *override.Simulation != *defaults.Simulation {
		result.Simulation = override.Simulation
	}
	if override.SimulationInterval != defaults.SimulationInterval {
		result.SimulationInterval = override.SimulationInterval
	}
	if override.GitRepo != "" {
		result.GitRepo = override.GitRepo
	}
	if override.GitInterval != defaults.GitInterval {
		result.GitInterval = override.GitInterval
	}
	if override.Listen != "" {
		result.Listen = override.Listen
	}
	if override.ConfigWatch != nil && *override.ConfigWatch != *defaults.ConfigWatch {
		result.ConfigWatch = override.ConfigWatch
	}
	if override.ConfigDebounceMS != defaults.ConfigDebounceMS {
		result.ConfigDebounceMS = override.ConfigDebounceMS
	}
	return &result
}

func mergeDashboard(base, override *DashboardConfig) *DashboardConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}
	result := *base
	defaults := Default().Dashboard

	if override.Theme != defaults.Theme {
		result.Theme = override.Theme
	}
	if override.RefreshInterval != defaults.RefreshInterval {
		result.RefreshInterval = override.RefreshInterval
	}
	return &result
}
