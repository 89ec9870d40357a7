package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestHierarchicalMerging tests the global -> project merge.
func TestHierarchicalMerging(t *testing.T) {
	globalDir := isolate(t)
	if err := os.MkdirAll(globalDir, 0755); err != nil {
		t.Fatal(err)
	}

	globalConfig := `
daemon:
  simulation_interval: 10s
  listen: 127.0.0.1:9000
dashboard:
  theme: terminal
logging:
  level: info
  report_caller: true
`
	if err := os.WriteFile(filepath.Join(globalDir, "pulse.yml"), []byte(globalConfig), 0644); err != nil {
		t.Fatal(err)
	}

	projectDir := t.TempDir()
	projectConfig := `
daemon:
  git_repo: /src/project
  listen: 127.0.0.1:9100
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(projectDir, "pulse.yml"), []byte(projectConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(projectDir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Daemon.SimulationInterval != "10s" {
		t.Errorf("expected global simulation interval to survive, got %s", cfg.Daemon.SimulationInterval)
	}
	if cfg.Daemon.GitRepo != "/src/project" {
		t.Errorf("expected project git repo, got %s", cfg.Daemon.GitRepo)
	}
	if cfg.Daemon.Listen != "127.0.0.1:9100" {
		t.Errorf("expected project listen to win, got %s", cfg.Daemon.Listen)
	}
	if cfg.Dashboard.Theme != "terminal" {
		t.Errorf("expected global theme, got %s", cfg.Dashboard.Theme)
	}

	logging, ok := cfg.Extensions["logging"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected merged logging extension, got %T", cfg.Extensions["logging"])
	}
	if logging["level"] != "debug" {
		t.Errorf("expected project level, got %v", logging["level"])
	}
	if logging["report_caller"] != true {
		t.Errorf("expected global report_caller to survive, got %v", logging["report_caller"])
	}
	if cfg.Source != filepath.Join(projectDir, "pulse.yml") {
		t.Errorf("expected project source, got %s", cfg.Source)
	}
}

func TestMergeKeepsBaseWhenOverrideIsDefault(t *testing.T) {
	base := Default()
	falseVal := false
	base.Daemon.Simulation = &falseVal
	base.Daemon.ConfigDebounceMS = 500

	merged := mergeConfigs(base, Default())
	if merged.Daemon.SimulationEnabled() {
		t.Error("expected base simulation=false to survive a default override")
	}
	if merged.Daemon.ConfigDebounceMS != 500 {
		t.Errorf("expected 500, got %d", merged.Daemon.ConfigDebounceMS)
	}
}
