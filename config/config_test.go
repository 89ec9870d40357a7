package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/pulse/errors"
)

// isolate points the pulse config directory at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PULSE_HOME", home)
	return filepath.Join(home, "config", "pulse")
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", cfg.Version)
	}
	if !cfg.Daemon.SimulationEnabled() {
		t.Error("expected simulation to be enabled by default")
	}
	if got := cfg.Daemon.SimulationEvery(); got != 5*time.Second {
		t.Errorf("expected 5s simulation interval, got %v", got)
	}
	if got := cfg.Daemon.GitEvery(); got != 30*time.Second {
		t.Errorf("expected 30s git interval, got %v", got)
	}
	if !cfg.Daemon.WatchEnabled() {
		t.Error("expected config watch to be enabled by default")
	}
	if got := cfg.Daemon.Debounce(); got != 100*time.Millisecond {
		t.Errorf("expected 100ms debounce, got %v", got)
	}
	if cfg.Dashboard.Theme != "default" {
		t.Errorf("expected default theme, got %s", cfg.Dashboard.Theme)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("PULSE_TEST_REPO", "/src/app")

	cfg, err := LoadFromBytes([]byte(`
daemon:
  simulation: false
  simulation_interval: 250ms
  git_repo: ${PULSE_TEST_REPO}
  listen: ${PULSE_TEST_LISTEN:-127.0.0.1:9470}
dashboard:
  theme: kanagawa
`), FormatYAML)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Daemon.SimulationEnabled() {
		t.Error("expected simulation to be disabled")
	}
	if got := cfg.Daemon.SimulationEvery(); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", got)
	}
	if cfg.Daemon.GitRepo != "/src/app" {
		t.Errorf("expected env expansion, got %q", cfg.Daemon.GitRepo)
	}
	if cfg.Daemon.Listen != "127.0.0.1:9470" {
		t.Errorf("expected default expansion, got %q", cfg.Daemon.Listen)
	}
	// Untouched fields keep their defaults.
	if got := cfg.Daemon.GitEvery(); got != 30*time.Second {
		t.Errorf("expected default git interval, got %v", got)
	}
	if cfg.Dashboard.Theme != "kanagawa" {
		t.Errorf("expected kanagawa theme, got %s", cfg.Dashboard.Theme)
	}
}

func TestLoadTOML(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
version = "1.0"

[daemon]
simulation_interval = "2s"
config_debounce_ms = 250

[logging]
level = "debug"
`), FormatTOML)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.Daemon.SimulationEvery(); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}
	if got := cfg.Daemon.Debounce(); got != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %v", got)
	}
	if _, ok := cfg.Extensions["logging"]; !ok {
		t.Error("expected logging extension to be captured")
	}
}

// TestExtensions verifies that custom sections in pulse.yml are properly loaded
func TestExtensions(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
logging:
  level: warn
  report_caller: true
  file:
    enabled: true
    path: /tmp/pulse.log
`), FormatYAML)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	type fileSink struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	}
	type loggingConfig struct {
		Level        string   `yaml:"level"`
		ReportCaller bool     `yaml:"report_caller"`
		File         fileSink `yaml:"file"`
	}

	var logCfg loggingConfig
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		t.Fatalf("Failed to unmarshal logging extension: %v", err)
	}
	if logCfg.Level != "warn" || !logCfg.ReportCaller {
		t.Errorf("unexpected logging config: %+v", logCfg)
	}
	if !logCfg.File.Enabled || logCfg.File.Path != "/tmp/pulse.log" {
		t.Errorf("unexpected file sink: %+v", logCfg.File)
	}

	// A missing extension leaves the target untouched.
	var other loggingConfig
	if err := cfg.UnmarshalExtension("missing", &other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Level != "" {
		t.Errorf("expected zero value, got %+v", other)
	}
}

func TestLoadFromBytesRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.ErrorCode
	}{
		{"malformed yaml", "daemon: [", FormatYAML, errors.ErrCodeConfigInvalid},
		{"malformed toml", "[daemon", FormatTOML, errors.ErrCodeConfigInvalid},
		{"unknown key", "daemon:\n  simulate: true\n", FormatYAML, errors.ErrCodeConfigValidation},
		{"wrong type", "daemon:\n  simulation: sometimes\n", FormatYAML, errors.ErrCodeConfigValidation},
		{"bad duration", "daemon:\n  git_interval: soon\n", FormatYAML, errors.ErrCodeConfigValidation},
		{"bad listen", "daemon:\n  listen: localhost\n", FormatYAML, errors.ErrCodeConfigValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("expected code %s, got %s (%v)", tt.code, got, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "pulse.yml"))
	if !errors.Is(err, errors.ErrCodeConfigNotFound) {
		t.Fatalf("expected CONFIG_NOT_FOUND, got %v", err)
	}
}

func TestFindConfigFileSearchesUpwards(t *testing.T) {
	isolate(t)
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "pulse.toml")
	if err := os.WriteFile(path, []byte("[daemon]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfigFile(nested)
	if err != nil {
		t.Fatalf("FindConfigFile: %v", err)
	}
	if found != path {
		t.Errorf("expected %s, got %s", path, found)
	}
}

func TestLoadFromWithoutFilesReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("expected no source, got %s", cfg.Source)
	}
	if !cfg.Daemon.SimulationEnabled() {
		t.Error("expected defaults")
	}
}

func TestLoadFromRecordsSource(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "pulse.yml")
	if err := os.WriteFile(path, []byte("daemon:\n  git_repo: .\n"), 0644); err != nil {
		t.Fatal(err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	logger.SetOutput(os.Stderr)
	cfg, err := LoadFromWithLogger(dir, logger)
	if err != nil {
		t.Fatalf("LoadFromWithLogger: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("expected source %s, got %s", path, cfg.Source)
	}

	dirs := WatchDirs(cfg)
	if len(dirs) == 0 || dirs[0] != dir {
		t.Errorf("expected %s to be watched first, got %v", dir, dirs)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PULSE_SET", "value")
	tests := map[string]string{
		"${PULSE_SET}":                 "value",
		"${PULSE_UNSET_FOR_TEST}":      "",
		"${PULSE_UNSET_FOR_TEST:-def}": "def",
		"${PULSE_SET:-def}":            "value",
		"plain":                        "plain",
	}
	for in, want := range tests {
		if got := expandEnvVars(in); got != want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor("pulse.toml") != FormatTOML {
		t.Error("expected TOML")
	}
	if FormatFor("pulse.yml") != FormatYAML || FormatFor("pulse.yaml") != FormatYAML {
		t.Error("expected YAML")
	}
}
