package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// isolate keeps loggers created by a test out of the real state directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PULSE_HOME", home)
	Reset()
	t.Cleanup(Reset)
	return home
}

func TestNewLogger(t *testing.T) {
	isolate(t)

	// Test creating a logger
	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	// Verify it's a logrus.Entry with the component field
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}
}

func TestLoggerOutput(t *testing.T) {
	// Create a buffer to capture output
	var buf bytes.Buffer
	
	// Create a new logger and redirect output to buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})
	
	entry := logger.WithField("component", "test")
	entry.Info("Test message")
	
	output := buf.String()
	
	// Check that output contains expected elements
	if !strings.Contains(output, "[INFO]") {
		t.Errorf("Expected output to contain [INFO], got: %s", output)
	}
	if !strings.Contains(output, "[test]") {
		t.Errorf("Expected output to contain [test], got: %s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected output to contain 'Test message', got: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name   string
		config FormatConfig
		entry  *logrus.Entry
		want   []string // Parts that should be in the output
		notWant []string // Parts that should NOT be in the output
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "test message",
				Data: logrus.Fields{
					"component": "test-component",
					"key1":      "value1",
				},
			},
			want:    []string{"[INFO]", "[test-component]", "test message", "key1=value1"},
			notWant: []string{},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "warning message",
				Data: logrus.Fields{
					"component": "test-component",
				},
			},
			want:    []string{"[WARN]", "warning message"},
			notWant: []string{"[test-component]"},
		},
		{
			name:   "caller information with function name",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				entry := &logrus.Entry{
					Logger:  logger,
					Level:   logrus.InfoLevel,
					Message: "test message with caller",
					Data: logrus.Fields{
						"component": "test-component",
					},
					Caller: &runtime.Frame{
						File:     "/path/to/file.go",
						Line:     42,
						Function: "github.com/example/package.TestFunction",
					},
				}
				return entry
			}(),
			want:    []string{"[INFO]", "[test-component]", "test message with caller", "[file.go:42 package.TestFunction]"},
			notWant: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			
			// Set a fixed time for consistent testing
			tt.entry.Time = tt.entry.Time.UTC()
			
			output, err := formatter.Format(tt.entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			
			outputStr := string(output)
			
			// Check for expected parts
			for _, want := range tt.want {
				if !strings.Contains(outputStr, want) {
					t.Errorf("Expected output to contain '%s', got: %s", want, outputStr)
				}
			}
			
			// Check for parts that should NOT be present
			for _, notWant := range tt.notWant {
				if strings.Contains(outputStr, notWant) {
					t.Errorf("Expected output NOT to contain '%s', got: %s", notWant, outputStr)
				}
			}
		})
	}
}

func TestLogLevels(t *testing.T) {
	// Test that log level filtering works
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.WarnLevel)
	
	entry := logger.WithField("component", "test")
	
	// These should not appear
	entry.Debug("debug message")
	entry.Info("info message")
	
	// These should appear
	entry.Warn("warn message")
	entry.Error("error message")
	
	output := buf.String()
	
	if strings.Contains(output, "debug message") {
		t.Error("Debug message should not appear at Warn level")
	}
	if strings.Contains(output, "info message") {
		t.Error("Info message should not appear at Warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Warn message should appear at Warn level")
	}
	if !strings.Contains(output, "error message") {
		t.Error("Error message should appear at Warn level")
	}
}

func TestNewLoggerIsCachedPerComponent(t *testing.T) {
	isolate(t)

	a := NewLogger("store")
	b := NewLogger("store")
	c := NewLogger("server")
	if a != b {
		t.Error("expected the same entry for the same component")
	}
	if a == c {
		t.Error("expected different entries for different components")
	}
}

func TestEnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("PULSE_LOG_LEVEL", "debug")
	t.Setenv("PULSE_LOG_CALLER", "true")

	logger := NewLogger("env-test")
	if logger.Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level from env, got %v", logger.Logger.GetLevel())
	}
	if !logger.Logger.ReportCaller {
		t.Error("Expected caller reporting to be enabled from env")
	}
}

func TestConfigLevelAndPreset(t *testing.T) {
	isolate(t)
	t.Setenv("PULSE_LOG_LEVEL", "")

	entry := newLogger("cfg-test", Config{
		Level:  "warn",
		File:   FileSinkConfig{Disabled: true},
		Format: FormatConfig{Preset: "json", StructuredToStderr: "never"},
	}, time.Now())

	if entry.Logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("Expected warn level from config, got %v", entry.Logger.GetLevel())
	}
	if _, ok := entry.Logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter, got %T", entry.Logger.Formatter)
	}
	if entry.Logger.Out != io.Discard {
		t.Error("Expected output to be discarded with no sinks")
	}
}

func TestFileSink(t *testing.T) {
	home := isolate(t)
	now := time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)

	entry := newLogger("daemon", Config{
		Format: FormatConfig{StructuredToStderr: "never"},
	}, now)
	entry.Warn("written to file")

	path := filepath.Join(home, "state", "pulse", "logs", "daemon-2024-01-16.log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("expected message in log file, got: %s", data)
	}
}

func TestLogFilePath(t *testing.T) {
	home := isolate(t)
	now := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	if got := logFilePath("cli", FileSinkConfig{Disabled: true}, now); got != "" {
		t.Errorf("expected no path when disabled, got %s", got)
	}
	if got := logFilePath("cli", FileSinkConfig{Path: "/var/log/pulse.log"}, now); got != "/var/log/pulse.log" {
		t.Errorf("expected explicit path, got %s", got)
	}
	want := filepath.Join(home, "state", "pulse", "logs", "cli-2024-01-16.log")
	if got := logFilePath("cli", FileSinkConfig{}, now); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestShouldLogToStderr(t *testing.T) {
	if !shouldLogToStderr("always", logrus.InfoLevel) {
		t.Error("always should log")
	}
	if shouldLogToStderr("never", logrus.DebugLevel) {
		t.Error("never should not log")
	}
	if !shouldLogToStderr("auto", logrus.DebugLevel) {
		t.Error("auto should log at debug level")
	}
}

func TestGlobalOutput(t *testing.T) {
	var buf bytes.Buffer
	SetGlobalOutput(&buf)
	defer SetGlobalOutput(os.Stderr)

	logger := logrus.New()
	logger.SetOutput(GetGlobalOutput())
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{DisableTimestamp: true}})
	logger.Info("redirected")

	if !strings.Contains(buf.String(), "redirected") {
		t.Errorf("expected redirected output, got: %s", buf.String())
	}
}
