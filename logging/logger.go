// Package logging builds the per-component logrus loggers used across pulse.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/pulse/config"
	"github.com/grovetools/pulse/pkg/paths"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	// Load the `logging` section of pulse.yml
	var logCfg Config
	cfg, err := config.LoadDefault()
	if err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			// Log a warning if parsing fails, but continue with defaults
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := newLogger(component, logCfg, time.Now())
	loggers[component] = entry
	return entry
}

// Reset drops every cached logger so the next NewLogger call re-reads the
// environment and config. Open log files are left to the garbage collector.
func Reset() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	loggers = make(map[string]*logrus.Entry)
}

func newLogger(component string, logCfg Config, now time.Time) *logrus.Entry {
	logger := logrus.New()

	// Configure Level
	levelStr := "info" // Default level
	if env := os.Getenv("PULSE_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv("PULSE_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	logger.SetFormatter(formatterFor(logCfg.Format))

	// Configure Output Sinks
	var writers []io.Writer

	if path := logFilePath(component, logCfg.File, now); path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			// Only warn about explicitly configured paths
			if logCfg.File.Path != "" {
				logger.Warnf("Failed to create log directory %s: %v", dir, err)
			}
		} else {
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				writers = append(writers, file)
			} else if logCfg.File.Path != "" {
				logger.Warnf("Failed to open log file %s: %v", path, err)
			}
		}
	}

	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		// Interactive terminal in auto mode with no file sink.
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger.WithField("component", component)
}

func formatterFor(format FormatConfig) logrus.Formatter {
	switch format.Preset {
	case "json":
		return &logrus.JSONFormatter{}
	case "simple":
		return &TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}}
	default:
		return &TextFormatter{Config: format}
	}
}

// LogFilePath returns the file a component logs to today with default settings.
func LogFilePath(component string) string {
	return logFilePath(component, FileSinkConfig{}, time.Now())
}

func logFilePath(component string, sink FileSinkConfig, now time.Time) string {
	if sink.Disabled {
		return ""
	}
	if sink.Path != "" {
		return expandPath(sink.Path)
	}
	dir := paths.LogDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, now.Format("2006-01-02")))
}

// shouldLogToStderr decides whether structured logs also go to stderr.
// In "auto" mode they do when debugging or when stderr is not a terminal,
// which keeps interactive use quiet.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		isDebug := os.Getenv("PULSE_DEBUG") == "1" || level >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	}
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
