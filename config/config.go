package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/pulse/errors"
	"github.com/grovetools/pulse/pkg/paths"
	"github.com/grovetools/pulse/schema"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// ConfigNames lists the file names pulse looks for, in order of preference.
var ConfigNames = []string{
	"pulse.yml",
	"pulse.yaml",
	"pulse.toml",
}

// Format is the syntax of a config file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the syntax from a file extension. Anything that is not
// .toml is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses a pulse configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatFor(path))
	if err != nil {
		if pe, ok := errors.As(err); ok {
			return nil, pe.WithDetail("path", path)
		}
		return nil, err
	}
	cfg.Source = path
	return cfg, nil
}

// LoadDefault finds and loads the configuration starting from the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	return LoadFrom(cwd)
}

// LoadFrom loads configuration with hierarchical merging starting from the given directory
func LoadFrom(startDir string) (*Config, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return LoadFromWithLogger(startDir, logger)
}

// LoadFromWithLogger loads the project config found from startDir and merges
// it over the global config in the pulse config directory. Either may be
// missing; with neither present the defaults are returned.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	globalPath := findInDir(paths.ConfigDir())
	projectPath := findUpwards(startDir)
	if projectPath == globalPath {
		projectPath = ""
	}

	var finalConfig *Config

	// 1. Global config (optional)
	if globalPath != "" {
		logger.WithField("path", globalPath).Debug("Loading global configuration")
		globalConfig, err := Load(globalPath)
		if err != nil {
			return nil, err
		}
		finalConfig = globalConfig
	}

	// 2. Project config (optional) overrides global
	if projectPath != "" {
		logger.WithField("path", projectPath).Debug("Loading project configuration")
		projectConfig, err := Load(projectPath)
		if err != nil {
			return nil, err
		}
		if finalConfig == nil {
			finalConfig = projectConfig
		} else {
			logger.Debug("Merging project configuration over global configuration")
			finalConfig = mergeConfigs(finalConfig, projectConfig)
		}
	}

	if finalConfig == nil {
		logger.Debug("No configuration file found, using defaults")
		return Default(), nil
	}

	finalConfig.SetDefaults()
	if err := finalConfig.Validate(); err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		configData, err := yaml.Marshal(finalConfig)
		if err == nil {
			logger.Debugf("Merged configuration:\n%s", string(configData))
		}
	}

	return finalConfig, nil
}

// LoadFromBytes parses configuration from byte array
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	// Expand environment variables
	expanded := []byte(expandEnvVars(string(data)))

	raw := map[string]interface{}{}
	var unmarshal func([]byte, interface{}) error
	switch format {
	case FormatTOML:
		unmarshal = toml.Unmarshal
	default:
		unmarshal = yaml.Unmarshal
	}
	if err := unmarshal(expanded, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("failed to parse %s configuration", strings.ToUpper(string(format))))
	}

	// Validate the document as written, before defaults fill it in.
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	var config Config
	if err := unmarshal(expanded, &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("failed to decode %s configuration", strings.ToUpper(string(format))))
	}

	for key, value := range raw {
		if knownSections[key] {
			continue
		}
		if config.Extensions == nil {
			config.Extensions = make(map[string]interface{})
		}
		config.Extensions[key] = value
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindConfigFile searches for a pulse configuration file with the following precedence:
// 1. Current directory up to filesystem root
// 2. The pulse config directory (~/.config/pulse)
func FindConfigFile(startDir string) (string, error) {
	if path := findUpwards(startDir); path != "" {
		return path, nil
	}
	if path := findInDir(paths.ConfigDir()); path != "" {
		return path, nil
	}
	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// WatchDirs returns the directories whose config files the daemon should
// watch for cfg: the directory cfg was loaded from plus the global one.
func WatchDirs(cfg *Config) []string {
	var dirs []string
	if cfg != nil && cfg.Source != "" {
		dirs = append(dirs, filepath.Dir(cfg.Source))
	}
	if global := paths.ConfigDir(); global != "" {
		dirs = append(dirs, global)
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	seen := make(map[string]bool, len(dirs))
	unique := dirs[:0]
	for _, dir := range dirs {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		unique = append(unique, dir)
	}
	return unique
}

func findUpwards(startDir string) string {
	dir := startDir
	for dir != "" {
		if path := findInDir(dir); path != "" {
			return path
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func findInDir(dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range ConfigNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
