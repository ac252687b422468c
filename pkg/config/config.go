// Package config provides configuration management for narget. Settings are read from an
// optional YAML file; a missing file yields the defaults.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/narget/pkg/errors"
	"github.com/glorpus-work/narget/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Settings Settings    `yaml:"settings"`
	Hooks    HooksConfig `yaml:"hooks,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// ResultsDir is the parent of the per-hash extraction directories.
	ResultsDir string `yaml:"results_dir"`

	// Network settings. A zero timeout waits forever.
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	UserAgent   string        `yaml:"user_agent,omitempty"`

	// Symlink handling
	SkipUnresolvableLinks bool `yaml:"skip_unresolvable_links"`
	MaxDepth              int  `yaml:"max_depth"`

	// Output settings
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
}

// HooksConfig points at user scripts run during a fetch.
type HooksConfig struct {
	// PostExtract is a Tengo script run after every extracted store path.
	PostExtract string `yaml:"post_extract,omitempty"`
}

// Default configuration values.
const (
	// DefaultResultsDir matches the out-link name nix-build uses.
	DefaultResultsDir = "result"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			ResultsDir: DefaultResultsDir,
			LogLevel:   "info",
			LogFormat:  "text",
		},
	}
}

// LoadConfig loads configuration from a file. A file that does not exist yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig writes the configuration to path, replacing any existing file atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureDirPerm(filepath.Dir(absPath), fsutil.DirModeSecure); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := fsutil.CreateFilePerm(tempPath, fsutil.FileModeSecure)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	return validateSettings(c.Settings)
}

func validateSettings(s Settings) error {
	if strings.TrimSpace(s.ResultsDir) == "" {
		return errors.Wrap(errors.ErrConfigValidation, errors.ErrResultsDirEmpty.Error())
	}
	if s.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, errors.ErrHTTPTimeoutNegative.Error())
	}
	if s.MaxDepth < 0 {
		return errors.Wrap(errors.ErrConfigValidation, errors.ErrMaxDepthNegative.Error())
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(s.LogFormat)] {
		return errors.ErrInvalidLogFormatWithDetails(s.LogFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.ResultsDir == "" {
		c.Settings.ResultsDir = defaults.Settings.ResultsDir
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
}
