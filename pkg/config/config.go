package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for textrater
type Config struct {
	// Labeling session behaviour
	Session SessionConfig `yaml:"session" json:"session"`

	// Optional SQLite label journal
	Journal JournalConfig `yaml:"journal" json:"journal"`

	// Terminal rendering
	Display DisplayConfig `yaml:"display" json:"display"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SessionConfig holds labeling loop configuration
type SessionConfig struct {
	CheckpointInterval int `yaml:"checkpoint_interval" json:"checkpoint_interval"`
	WindowSize         int `yaml:"window_size" json:"window_size"`
}

// JournalConfig holds label journal configuration
type JournalConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// DisplayConfig holds terminal output preferences
type DisplayConfig struct {
	NoColor bool `yaml:"no_color" json:"no_color"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			CheckpointInterval: 10,
			WindowSize:         10,
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    "textrater-journal.db",
		},
		Display: DisplayConfig{
			NoColor: false,
		},
		Logging: LoggingConfig{
			// Log lines would interleave with the interactive prompt otherwise
			Level: "warn",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if logLevel := os.Getenv("TEXTRATER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("TEXTRATER_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	if interval := os.Getenv("TEXTRATER_CHECKPOINT_INTERVAL"); interval != "" {
		var val int
		if _, err := fmt.Sscanf(interval, "%d", &val); err != nil {
			return fmt.Errorf("invalid TEXTRATER_CHECKPOINT_INTERVAL %q: %w", interval, err)
		}
		c.Session.CheckpointInterval = val
	}

	if enabled := os.Getenv("TEXTRATER_JOURNAL_ENABLED"); enabled != "" {
		c.Journal.Enabled = strings.ToLower(enabled) == "true"
	}
	if path := os.Getenv("TEXTRATER_JOURNAL_PATH"); path != "" {
		c.Journal.Path = path
	}

	if noColor := os.Getenv("TEXTRATER_NO_COLOR"); noColor != "" {
		c.Display.NoColor = strings.ToLower(noColor) == "true"
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".textrater.yaml",
		".textrater.yml",
		filepath.Join(home, ".config", "textrater", "config.yaml"),
		filepath.Join(home, ".config", "textrater", "config.yml"),
		filepath.Join(home, ".textrater.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Session.CheckpointInterval <= 0 {
		errs = append(errs, errors.New("checkpoint interval must be positive"))
	}
	if c.Session.WindowSize <= 0 {
		errs = append(errs, errors.New("window size must be positive"))
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, errors.New("journal path is required when the journal is enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		c.Logging.Level = "debug"
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.Display.NoColor = true
	}
	if journal, ok := flags["journal"].(string); ok && journal != "" {
		c.Journal.Enabled = true
		c.Journal.Path = journal
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".textrater.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
