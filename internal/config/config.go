// ABOUTME: lift configuration: data location, log level, and default weight unit.
// ABOUTME: Reads config.json, an optional lift.env dotenv file, and LIFT_* overrides.

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataDir  = "LIFT_DATA_DIR"
	EnvLogLevel = "LIFT_LOG_LEVEL"
)

// Config stores lift tool configuration.
type Config struct {
	// DataDir is the directory holding lift.db.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/lift.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is the minimum level written to stderr: DEBUG, INFO, WARN or ERROR.
	LogLevel string `json:"log_level,omitempty"`

	// WeightUnit is applied to the settings row the first time a database is created.
	WeightUnit string `json:"weight_unit,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the database file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "lift.db")
}

// GetLogLevel returns the configured log level, defaulting to WARN.
func (c *Config) GetLogLevel() string {
	return string(logging.ParseLevel(c.LogLevel))
}

// GetWeightUnit returns the configured default unit, or "" when unset.
func (c *Config) GetWeightUnit() (models.WeightUnit, error) {
	if c.WeightUnit == "" {
		return "", nil
	}
	if !models.IsValidWeightUnit(c.WeightUnit) {
		return "", fmt.Errorf("invalid weight_unit %q: must be lbs or kg", c.WeightUnit)
	}
	return models.WeightUnit(c.WeightUnit), nil
}

// Logger returns a stderr logger at the configured level.
func (c *Config) Logger(domain string) *log.Logger {
	return logging.Stderr(c.GetLogLevel(), domain)
}

// NewManager returns a connection manager for the configured database.
func (c *Config) NewManager(logger *log.Logger) *storage.Manager {
	return storage.NewManager(c.DBPath(), storage.WithLogger(logger))
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// configDir returns $XDG_CONFIG_HOME/lift.
func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "lift")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	return filepath.Join(configDir(), "config.json")
}

// GetEnvPath returns the optional dotenv file path.
func GetEnvPath() string {
	return filepath.Join(configDir(), "lift.env")
}

// Load reads config from disk, then applies lift.env and LIFT_* environment
// overrides. Variables already set in the environment win over lift.env.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(GetEnvPath()); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", GetEnvPath(), err)
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
