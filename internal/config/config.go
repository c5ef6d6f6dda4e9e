// Package config provides process configuration for FocusFlow. User-facing
// preferences live in the key-value store; this file only holds what the
// process needs before the store is open.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppDir is the directory name used under the home and XDG data dirs.
const AppDir = "focusflow"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config holds all process configuration.
type Config struct {
	Storage       StorageConfig      `mapstructure:"storage"`
	Audio         AudioConfig        `mapstructure:"audio"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Log           LogConfig          `mapstructure:"log"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Git           GitConfig          `mapstructure:"git"`
}

// StorageConfig selects and locates the key-value store.
type StorageConfig struct {
	Backend      string   `mapstructure:"backend"`
	DataDir      string   `mapstructure:"data_dir"`
	PollInterval Duration `mapstructure:"poll_interval"`
}

// AudioConfig holds ambient sound settings.
type AudioConfig struct {
	SoundsDir string  `mapstructure:"sounds_dir"`
	Volume    float64 `mapstructure:"volume"`
}

// NotificationConfig holds desktop notification settings.
type NotificationConfig struct {
	Icon string `mapstructure:"icon"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// GitConfig controls tagging focus sessions with the current branch.
type GitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration. An empty data dir means
// the XDG data directory.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      BackendSQLite,
			PollInterval: Duration(time.Second),
		},
		Audio: AudioConfig{
			Volume: 0.5,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		MCP: MCPConfig{Enabled: true},
		Git: GitConfig{Enabled: true},
	}
}

// Load reads the config file, creating it with defaults when missing.
// FOCUSFLOW_* environment variables override file values, e.g.
// FOCUSFLOW_STORAGE_BACKEND=bolt.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to the config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.poll_interval", cfg.Storage.PollInterval.String())
	v.Set("audio.sounds_dir", cfg.Audio.SoundsDir)
	v.Set("audio.volume", cfg.Audio.Volume)
	v.Set("notifications.icon", cfg.Notifications.Icon)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.Set("log.max_backups", cfg.Log.MaxBackups)
	v.Set("mcp.enabled", cfg.MCP.Enabled)
	v.Set("git.enabled", cfg.Git.Enabled)

	return v.WriteConfig()
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendBolt:
	default:
		return fmt.Errorf("invalid storage backend %q: must be %s or %s", c.Storage.Backend, BackendSQLite, BackendBolt)
	}
	if c.Storage.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval %s: must be positive", c.Storage.PollInterval)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("invalid volume %.2f: must be between 0 and 1", c.Audio.Volume)
	}
	return nil
}

// resolve fills in directories left empty and expands a leading ~.
func (c *Config) resolve() error {
	dir, err := expandHome(c.Storage.DataDir)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = filepath.Join(xdg.DataHome, AppDir)
	}
	c.Storage.DataDir = dir

	sounds, err := expandHome(c.Audio.SoundsDir)
	if err != nil {
		return err
	}
	if sounds == "" {
		sounds = filepath.Join(dir, "sounds")
	}
	c.Audio.SoundsDir = sounds
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(p, "~")), nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+AppDir, "config.toml"), nil
}

// GetDBPath returns the path to the store file for the configured backend.
func GetDBPath(cfg *Config) string {
	if cfg.Storage.Backend == BackendBolt {
		return filepath.Join(cfg.Storage.DataDir, AppDir+".bolt")
	}
	return filepath.Join(cfg.Storage.DataDir, AppDir+".db")
}

// GetLogPath returns the path to the log file.
func GetLogPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, AppDir+".log")
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("FOCUSFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.poll_interval", defaults.Storage.PollInterval.String())
	v.SetDefault("audio.sounds_dir", defaults.Audio.SoundsDir)
	v.SetDefault("audio.volume", defaults.Audio.Volume)
	v.SetDefault("notifications.icon", defaults.Notifications.Icon)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)
	v.SetDefault("mcp.enabled", defaults.MCP.Enabled)
	v.SetDefault("git.enabled", defaults.Git.Enabled)
}
