package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Tiliavir/mapty/internal/storage"
)

// Config is the root configuration for mapty, stored in ~/.mapty/config.yaml.
// Every key can be overridden by an environment variable, e.g.
// MAPTY_STORAGE_BACKEND for storage.backend.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Location LocationConfig `mapstructure:"location"`
	Log      LogConfig      `mapstructure:"log"`
}

// StorageConfig selects where the workout blob is kept.
type StorageConfig struct {
	// Backend is "file" (one JSON file per key) or "sqlite".
	Backend string `mapstructure:"backend"`
	// Dir holds the data files. Empty means the config file's directory.
	Dir string `mapstructure:"dir"`
	// Key is the storage key of the workout blob.
	Key string `mapstructure:"key"`
}

// LocationConfig configures the device location lookup.
type LocationConfig struct {
	// Home is a fallback "lat,lng" used when no device location is available.
	Home string `mapstructure:"home"`
	// Env names an environment variable holding "lat,lng".
	Env string `mapstructure:"env"`
	// Timeout bounds the lookup.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds the diagnostic log settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	DefaultBackend     = "file"
	DefaultKey         = "workouts"
	DefaultLocationEnv = "MAPTY_LOCATION"
	DefaultTimeout     = 5 * time.Second
	DefaultLogLevel    = "warn"
)

// configTemplate is the annotated config written on first run.
const configTemplate = `# mapty configuration – ~/.mapty/config.yaml
#
# All settings are optional; the defaults below work out of the box.
# Any key can be overridden with an environment variable, for example
# MAPTY_STORAGE_BACKEND=sqlite or MAPTY_LOG_LEVEL=debug.

storage:
  # "file" keeps workouts in <dir>/workouts.json,
  # "sqlite" keeps them in <dir>/mapty.db.
  backend: file
  # Data directory. Empty means the directory of this file.
  dir: ""
  # Storage key of the workout list.
  key: workouts

location:
  # Fallback map centre as "lat,lng" when no device location is known.
  home: ""
  # Environment variable consulted first for the device location.
  env: MAPTY_LOCATION
  # Give up on the location lookup after this long.
  timeout: 5s

log:
  # debug, info, warn or error.
  level: warn
`

// DefaultPath returns ~/.mapty/config.yaml.
func DefaultPath() (string, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// defaults lists every leaf key. Only these keys are bound to MAPTY_*
// variables, so MAPTY_LOCATION stays free for the device location.
var defaults = map[string]any{
	"storage.backend":  DefaultBackend,
	"storage.dir":      "",
	"storage.key":      DefaultKey,
	"location.home":    "",
	"location.env":     DefaultLocationEnv,
	"location.timeout": DefaultTimeout,
	"log.level":        DefaultLogLevel,
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MAPTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
		// BindEnv only fails without a key.
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the config at path, creating it with annotated defaults on
// first run. Environment variables override file values.
func Load(path string) (Config, error) {
	v := newViper(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			slog.Warn("could not create config file", "path", path, "error", writeErr)
		}
	}

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return Config{}, fmt.Errorf("reading config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = filepath.Dir(path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	return os.IsNotExist(err)
}

// Validate rejects settings the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be file or sqlite, got %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if c.Location.Timeout < 0 {
		return fmt.Errorf("location.timeout must not be negative")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel maps Level onto a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
