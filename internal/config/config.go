// Package config resolves where the to-do file lives, which editor opens it,
// and how runs are logged and backed up.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the effective configuration of a run.
type Config struct {
	File   string       `mapstructure:"file" yaml:"file"`
	Editor string       `mapstructure:"editor" yaml:"editor"`
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// BackupConfig controls snapshots taken before the document is rewritten.
type BackupConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir"`   // defaults next to the file
	Keep    int    `mapstructure:"keep" yaml:"keep"` // newest snapshots retained
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
	File   string `mapstructure:"file" yaml:"file"`
}

const (
	DefaultFileName = "TODO.md"
	DefaultEditor   = "nvim"
)

// envKeys maps config keys to the environment variables that override them.
var envKeys = map[string]string{
	"file":           "TODO_FILEPATH",
	"editor":         "EDITOR",
	"backup.enabled": "WEEKLY_BACKUP",
	"backup.dir":     "WEEKLY_BACKUP_DIR",
	"log.level":      "WEEKLY_LOG_LEVEL",
	"log.file":       "WEEKLY_LOG_FILE",
}

// flagKeys maps config keys to command-line flag names.
var flagKeys = map[string]string{
	"file":           "file",
	"editor":         "editor",
	"backup.enabled": "backup",
	"log.level":      "log-level",
	"log.format":     "log-format",
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		File:   filepath.Join(homeDir(), DefaultFileName),
		Editor: DefaultEditor,
		Backup: BackupConfig{
			Enabled: false,
			Keep:    10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(stateDir(), "weekly.log"),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/weekly/config.yaml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(homeDir(), ".config")
	}
	return filepath.Join(base, "weekly", "config.yaml")
}

// Load resolves the configuration. Precedence, lowest first: defaults, the
// YAML file at path, environment variables, then flags that were set. A
// missing file is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("file", def.File)
	v.SetDefault("editor", def.Editor)
	v.SetDefault("backup.enabled", def.Backup.Enabled)
	v.SetDefault("backup.dir", def.Backup.Dir)
	v.SetDefault("backup.keep", def.Backup.Keep)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag --%s: %w", name, err)
			}
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = expandHome(cfg.File)
	cfg.Backup.Dir = expandHome(cfg.Backup.Dir)
	cfg.Log.File = expandHome(cfg.Log.File)
	if strings.TrimSpace(cfg.Editor) == "" {
		cfg.Editor = DefaultEditor
	}
	if cfg.Backup.Keep <= 0 {
		cfg.Backup.Keep = def.Backup.Keep
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func Validate(cfg *Config) []error {
	var errs []error
	if strings.TrimSpace(cfg.File) == "" {
		errs = append(errs, errors.New("file is required"))
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", cfg.Log.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(cfg.Log.Format)] {
		errs = append(errs, fmt.Errorf("invalid log format: %s", cfg.Log.Format))
	}
	return errs
}

// Save writes cfg to path as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	b, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return b, nil
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return "."
	}
	return home
}

func stateDir() string {
	if base := os.Getenv("XDG_STATE_HOME"); base != "" {
		return filepath.Join(base, "weekly")
	}
	return filepath.Join(homeDir(), ".local", "state", "weekly")
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || path == "~" {
		return filepath.Join(homeDir(), strings.TrimPrefix(path, "~"))
	}
	return path
}
