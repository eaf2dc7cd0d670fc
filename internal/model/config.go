package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// TimerConfig holds countdown engine settings.
type TimerConfig struct {
	// Initial is the value loaded into the timer at startup ("HH:MM:SS").
	Initial string `mapstructure:"initial" yaml:"initial" validate:"required"`

	// TickIntervalMs is the wall-clock period between ticks.
	TickIntervalMs int `mapstructure:"tick_interval_ms" yaml:"tick_interval_ms" validate:"min=10,max=60000"`

	// ClampOnEdit forces edited fields into their nominal range.
	ClampOnEdit bool `mapstructure:"clamp_on_edit" yaml:"clamp_on_edit"`
}

// TasksConfig holds task list settings.
type TasksConfig struct {
	// AttachTimerDefault pre-selects "attach current timer" in the task form.
	AttachTimerDefault bool `mapstructure:"attach_timer_default" yaml:"attach_timer_default"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file" yaml:"file"`
}

// HistoryConfig holds session history settings.
type HistoryConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit" validate:"min=1,max=1000"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Timer   TimerConfig   `mapstructure:"timer" yaml:"timer"`
	Tasks   TasksConfig   `mapstructure:"tasks" yaml:"tasks"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
}

// TickInterval returns the configured tick period.
func (c *AppConfig) TickInterval() time.Duration {
	return time.Duration(c.Timer.TickIntervalMs) * time.Millisecond
}

// InitialDuration parses Timer.Initial.
func (c *AppConfig) InitialDuration() (Duration, error) {
	return ParseDuration(c.Timer.Initial)
}

// configDir returns ~/.config/countdown, falling back to the working
// directory when the home directory is unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "countdown")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/countdown/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	return filepath.Join(configDir(), "countdown.log")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Timer: TimerConfig{
			Initial:        "00:00:00",
			TickIntervalMs: 1000,
			ClampOnEdit:    true,
		},
		Tasks: TasksConfig{
			AttachTimerDefault: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
		History: HistoryConfig{
			Limit: 50,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("timer.initial", d.Timer.Initial)
	v.SetDefault("timer.tick_interval_ms", d.Timer.TickIntervalMs)
	v.SetDefault("timer.clamp_on_edit", d.Timer.ClampOnEdit)
	v.SetDefault("tasks.attach_timer_default", d.Tasks.AttachTimerDefault)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("history.limit", d.History.Limit)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed with COUNTDOWN_ override file values
// (e.g. COUNTDOWN_TIMER_CLAMP_ON_EDIT=false).
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("countdown")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field constraints and that the initial timer value
// parses and lies in range.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	d, err := c.InitialDuration()
	if err != nil {
		return fmt.Errorf("timer.initial: %w", err)
	}
	if !d.Valid() {
		return fmt.Errorf("timer.initial: %s is out of range", d)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("timer", map[string]any{
		"initial":          cfg.Timer.Initial,
		"tick_interval_ms": cfg.Timer.TickIntervalMs,
		"clamp_on_edit":    cfg.Timer.ClampOnEdit,
	})
	v.Set("tasks", map[string]any{
		"attach_timer_default": cfg.Tasks.AttachTimerDefault,
	})
	v.Set("log", map[string]any{
		"level": cfg.Log.Level,
		"file":  cfg.Log.File,
	})
	v.Set("history", map[string]any{
		"limit": cfg.History.Limit,
	})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
