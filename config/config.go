// Package config loads trimcrop settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/user/trimcrop-cli/mpv"
	"github.com/user/trimcrop-cli/preview"
)

const appName = "trimcrop-cli"

// Environment variables that override the file.
const (
	EnvSocket   = "TRIMCROP_SOCKET"
	EnvLogLevel = "TRIMCROP_LOG_LEVEL"
)

// Config holds the complete application configuration.
type Config struct {
	Socket   string         `yaml:"socket"`
	Logging  LoggingConfig  `yaml:"logging"`
	Playback PlaybackConfig `yaml:"playback"`
	Trim     TrimConfig     `yaml:"trim"`
	Crop     CropConfig     `yaml:"crop"`
	Watch    WatchConfig    `yaml:"watch"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// PlaybackConfig tunes the looped preview.
type PlaybackConfig struct {
	MaxLoops     int           `yaml:"max_loops"`
	LoopEpsilon  float64       `yaml:"loop_epsilon"`
	SeekDebounce time.Duration `yaml:"seek_debounce"`
}

// TrimConfig tunes the range slider.
type TrimConfig struct {
	Step        float64 `yaml:"step"`
	MinDistance float64 `yaml:"min_distance"`
}

// CropConfig tunes the crop box.
type CropConfig struct {
	MinSize         int     `yaml:"min_size"`
	InitialFraction float64 `yaml:"initial_fraction"`
}

// WatchConfig tunes file watching.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	logFile := ""
	if dir, err := DataDir(); err == nil {
		logFile = filepath.Join(dir, "trimcrop.log")
	}
	return &Config{
		Socket: mpv.DefaultSocketPath,
		Logging: LoggingConfig{
			Level: "info",
			File:  logFile,
		},
		Playback: PlaybackConfig{
			MaxLoops:     preview.MaxLoops,
			LoopEpsilon:  preview.LoopEpsilon,
			SeekDebounce: preview.SeekDebounce,
		},
		Trim: TrimConfig{
			Step:        0.01,
			MinDistance: 0.1,
		},
		Crop: CropConfig{
			MinSize:         30,
			InitialFraction: preview.InitialCropFraction,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// DataDir returns ~/.local/share/trimcrop-cli.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// DefaultPath returns ~/.config/trimcrop-cli/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), nil
}

// Load builds the configuration from defaults, the file at path (if it
// exists) and the environment, in that order. An empty path uses DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSocket); v != "" {
		c.Socket = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks ranges that would break the preview.
func (c *Config) Validate() error {
	if c.Socket == "" {
		return errors.New("socket path is empty")
	}
	if hclog.LevelFromString(c.Logging.Level) == hclog.NoLevel {
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	if c.Playback.MaxLoops < 1 {
		return fmt.Errorf("invalid max_loops: %d", c.Playback.MaxLoops)
	}
	if c.Playback.LoopEpsilon <= 0 {
		return fmt.Errorf("invalid loop_epsilon: %v", c.Playback.LoopEpsilon)
	}
	if c.Playback.SeekDebounce <= 0 {
		return fmt.Errorf("invalid seek_debounce: %v", c.Playback.SeekDebounce)
	}
	if c.Trim.Step <= 0 {
		return fmt.Errorf("invalid trim step: %v", c.Trim.Step)
	}
	if c.Trim.MinDistance < 0 {
		return fmt.Errorf("invalid trim min_distance: %v", c.Trim.MinDistance)
	}
	if c.Crop.MinSize < 1 {
		return fmt.Errorf("invalid crop min_size: %d", c.Crop.MinSize)
	}
	if c.Crop.InitialFraction <= 0 || c.Crop.InitialFraction > 1 {
		return fmt.Errorf("invalid crop initial_fraction: %v", c.Crop.InitialFraction)
	}
	return nil
}

// PreviewOptions converts the playback settings for preview.NewSession.
func (c *Config) PreviewOptions() preview.Options {
	return preview.Options{
		MaxLoops:     c.Playback.MaxLoops,
		LoopEpsilon:  c.Playback.LoopEpsilon,
		SeekDebounce: c.Playback.SeekDebounce,
		CropFraction: c.Crop.InitialFraction,
	}
}

// LogLevel returns the configured level, normalized for display.
func (c *Config) LogLevel() string {
	return strings.ToLower(c.Logging.Level)
}
