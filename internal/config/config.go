// Package config loads the optional TOML configuration file that supplies
// tool locations and default run settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const appName = "ffmpeg-for"

// Binaries names the external tools. Bare names are resolved through PATH.
type Binaries struct {
	FFmpeg         string `toml:"ffmpeg"`
	FFprobe        string `toml:"ffprobe"`
	QualityMetrics string `toml:"quality_metrics"`
}

type Defaults struct {
	FFmpegOptions       string `toml:"ffmpeg_options"`
	Interval            int    `toml:"interval"`
	OutputExt           string `toml:"output_ext"`
	CalcMetrics         bool   `toml:"calc_metrics"`
	MetricsGraceSeconds int    `toml:"metrics_grace_seconds"` // Default: 10
}

type Logging struct {
	Level string `toml:"level"` // debug | info | warn | error
	File  string `toml:"file"`
}

type Config struct {
	Binaries Binaries `toml:"binaries"`
	Defaults Defaults `toml:"defaults"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Binaries: Binaries{
			FFmpeg:         "ffmpeg",
			FFprobe:        "ffprobe",
			QualityMetrics: "ffmpeg-quality-metrics",
		},
		Defaults: Defaults{
			MetricsGraceSeconds: 10,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/ffmpeg-for/config.toml, falling
// back to ~/.config/ffmpeg-for/config.toml.
func DefaultConfigPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration. An explicit path must exist; with an empty
// path the default location is used when present and defaults otherwise.
// It returns the resolved path and whether a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path = strings.TrimSpace(path); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

func expandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func (c *Config) normalize() {
	def := Default()
	c.Binaries.FFmpeg = orDefault(c.Binaries.FFmpeg, def.Binaries.FFmpeg)
	c.Binaries.FFprobe = orDefault(c.Binaries.FFprobe, def.Binaries.FFprobe)
	c.Binaries.QualityMetrics = orDefault(c.Binaries.QualityMetrics, def.Binaries.QualityMetrics)
	c.Logging.Level = strings.ToLower(orDefault(c.Logging.Level, def.Logging.Level))
	if c.Logging.File != "" {
		if expanded, err := expandPath(c.Logging.File); err == nil {
			c.Logging.File = expanded
		}
	}
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
