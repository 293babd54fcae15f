package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the complete application configuration
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Download   DownloadConfig   `yaml:"download"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Timestamps TimestampsConfig `yaml:"timestamps"`
	Sites      SitesConfig      `yaml:"sites"`
}

// PathsConfig contains the output directory layout
type PathsConfig struct {
	VideoDirectory string `yaml:"video_directory"`
	AudioDirectory string `yaml:"audio_directory"`
}

// DownloadConfig contains settings for the external downloader
type DownloadConfig struct {
	Program  string `yaml:"program"`
	BaseName string `yaml:"base_name"`
}

// FFmpegConfig contains settings for the audio cut
type FFmpegConfig struct {
	Path        string `yaml:"path"`
	AudioFilter string `yaml:"audio_filter"`
	Channels    int    `yaml:"channels"`
}

// TimestampsConfig controls range expression parsing
type TimestampsConfig struct {
	Delimiter   string        `yaml:"delimiter"`
	MinDuration time.Duration `yaml:"min_duration"`
	Layouts     []string      `yaml:"layouts"`
}

// SitesConfig lists sites that --skip leaves out
type SitesConfig struct {
	Restricted []string `yaml:"restricted"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			VideoDirectory: "videos",
			AudioDirectory: "audios",
		},
		Download: DownloadConfig{
			Program:  "you-get",
			BaseName: "target",
		},
		FFmpeg: FFmpegConfig{
			Path:        "ffmpeg",
			AudioFilter: "loudnorm",
			Channels:    2,
		},
		Timestamps: TimestampsConfig{
			Delimiter:   "~",
			MinDuration: time.Second,
			Layouts:     []string{"hh:mm:ss", "hh:mm:ss.ffffff", "mm:ss", "mm:ss.ffffff"},
		},
		Sites: SitesConfig{
			Restricted: []string{"youtube"},
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Settings missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, returning the defaults when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.VideoDirectory) == "" {
		problems = append(problems, "paths.video_directory is required")
	}
	if strings.TrimSpace(c.Paths.AudioDirectory) == "" {
		problems = append(problems, "paths.audio_directory is required")
	}
	if strings.TrimSpace(c.Download.Program) == "" {
		problems = append(problems, "download.program is required")
	}
	if strings.TrimSpace(c.Download.BaseName) == "" {
		problems = append(problems, "download.base_name is required")
	}
	if strings.TrimSpace(c.FFmpeg.Path) == "" {
		problems = append(problems, "ffmpeg.path is required")
	}
	if c.FFmpeg.Channels <= 0 {
		problems = append(problems, "ffmpeg.channels must be positive")
	}
	if c.Timestamps.Delimiter == "" {
		problems = append(problems, "timestamps.delimiter is required")
	} else if strings.ContainsAny(c.Timestamps.Delimiter, ":.0123456789") {
		problems = append(problems, "timestamps.delimiter must not contain digits, ':' or '.'")
	}
	if c.Timestamps.MinDuration <= 0 {
		problems = append(problems, "timestamps.min_duration must be positive")
	}
	if len(c.Timestamps.Layouts) == 0 {
		problems = append(problems, "timestamps.layouts must list at least one layout")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
