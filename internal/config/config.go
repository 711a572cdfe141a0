// Package config loads the command-line renderer's settings file.
//
// YAML (.yaml, .yml) and TOML (.toml) are accepted. Fields left out of the
// file keep their defaults; flags given on the command line are applied on
// top by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/mandelbrot"
)

// ErrUnknownFormat is returned by Load for an unrecognised file extension.
var ErrUnknownFormat = errors.New("config: unknown file format (want .yaml, .yml or .toml)")

// Config is the settings file layout.
type Config struct {
	Output        string  `yaml:"output" toml:"output"`
	Width         int     `yaml:"width" toml:"width"`
	Height        int     `yaml:"height" toml:"height"`
	CenterX       float64 `yaml:"center_x" toml:"center_x"`
	CenterY       float64 `yaml:"center_y" toml:"center_y"`
	Span          float64 `yaml:"span" toml:"span"`
	MaxIterations int     `yaml:"max_iterations" toml:"max_iterations"`
	Supersample   int     `yaml:"supersample" toml:"supersample"`
	Backend       string  `yaml:"backend" toml:"backend"`
	Shader        string  `yaml:"shader" toml:"shader"`
	Timeout       string  `yaml:"timeout" toml:"timeout"`
	LogLevel      string  `yaml:"log_level" toml:"log_level"`

	// Validation enables the Vulkan validation layer for GPU renders.
	Validation bool `yaml:"validation" toml:"validation"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	v := mandelbrot.DefaultView()
	return &Config{
		Output:        "mandelbrot.png",
		Width:         v.Width,
		Height:        v.Height,
		CenterX:       v.CenterX,
		CenterY:       v.CenterY,
		Span:          v.Span,
		MaxIterations: v.MaxIterations,
		Supersample:   v.Supersample,
		Backend:       string(mandelbrot.BackendAuto),
		Timeout:       mandelbrot.DefaultTimeout.String(),
		LogLevel:      "info",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that the view validation does not cover
// and then the view itself.
func (c *Config) Validate() error {
	if c.Output == "" {
		return errors.New("config: output path is empty")
	}
	if _, err := mandelbrot.FormatFromPath(c.Output); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := mandelbrot.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := c.View().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// View returns the render parameters.
func (c *Config) View() mandelbrot.View {
	return mandelbrot.View{
		Width:         c.Width,
		Height:        c.Height,
		CenterX:       c.CenterX,
		CenterY:       c.CenterY,
		Span:          c.Span,
		MaxIterations: c.MaxIterations,
		Supersample:   c.Supersample,
	}
}

// TimeoutDuration parses Timeout. An empty value means the default.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return mandelbrot.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: timeout must be positive, got %s", d)
	}
	return d, nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
