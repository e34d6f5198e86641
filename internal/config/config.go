// Package config loads and validates capture settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Geun-Oh/logix/internal/sample"
	"github.com/Geun-Oh/logix/internal/view"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Source kinds.
const (
	SourceSerial    = "serial"
	SourceFile      = "file"
	SourceStdin     = "stdin"
	SourceExec      = "exec"
	SourceGenerator = "generator"
)

// Output kinds.
const (
	OutputTUI  = "tui"
	OutputJSON = "json"
	OutputText = "text"
)

// Config holds every recognised option.
type Config struct {
	// Byte source.
	Source        string   `yaml:"source"`
	Port          string   `yaml:"port"`
	Baud          int      `yaml:"baud"`
	Path          string   `yaml:"path"`
	Follow        bool     `yaml:"follow"`
	Command       []string `yaml:"command"`
	GeneratorRate int      `yaml:"generator_rate"`

	// Capture.
	Channels       int `yaml:"channels"`
	BufferSize     int `yaml:"buffer_size"`
	TickIntervalMS int `yaml:"tick_interval_ms"`
	ReadChunkBytes int `yaml:"read_chunk_bytes"`
	ReadTimeoutMS  int `yaml:"read_timeout_ms"`

	// Initial view.
	TimeScale float64 `yaml:"time_scale"`
	XOffset   float64 `yaml:"x_offset"`
	Frozen    bool    `yaml:"frozen"`
	Clip      bool    `yaml:"clip"`

	// Output.
	Output     string `yaml:"output"`
	TraceWidth int    `yaml:"trace_width"`
	LogFile    string `yaml:"log_file"`
	LogLevel   string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Source:         SourceSerial,
		Port:           "/dev/ttyACM0",
		Baud:           1000000,
		GeneratorRate:  20000,
		Channels:       sample.MaxChannels,
		BufferSize:     10000,
		TickIntervalMS: 30,
		ReadChunkBytes: 500,
		ReadTimeoutMS:  10,
		TimeScale:      1.0,
		Clip:           true,
		Output:         OutputTUI,
		TraceWidth:     100,
		LogLevel:       "info",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// TickInterval returns the refresh period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// ReadTimeout returns the longest a single source read may block.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// InitialView returns the configured startup view state.
func (c Config) InitialView() view.State {
	return view.WithDefaults(c.TimeScale, c.XOffset, c.Frozen)
}
