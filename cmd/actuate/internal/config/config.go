// Package config loads the optional actuate.yaml file and resolves defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	actuateerrors "github.com/go-drift/actuate/pkg/errors"
)

// FileName is the name of the optional configuration file.
const FileName = "actuate.yaml"

// Output modes for the demo renderer.
const (
	OutputMemory = "memory"
	OutputCBOR   = "cbor"
)

const (
	defaultLogLevel = "info"
	defaultTicks    = 5
	defaultInterval = 100 * time.Millisecond
)

// Config represents the optional actuate.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Logging LoggingConfig `yaml:"logging"`
	Driver  DriverConfig  `yaml:"driver"`
	Demo    DemoConfig    `yaml:"demo"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// LoggingConfig selects the zap logger configuration.
type LoggingConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// DriverConfig contains render loop settings.
type DriverConfig struct {
	MaxFrames int `yaml:"max_frames,omitempty"`
}

// DemoConfig contains settings of the demo app driven by the run command.
type DemoConfig struct {
	Ticks    int    `yaml:"ticks,omitempty"`
	Interval string `yaml:"interval,omitempty"`
	Output   string `yaml:"output,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	ModulePath  string
	AppName     string
	LogLevel    zapcore.Level
	Development bool
	MaxFrames   int
	Ticks       int
	Interval    time.Duration
	Output      string
}

// LoadOptional reads actuate.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads actuate.yaml (if present) and resolves defaults. The module
// path is read from dir/go.mod when one exists.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	levelText := strings.TrimSpace(cfg.Logging.Level)
	if levelText == "" {
		levelText = defaultLogLevel
	}
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, invalid("logging.level: %w", err)
	}

	if cfg.Driver.MaxFrames < 0 {
		return nil, invalid("driver.max_frames must not be negative (got %d)", cfg.Driver.MaxFrames)
	}

	ticks := cfg.Demo.Ticks
	if ticks == 0 {
		ticks = defaultTicks
	}
	if ticks < 0 {
		return nil, invalid("demo.ticks must not be negative (got %d)", ticks)
	}

	interval := defaultInterval
	if text := strings.TrimSpace(cfg.Demo.Interval); text != "" {
		interval, err = time.ParseDuration(text)
		if err != nil {
			return nil, invalid("demo.interval: %w", err)
		}
		if interval <= 0 {
			return nil, invalid("demo.interval must be positive (got %s)", interval)
		}
	}

	output := strings.ToLower(strings.TrimSpace(cfg.Demo.Output))
	if output == "" {
		output = OutputMemory
	}
	if err := ValidateOutput(output); err != nil {
		return nil, err
	}

	return &Resolved{
		Root:        dir,
		ModulePath:  modulePath,
		AppName:     appName,
		LogLevel:    level,
		Development: cfg.Logging.Development,
		MaxFrames:   cfg.Driver.MaxFrames,
		Ticks:       ticks,
		Interval:    interval,
		Output:      output,
	}, nil
}

// ValidateOutput checks that output names a supported renderer.
func ValidateOutput(output string) error {
	switch output {
	case OutputMemory, OutputCBOR:
		return nil
	default:
		return invalid("demo.output must be %q or %q (got %q)", OutputMemory, OutputCBOR, output)
	}
}

// invalid reports a configuration value that failed validation.
func invalid(format string, args ...any) error {
	return &actuateerrors.ActuateError{
		Op:   "config.Resolve",
		Kind: actuateerrors.KindConfig,
		Err:  fmt.Errorf(format, args...),
	}
}

// FindProjectRoot walks up from the current directory to find go.mod. It
// returns the current directory when no module encloses it.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for dir := cwd; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "actuate_app"
	}
	return base
}
