// Package config holds the window and toolbar constants and the runtime
// settings loaded from file and environment.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/iburimskiy/survival-singularity/internal/logger"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "Survival Singularity"

	// Toolbar button dimensions
	ButtonWidth  = 120
	ButtonHeight = 32
	ButtonX      = 20
	ButtonY      = 16
	ButtonGap    = 10

	// Detail panel
	PanelWidth   = 320
	PanelPadding = 14
	RarityBarH   = 8

	SmoothingFactor = 0.6

	// Camera controls
	OrbitSensitivity = 0.005
	ZoomStep         = 1.1

	maxPINLength = 8
)

// Config is the runtime configuration.
type Config struct {
	LogLevel     string `koanf:"log_level"`
	DataPath     string `koanf:"data_path"`
	PIN          string `koanf:"pin"`
	PINAttempts  int    `koanf:"pin_attempts"`
	AudioEnabled bool   `koanf:"audio_enabled"`
	Soundtrack   string `koanf:"soundtrack"`
	MetricsAddr  string `koanf:"metrics_addr"`
	WindowWidth  int    `koanf:"window_width"`
	WindowHeight int    `koanf:"window_height"`
	SeedDefaults bool   `koanf:"seed_defaults"`
}

// New returns the defaults. DataPath stays empty so the store picks the
// user config directory.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		PIN:          "4334",
		PINAttempts:  3,
		AudioEnabled: true,
		WindowWidth:  WindowWidth,
		WindowHeight: WindowHeight,
		SeedDefaults: true,
	}
}

// Validate checks ranges and the log level.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.PINAttempts < 1 {
		return fmt.Errorf("%w: pin_attempts must be at least 1", ErrInvalidConfig)
	}
	if len(c.PIN) > maxPINLength || strings.TrimSpace(c.PIN) != c.PIN {
		return fmt.Errorf("%w: pin must be at most 8 characters without spaces", ErrInvalidConfig)
	}
	if c.WindowWidth < 320 || c.WindowHeight < 240 {
		return fmt.Errorf("%w: window must be at least 320x240", ErrInvalidConfig)
	}
	return nil
}
