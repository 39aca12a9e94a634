// Package config loads airsketch settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds application settings.
type Config struct {
	Addr      string `toml:"addr"`
	DataDir   string `toml:"data_dir"`
	StaticDir string `toml:"static_dir"`

	// CameraID is the capture device index. A negative value disables the
	// camera and leaves touch as the only input.
	CameraID int `toml:"camera_id"`

	Canvas  CanvasConfig  `toml:"canvas"`
	Gesture GestureConfig `toml:"gesture"`

	MDNS bool `toml:"mdns"`
	Tray bool `toml:"tray"`
}

// CanvasConfig sizes the drawing surface and its history.
type CanvasConfig struct {
	Width           int `toml:"width"`
	Height          int `toml:"height"`
	HistoryCapacity int `toml:"history_capacity"`
}

// GestureConfig tunes gesture taps on controls.
type GestureConfig struct {
	TapCooldownMS int  `toml:"tap_cooldown_ms"`
	FirstMatch    bool `toml:"first_match"`
}

// TapCooldown returns the cooldown between gesture taps.
func (g GestureConfig) TapCooldown() time.Duration {
	return time.Duration(g.TapCooldownMS) * time.Millisecond
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Addr:      ":8080",
		DataDir:   "~/.airsketch",
		StaticDir: "web",
		CameraID:  0,
		Canvas: CanvasConfig{
			Width:           1280,
			Height:          720,
			HistoryCapacity: 50,
		},
		Gesture: GestureConfig{
			TapCooldownMS: 500,
		},
		MDNS: true,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that would leave the app unusable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Gesture.TapCooldownMS < 0 {
		return fmt.Errorf("invalid tap cooldown %dms", c.Gesture.TapCooldownMS)
	}
	return nil
}

// Save writes c to path as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
