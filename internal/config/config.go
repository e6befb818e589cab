// Package config loads the viewer configuration from TOML and watches it
// for live reloads.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the viewer configuration.
type Config struct {
	Map     MapConfig      `toml:"map"`
	Script  ScriptConfig   `toml:"script"`
	Log     LogConfig      `toml:"log"`
	Payload map[string]any `toml:"payload"`
}

// MapConfig controls the initial map view.
type MapConfig struct {
	CenterLat float64 `toml:"center_lat"`
	CenterLon float64 `toml:"center_lon"`
	Zoom      int     `toml:"zoom"`
	MinZoom   int     `toml:"min_zoom"`
	MaxZoom   int     `toml:"max_zoom"`
}

// ScriptConfig points at the optional Lua handler script.
type ScriptConfig struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// LogConfig controls log output.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Map: MapConfig{
			Zoom:    2,
			MinZoom: 0,
			MaxZoom: 18,
		},
		Script: ScriptConfig{Enabled: true},
		Log:    LogConfig{Path: "mapstorm.log"},
	}
}

// Load reads the configuration at path, layered over the defaults. A
// missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// validate checks ranges that would otherwise surface as widget clamping.
// The comparisons are written so NaN and infinities fail too; TOML accepts
// them as float literals.
func (c Config) validate() error {
	if c.Map.Zoom < c.Map.MinZoom || c.Map.Zoom > c.Map.MaxZoom {
		return fmt.Errorf("zoom %d outside range [%d, %d]", c.Map.Zoom, c.Map.MinZoom, c.Map.MaxZoom)
	}
	if c.Map.MinZoom > c.Map.MaxZoom {
		return fmt.Errorf("min_zoom %d greater than max_zoom %d", c.Map.MinZoom, c.Map.MaxZoom)
	}
	if !(c.Map.CenterLat >= -90 && c.Map.CenterLat <= 90) {
		return fmt.Errorf("center_lat %v outside range [-90, 90]", c.Map.CenterLat)
	}
	if !(c.Map.CenterLon >= -180 && c.Map.CenterLon <= 180) {
		return fmt.Errorf("center_lon %v outside range [-180, 180]", c.Map.CenterLon)
	}
	return nil
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
