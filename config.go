// seehuhn.de/go/revector - a 2D vector graphics engine
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package revector

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"seehuhn.de/go/revector/surface"
)

// Config is the contents of an engine configuration file:
//
//	tolerance = 0.25
//	workers = 4
//	memory_limit = 268435456
//	cache = true
//	log_level = "debug"
//
//	[surface]
//	width = 800
//	height = 600
//	format = "rgba8-premul"
//
// All keys are optional.
type Config struct {
	Tolerance   float64 `toml:"tolerance"`
	Workers     int     `toml:"workers"`
	MemoryLimit int64   `toml:"memory_limit"`
	Cache       *bool   `toml:"cache"`
	LogLevel    string  `toml:"log_level"`

	Surface SurfaceConfig `toml:"surface"`
}

// SurfaceConfig describes the surface a host should create.
type SurfaceConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Format string `toml:"format"`
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ReadConfig decodes a TOML configuration. Unknown keys are an error.
func ReadConfig(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the value ranges of c.
func (c *Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("negative tolerance %g", c.Tolerance)
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("negative memory limit %d", c.MemoryLimit)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Surface.Format != "" {
		if _, err := surface.ParseFormat(c.Surface.Format); err != nil {
			return err
		}
	}
	return nil
}

// Level returns the configured log level. The default is Info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Options converts c to engine options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Tolerance > 0 {
		opts = append(opts, WithTolerance(c.Tolerance))
	}
	if c.Workers > 0 {
		opts = append(opts, WithWorkers(c.Workers))
	}
	if c.MemoryLimit > 0 {
		opts = append(opts, WithMemoryLimit(c.MemoryLimit))
	}
	if c.Cache != nil {
		opts = append(opts, WithCache(*c.Cache))
	}
	return opts
}
