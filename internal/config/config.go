//go:build !ios && !android && (amd64 || arm64)

// Package config loads the converter's TOML configuration. The file is
// optional: it provides defaults that CLI flags override per run.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Config holds the file-configurable defaults.
type Config struct {
	Quality   int    `toml:"quality"`
	Fast      bool   `toml:"fast"`
	Codec     string `toml:"codec"`
	Repeat    int    `toml:"repeat"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Quality:   100,
		Codec:     "vp9",
		Repeat:    0,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath returns the XDG location probed when no explicit path is
// given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "webmgif", "config.toml")
}

// Load reads the configuration at path, or the default location when
// path is empty. A missing default file yields the built-in defaults; an
// explicitly named file must exist, and a malformed or invalid file is
// always an error.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := afero.ReadFile(fsys, path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, nil
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the decoder or encoder would refuse later.
func (c Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range 1..100", c.Quality)
	}
	if c.Repeat < -1 {
		return fmt.Errorf("repeat %d out of range (-1 plays once, 0 loops forever)", c.Repeat)
	}
	switch strings.ToLower(c.Codec) {
	case "", "vp8", "vp9":
	default:
		return fmt.Errorf("unknown codec %q", c.Codec)
	}
	return nil
}
