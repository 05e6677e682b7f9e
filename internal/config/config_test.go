//go:build !ios && !android && (amd64 || arm64)

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, fsys afero.Fs, path, contents string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(contents), 0o644))
}

func TestLoadMissingDefaultFile(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/etc/webmgif/nope.toml")
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg.toml", `
quality = 50
fast = true
codec = "vp8"
repeat = -1
log_level = "debug"
log_file = "/var/log/webmgif.log"
`)

	cfg, err := Load(fsys, "/cfg.toml")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Quality)
	assert.True(t, cfg.Fast)
	assert.Equal(t, "vp8", cfg.Codec)
	assert.Equal(t, -1, cfg.Repeat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/log/webmgif.log", cfg.LogFile)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg.toml", `quality = 80`)

	cfg, err := Load(fsys, "/cfg.toml")
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Quality)
	assert.Equal(t, "vp9", cfg.Codec, "unset keys keep their defaults")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg.toml", `quality = [`)

	_, err := Load(fsys, "/cfg.toml")
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg.toml", `quality = 0`)

	_, err := Load(fsys, "/cfg.toml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"quality low", func(c *Config) { c.Quality = 0 }, true},
		{"quality high", func(c *Config) { c.Quality = 101 }, true},
		{"repeat once", func(c *Config) { c.Repeat = -1 }, false},
		{"repeat invalid", func(c *Config) { c.Repeat = -2 }, true},
		{"codec vp8", func(c *Config) { c.Codec = "VP8" }, false},
		{"codec unknown", func(c *Config) { c.Codec = "av1" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Contains(t, DefaultPath(), "webmgif")
	assert.Contains(t, DefaultPath(), "config.toml")
}
