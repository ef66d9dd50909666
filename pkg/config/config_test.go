package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinimal(t *testing.T) {
	cfg, err := Parse([]byte("host: 192.0.2.10\n"))
	require.NoError(t, err)

	assert.Equal(t, "192.0.2.10", cfg.Host)
	assert.Equal(t, 23, cfg.Port)
	assert.Equal(t, "Pioneer AVR", cfg.Name)
	require.NotNil(t, cfg.EnabledSourcesOnly)
	assert.True(t, *cfg.EnabledSourcesOnly)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.PollInterval))
	assert.Zero(t, time.Duration(cfg.ConnectTimeout))
}

func TestParseFull(t *testing.T) {
	data := []byte(`
host: avr.local
port: 8102
name: Living Room
connect_timeout: 5s
enabled_sources_only: false
disabled_sources: [PHONO, TUNER]
sources:
  TV: "05"
  CD: "01"
log_file: /tmp/avr.avrlog
poll_interval: 10s
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "avr.local", cfg.Host)
	assert.Equal(t, 8102, cfg.Port)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.ConnectTimeout))
	require.NotNil(t, cfg.EnabledSourcesOnly)
	assert.False(t, *cfg.EnabledSourcesOnly)
	assert.Equal(t, []string{"PHONO", "TUNER"}, cfg.DisabledSources)
	assert.Equal(t, map[string]string{"TV": "05", "CD": "01"}, cfg.Sources)
	assert.Equal(t, 10*time.Second, time.Duration(cfg.PollInterval))
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"missing host", "port: 23\n", ErrNoHost},
		{"bad port", "host: a\nport: 70000\n", ErrBadPort},
		{"bad source id", "host: a\nsources:\n  TV: \"5\"\n", ErrBadSourceID},
		{"source id out of range", "host: a\nsources:\n  TV: \"61\"\n", ErrBadSourceID},
		{"non-numeric source id", "host: a\nsources:\n  TV: \"xy\"\n", ErrBadSourceID},
		{"duplicate source id", "host: a\nsources:\n  TV: \"05\"\n  CD: \"05\"\n", ErrDuplicateSource},
		{"poll interval too short", "host: a\npoll_interval: 100ms\n", ErrBadInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseBadDuration(t *testing.T) {
	_, err := Parse([]byte("host: a\nconnect_timeout: fast\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: 192.0.2.7\nport: 8102\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "192.0.2.7", cfg.Host)
	assert.Equal(t, 8102, cfg.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDeviceOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
host: avr.local
port: 8102
connect_timeout: 3s
enabled_sources_only: false
disabled_sources: [PHONO]
sources:
  TV: "05"
`))
	require.NoError(t, err)

	opts := cfg.DeviceOptions()
	assert.Equal(t, "avr.local", opts.Host)
	assert.Equal(t, 8102, opts.Port)
	assert.Equal(t, 3*time.Second, opts.ConnectTimeout)
	assert.True(t, opts.AllSources)
	assert.Equal(t, []string{"PHONO"}, opts.DisabledSources)
	assert.Equal(t, map[string]string{"TV": "05"}, opts.Sources)
}
