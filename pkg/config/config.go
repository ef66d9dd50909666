package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avr-protocol/avr-go/pkg/avr"
	"github.com/avr-protocol/avr-go/pkg/transport"
	"github.com/avr-protocol/avr-go/pkg/wire"
)

// Configuration errors.
var (
	ErrNoHost          = errors.New("host is required")
	ErrBadPort         = errors.New("port out of range")
	ErrBadSourceID     = errors.New("source id must be a two-digit slot code")
	ErrDuplicateSource = errors.New("duplicate source id")
	ErrBadInterval     = errors.New("poll interval too short")
)

// MinPollInterval is the shortest permitted polling cadence. A full
// refresh already takes several round trips; polling faster than this
// just stacks sessions onto a half-duplex device.
const MinPollInterval = time.Second

// Duration wraps time.Duration with YAML support for strings like "5s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config describes one receiver.
type Config struct {
	// Host is the receiver's address. Required.
	Host string `yaml:"host"`

	// Port is the control port.
	Port int `yaml:"port"`

	// Name is a display name for the receiver.
	Name string `yaml:"name"`

	// ConnectTimeout bounds each session's TCP connect. Zero means no
	// explicit timeout.
	ConnectTimeout Duration `yaml:"connect_timeout"`

	// EnabledSourcesOnly hides sources the device marks disabled.
	EnabledSourcesOnly *bool `yaml:"enabled_sources_only"`

	// DisabledSources hides the named sources regardless of the
	// device's enabled flags.
	DisabledSources []string `yaml:"disabled_sources"`

	// Sources is a static name->id map. When present, slot probing is
	// skipped.
	Sources map[string]string `yaml:"sources"`

	// LogFile enables CBOR protocol capture to the given path.
	LogFile string `yaml:"log_file"`

	// PollInterval is the refresh cadence for the poller.
	PollInterval Duration `yaml:"poll_interval"`
}

// Default returns the configuration defaults.
func Default() Config {
	enabledOnly := true
	return Config{
		Port:               transport.DefaultPort,
		Name:               "Pioneer AVR",
		EnabledSourcesOnly: &enabledOnly,
		PollInterval:       Duration(30 * time.Second),
	}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML configuration data. Omitted fields
// keep their Default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.Host == "" {
		return ErrNoHost
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrBadPort, c.Port)
	}
	if c.PollInterval != 0 && time.Duration(c.PollInterval) < MinPollInterval {
		return fmt.Errorf("%w: %s", ErrBadInterval, time.Duration(c.PollInterval))
	}

	seen := make(map[string]string, len(c.Sources))
	for name, id := range c.Sources {
		if !validSourceID(id) {
			return fmt.Errorf("%w: %q -> %q", ErrBadSourceID, name, id)
		}
		if other, dup := seen[id]; dup {
			return fmt.Errorf("%w: %q shared by %q and %q", ErrDuplicateSource, id, other, name)
		}
		seen[id] = name
	}
	return nil
}

// validSourceID reports whether id is a two-digit slot code within the
// device's addressable range.
func validSourceID(id string) bool {
	if len(id) != 2 {
		return false
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return false
	}
	return n >= 0 && n < wire.MaxSourceSlots
}

// DeviceOptions converts the configuration into engine options.
func (c Config) DeviceOptions() avr.Options {
	allSources := false
	if c.EnabledSourcesOnly != nil {
		allSources = !*c.EnabledSourcesOnly
	}
	return avr.Options{
		Host:            c.Host,
		Port:            c.Port,
		ConnectTimeout:  time.Duration(c.ConnectTimeout),
		Sources:         c.Sources,
		AllSources:      allSources,
		DisabledSources: c.DisabledSources,
	}
}
