// Package config describes which EEPROM is fitted and how to reach it.
//
// Host tools load YAML files; MCU builds decode an embedded JSON document.
// Both share the same tags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"seeprom-go/drivers/seeprom"

	"gopkg.in/yaml.v3"
)

// Backends understood by the platform layer.
const (
	BackendLinux = "linux"
	BackendRP2   = "rp2"
	BackendSim   = "sim"
)

type Config struct {
	Chip string `json:"chip" yaml:"chip"`
	Bus  Bus    `json:"bus" yaml:"bus"`
	Poll Poll   `json:"poll,omitempty" yaml:"poll,omitempty"`
}

// Bus selects the SPI controller and chip-select line.
type Bus struct {
	Backend string `json:"backend" yaml:"backend"`
	Port    string `json:"port,omitempty" yaml:"port,omitempty"` // linux: spireg name, rp2: "spi0"/"spi1"
	CS      string `json:"cs,omitempty" yaml:"cs,omitempty"`     // linux: gpioreg name, rp2: GPIO number
	Hz      uint32 `json:"hz,omitempty" yaml:"hz,omitempty"`
	Mode    uint8  `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// Poll bounds the status polling loops.
type Poll struct {
	IntervalUS     int `json:"interval_us,omitempty" yaml:"interval_us,omitempty"`
	ReadyTimeoutMS int `json:"ready_timeout_ms,omitempty" yaml:"ready_timeout_ms,omitempty"`
}

var (
	ErrMissingChip    = errors.New("config: missing chip")
	ErrUnknownBackend = errors.New("config: unknown backend")
	ErrInvalidMode    = errors.New("config: invalid spi mode")
)

// Default returns a simulated 25040 at 1 MHz, mode 0.
func Default() Config {
	return Config{
		Chip: "25040",
		Bus:  Bus{Backend: BackendSim, Hz: 1_000_000},
		Poll: Poll{IntervalUS: 1, ReadyTimeoutMS: 50},
	}
}

// Load reads a YAML file over Default().
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, c.Validate()
}

// Decode accepts JSON bytes, a JSON string, or any JSON-marshalable value
// (e.g. a map from an embedded document) over Default().
func Decode(src any) (Config, error) {
	c := Default()
	if err := decodeJSON(src, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, c.Validate()
}

func decodeJSON[T any](src any, dst *T) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}
}

func (c Config) Validate() error {
	if c.Chip == "" {
		return ErrMissingChip
	}
	switch c.Bus.Backend {
	case BackendLinux, BackendRP2, BackendSim:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Bus.Backend)
	}
	if c.Bus.Mode > 3 {
		return fmt.Errorf("%w: %d", ErrInvalidMode, c.Bus.Mode)
	}
	return nil
}

// Driver builds the driver configuration. Zero poll values fall back to
// the driver defaults.
func (c Config) Driver(log *slog.Logger) seeprom.Config {
	d := seeprom.DefaultConfig(c.Chip)
	if c.Poll.IntervalUS > 0 {
		d.PollInterval = time.Duration(c.Poll.IntervalUS) * time.Microsecond
	}
	if c.Poll.ReadyTimeoutMS > 0 {
		d.ReadyTimeout = time.Duration(c.Poll.ReadyTimeoutMS) * time.Millisecond
	}
	d.Logger = log
	return d
}
