// Package config loads the YAML link file used by the devcmd CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	devcmd "github.com/luhtfiimanal/go-serial-devcmd"
	"github.com/luhtfiimanal/go-serial-devcmd/internal/logger"
)

// Config is the content of a link file.
type Config struct {
	Serial Serial `yaml:"serial"`
	// Ack makes listen answer every line with OK or ERR <CODE>.
	Ack bool `yaml:"ack"`
	// Resync skips to the next line after a failed parse instead of stopping.
	Resync bool `yaml:"resync"`
	Log    Log  `yaml:"log"`
}

// Serial describes the serial port to listen on.
type Serial struct {
	Device      string        `yaml:"device"`
	BaudRate    int           `yaml:"baud_rate"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// Log selects the log level.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Serial: Serial{BaudRate: devcmd.DefaultBaudRate},
		Log:    Log{Level: "info"},
	}
}

// SerialConfig converts the serial section for devcmd.OpenSerial.
func (c *Config) SerialConfig() devcmd.SerialConfig {
	return devcmd.SerialConfig{
		Device:      c.Serial.Device,
		BaudRate:    c.Serial.BaudRate,
		ReadTimeout: c.Serial.ReadTimeout,
	}
}

// Load reads and validates a link file. Fields missing from the file keep
// their defaults; unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that do not depend on the command being run.
// Whether a device is required is up to the caller.
func (c *Config) Validate() error {
	if !devcmd.SupportedBaudRate(c.Serial.BaudRate) {
		return fmt.Errorf("serial.baud_rate: %w: %d", devcmd.ErrUnsupportedBaud, c.Serial.BaudRate)
	}
	if c.Serial.ReadTimeout < 0 {
		return fmt.Errorf("serial.read_timeout must not be negative: %s", c.Serial.ReadTimeout)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
