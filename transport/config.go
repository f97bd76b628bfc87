package transport

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config selects a transport adapter and carries its construction
// parameters.
type Config struct {
	Kind   Kind         `toml:"kind"`
	Serial SerialConfig `toml:"serial"`
	Socket SocketConfig `toml:"socket"`
}

// SerialConfig configures the character-device adapter.
type SerialConfig struct {
	Port     string `toml:"port"`
	Baud     int    `toml:"baud"`
	DataBits int    `toml:"data_bits"`
	Parity   string `toml:"parity"`
	StopBits int    `toml:"stop_bits"`
}

// SocketConfig configures the streaming-socket adapter.
type SocketConfig struct {
	Network     string        `toml:"network"`
	Address     string        `toml:"address"`
	DialTimeout time.Duration `toml:"dial_timeout"`
}

// LoadConfig reads and validates a TOML transport configuration.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("transport config load failed (%s): %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("transport config parse failed (%s): %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Serial.Baud == 0 {
		c.Serial.Baud = 115200
	}
	if c.Serial.DataBits == 0 {
		c.Serial.DataBits = 8
	}
	if c.Serial.Parity == "" {
		c.Serial.Parity = "none"
	}
	if c.Serial.StopBits == 0 {
		c.Serial.StopBits = 1
	}
	if c.Socket.Network == "" {
		c.Socket.Network = "tcp"
	}
	if c.Socket.DialTimeout == 0 {
		c.Socket.DialTimeout = 10 * time.Second
	}
}

// Validate checks the adapter selection and its parameters.
func (c Config) Validate() error {
	switch c.Kind {
	case KindStream:
		return nil
	case KindSerial:
		if strings.TrimSpace(c.Serial.Port) == "" {
			return fmt.Errorf("transport: serial config missing port")
		}
		if c.Serial.Baud < 0 {
			return fmt.Errorf("transport: invalid baud rate %d", c.Serial.Baud)
		}
		if _, err := parityMode(c.Serial.Parity); err != nil {
			return err
		}
		if _, err := stopBitsMode(c.Serial.StopBits); err != nil {
			return err
		}
		return nil
	case KindSocket:
		if strings.TrimSpace(c.Socket.Address) == "" {
			return fmt.Errorf("transport: socket config missing address")
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
}
