package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iamNilotpal/zblock/pkg/levels"
)

// Duration wraps time.Duration so YAML configs can use "90s" forms as
// well as raw nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!str" {
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

type Config struct {
	// PoolSlots overrides the per-direction context pool size.
	// Zero keeps the CPU-derived default.
	PoolSlots int `yaml:"pool_slots"`

	// SlotTimeout overrides how long idle pooled buffers are kept.
	SlotTimeout Duration `yaml:"slot_timeout"`

	// Level is the compression level in property form, e.g. "zstd-3",
	// "zstd-fast-10", "default".
	Level string `yaml:"level"`

	// BlockSize is the block granularity the demo tool compresses at.
	BlockSize int `yaml:"block_size"`
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		PoolSlots:   0, // Derive from CPU count.
		SlotTimeout: Duration(2 * time.Minute),
		Level:       levels.Default.String(),
		BlockSize:   128 * 1024, // 128KB records
	}
}

// Loads configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.PoolSlots < 0 {
		return fmt.Errorf("pool_slots must not be negative")
	}

	if config.SlotTimeout < 0 {
		return fmt.Errorf("slot_timeout must not be negative")
	}

	if config.BlockSize <= 0 {
		return fmt.Errorf("block_size must be greater than 0")
	}

	if _, err := levels.ParseLevel(config.Level); err != nil {
		return fmt.Errorf("level %q is not a valid compression level", config.Level)
	}

	return nil
}
