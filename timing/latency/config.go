package latency

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/pipesim/timing/cache"
)

// ErrInvalidConfig is returned by Validate for an unusable latency value.
var ErrInvalidConfig = errors.New("invalid timing config")

// TimingConfig holds latency values for the instruction classes and the
// data memory hierarchy. Latencies only feed cycle accounting; they never
// change the functional result of a step.
type TimingConfig struct {
	// ALULatency is the execute latency for add and subtract.
	// Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// LoadLatency is the latency for a load without a data cache.
	// Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency for a store without a data cache.
	// Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// L1HitLatency is the data cache hit latency.
	// Default: 1 cycle.
	L1HitLatency uint64 `json:"l1_hit_latency"`

	// MemoryLatency is the main memory access latency seen on a cache miss.
	// Default: 10 cycles.
	MemoryLatency uint64 `json:"memory_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:    1,
		LoadLatency:   2,
		StoreLatency:  1,
		L1HitLatency:  1,
		MemoryLatency: 10,
	}
}

// LoadConfig loads and validates a TimingConfig from a JSON file. Fields
// missing from the file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0) and that a miss
// is never faster than a hit.
func (c *TimingConfig) Validate() error {
	switch {
	case c.ALULatency == 0:
		return fmt.Errorf("alu_latency must be > 0: %w", ErrInvalidConfig)
	case c.LoadLatency == 0:
		return fmt.Errorf("load_latency must be > 0: %w", ErrInvalidConfig)
	case c.StoreLatency == 0:
		return fmt.Errorf("store_latency must be > 0: %w", ErrInvalidConfig)
	case c.L1HitLatency == 0:
		return fmt.Errorf("l1_hit_latency must be > 0: %w", ErrInvalidConfig)
	case c.MemoryLatency < c.L1HitLatency:
		return fmt.Errorf("memory_latency must be >= l1_hit_latency: %w", ErrInvalidConfig)
	}
	return nil
}

// ConfigureDCache returns cfg with its hit and miss latencies replaced by
// L1HitLatency and MemoryLatency.
func (c *TimingConfig) ConfigureDCache(cfg cache.Config) cache.Config {
	cfg.HitLatency = c.L1HitLatency
	cfg.MissLatency = c.MemoryLatency
	return cfg
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
