package dungeon

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config parameterizes one level generation pass (spec §2, §9 "Global
// mutable state": the per-generation context a host collects instead of
// relying on globals).
type Config struct {
	Seed uint64 `yaml:"seed" json:"seed"`

	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// Depth is the level currently being generated. DeepestLevel is the
	// amulet level (spec's "amuletLevel"/"deepestLevel" milestone).
	Depth        int `yaml:"depth" json:"depth"`
	DeepestLevel int `yaml:"deepestLevel" json:"deepestLevel"`

	// MinimumLavaLevel and MinimumBrimstoneLevel gate liquidType's
	// depth-scaled lake liquid choice (spec §4.4).
	MinimumLavaLevel      int `yaml:"minimumLavaLevel" json:"minimumLavaLevel"`
	MinimumBrimstoneLevel int `yaml:"minimumBrimstoneLevel" json:"minimumBrimstoneLevel"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML config data, filling in a generated seed
// when the caller left Seed at zero, then validates the result.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every field is within the range the pipeline can rely on
// without further defensive checks downstream.
func (c *Config) Validate() error {
	if c.Width < 20 || c.Width > 500 {
		return fmt.Errorf("width: must be in [20, 500], got %d", c.Width)
	}
	if c.Height < 20 || c.Height > 500 {
		return fmt.Errorf("height: must be in [20, 500], got %d", c.Height)
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth: must be >= 1, got %d", c.Depth)
	}
	if c.DeepestLevel < c.Depth {
		return fmt.Errorf("deepestLevel: must be >= depth (%d), got %d", c.Depth, c.DeepestLevel)
	}
	if c.MinimumLavaLevel < 1 || c.MinimumLavaLevel > c.DeepestLevel {
		return fmt.Errorf("minimumLavaLevel: must be in [1, deepestLevel], got %d", c.MinimumLavaLevel)
	}
	if c.MinimumBrimstoneLevel < 1 || c.MinimumBrimstoneLevel > c.DeepestLevel {
		return fmt.Errorf("minimumBrimstoneLevel: must be in [1, deepestLevel], got %d", c.MinimumBrimstoneLevel)
	}
	return nil
}

// ToYAML serializes the config back to YAML, e.g. for a generated starter
// file or for Hash.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash derives a stable digest of the config's content, consulted to seed
// per-stage RNG streams (rng.NewStreams) so that two configs differing only
// in, say, width produce unrelated sequences even with the same Seed. Falls
// back to hashing the raw seed if YAML marshaling ever fails.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		sum := sha256.Sum256(buf[:])
		return sum[:]
	}
	sum := sha256.Sum256(data)
	return sum[:]
}

// generateSeed produces a non-zero seed from the wall clock when the caller
// didn't supply one.
func generateSeed() uint64 {
	n := time.Now().UnixNano()
	if n == 0 {
		n = 1
	}
	return uint64(n) //nolint:gosec // seed material, not security-sensitive
}
