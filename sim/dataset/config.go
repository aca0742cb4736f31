package dataset

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/pattern"
)

// Default generation parameters.
const (
	DefaultRAMVolume    int64 = 1 << 31
	DefaultMaxSeqLength       = 16
	DefaultLineSize           = 64
)

// Default geometry candidate sets.
var (
	DefaultCacheLines      = []int{16, 32, 64, 128, 256, 512, 1024}
	DefaultAssociativities = []int{0, 1, 2, 4, 8}
)

// Config holds every knob of dataset generation.
// Loaded from YAML via LoadConfig(path) or LoadPreset(path, name).
// Zero values for RAMVolume, MaxSeqLength, LineSize, CacheLines and
// Associativities mean "use default"; EpochSize must be set explicitly.
type Config struct {
	EpochSize       int   `yaml:"epoch_size"`            // samples per worker per epoch
	RAMVolume       int64 `yaml:"ram_volume"`            // address space size in bytes
	MaxSeqLength    int   `yaml:"max_seq_length"`        // trace length and padded sample width
	LineSize        int   `yaml:"line_size"`             // cache line size in bytes
	CacheLines      []int `yaml:"cache_lines"`           // candidate line counts
	Associativities []int `yaml:"associativity_options"` // candidate associativity values
	Seed            int64 `yaml:"seed"`
	Deterministic   bool  `yaml:"deterministic"` // no timestamp folded into worker seeds
	GlobalRank      int   `yaml:"global_rank"`   // distributed-process rank offset
}

// DefaultConfig returns a Config with every generation field at its default.
// EpochSize is left zero and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		RAMVolume:       DefaultRAMVolume,
		MaxSeqLength:    DefaultMaxSeqLength,
		LineSize:        DefaultLineSize,
		CacheLines:      append([]int(nil), DefaultCacheLines...),
		Associativities: append([]int(nil), DefaultAssociativities...),
	}
}

// withDefaults returns a copy with zero-valued generation fields replaced by
// their defaults.
func (c Config) withDefaults() Config {
	if c.RAMVolume == 0 {
		c.RAMVolume = DefaultRAMVolume
	}
	if c.MaxSeqLength == 0 {
		c.MaxSeqLength = DefaultMaxSeqLength
	}
	if c.LineSize == 0 {
		c.LineSize = DefaultLineSize
	}
	if len(c.CacheLines) == 0 {
		c.CacheLines = append([]int(nil), DefaultCacheLines...)
	}
	if len(c.Associativities) == 0 {
		c.Associativities = append([]int(nil), DefaultAssociativities...)
	}
	return c
}

// Validate checks that all fields are usable and that generation cannot fail
// mid-epoch: every cache geometry must construct, and every pattern kind must
// be sampleable within the address space.
func (c Config) Validate() error {
	if c.EpochSize <= 0 {
		return fmt.Errorf("epoch_size must be positive, got %d", c.EpochSize)
	}
	if c.RAMVolume <= 0 {
		return fmt.Errorf("ram_volume must be positive, got %d", c.RAMVolume)
	}
	if c.MaxSeqLength <= 0 {
		return fmt.Errorf("max_seq_length must be positive, got %d", c.MaxSeqLength)
	}
	if c.LineSize <= 0 {
		return fmt.Errorf("line_size must be positive, got %d", c.LineSize)
	}
	if len(c.CacheLines) == 0 {
		return fmt.Errorf("cache_lines must be non-empty")
	}
	for _, lines := range c.CacheLines {
		if lines <= 0 {
			return fmt.Errorf("cache_lines must contain only positive numbers, got %d", lines)
		}
	}
	if len(c.Associativities) == 0 {
		return fmt.Errorf("associativity_options must be non-empty")
	}
	for _, assoc := range c.Associativities {
		if assoc < 0 {
			return fmt.Errorf("associativity_options must contain only non-negative numbers, got %d", assoc)
		}
	}
	if c.GlobalRank < 0 {
		return fmt.Errorf("global_rank must be non-negative, got %d", c.GlobalRank)
	}

	for _, lines := range c.CacheLines {
		for _, assoc := range c.Associativities {
			if _, err := sim.NewCache(c.LineSize, lines, assoc); err != nil {
				return fmt.Errorf("unusable geometry %d lines x associativity %d: %w",
					lines, assoc, err)
			}
		}
	}

	// One probe draw per kind proves no pattern can reject the address
	// space during generation (loop needs room for its smallest window).
	probe := rand.New(rand.NewSource(0))
	for _, kind := range pattern.Kinds() {
		if _, err := pattern.SampleParams(kind, probe, c.RAMVolume-1, c.MaxSeqLength); err != nil {
			return fmt.Errorf("ram_volume %d cannot host pattern %s: %w",
				c.RAMVolume, kind, err)
		}
	}

	return nil
}

// LoadConfig reads and parses a YAML dataset configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected. Absent keys
// fall back to defaults; validation is deferred to New.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset config: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing dataset config: %w", err)
	}
	cfg = cfg.withDefaults()
	return &cfg, nil
}

// presetFile is the YAML shape of a preset collection file.
type presetFile struct {
	Presets map[string]Config `yaml:"presets"`
}

// LoadPreset reads one named configuration from a YAML preset collection.
func LoadPreset(path, name string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}
	var file presetFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing preset file: %w", err)
	}

	cfg, ok := file.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found in %s", name, path)
	}
	logrus.Infof("Using preset %v", name)

	cfg = cfg.withDefaults()
	return &cfg, nil
}
