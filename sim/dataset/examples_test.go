package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExampleConfigs_SmallSweep verifies that small-sweep.yaml loads
// correctly and describes a usable geometry sweep.
func TestExampleConfigs_SmallSweep(t *testing.T) {
	// GIVEN the small-sweep.yaml example config
	path := filepath.Join("..", "..", "examples", "small-sweep.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err, "failed to load small-sweep.yaml")

	// THEN validation passes
	require.NoError(t, cfg.Validate(), "validation failed")

	// THEN the sweep covers all three mapping modes
	assert.Equal(t, 200, cfg.EpochSize)
	assert.Equal(t, int64(1048576), cfg.RAMVolume)
	assert.Equal(t, 32, cfg.MaxSeqLength)
	assert.Equal(t, []int{16, 64, 256}, cfg.CacheLines)
	assert.Equal(t, []int{0, 1, 4}, cfg.Associativities)

	// THEN the run is reproducible
	assert.Equal(t, int64(1234), cfg.Seed)
	assert.True(t, cfg.Deterministic)
}

// TestExampleConfigs_Presets verifies that every preset in presets.yaml
// loads and validates.
func TestExampleConfigs_Presets(t *testing.T) {
	path := filepath.Join("..", "..", "examples", "presets.yaml")

	// GIVEN the smoke preset
	smoke, err := LoadPreset(path, "smoke")
	require.NoError(t, err, "failed to load smoke preset")
	require.NoError(t, smoke.Validate(), "smoke validation failed")
	assert.Equal(t, 50, smoke.EpochSize)
	assert.Equal(t, int64(65536), smoke.RAMVolume)

	// GIVEN the conflict-study preset
	study, err := LoadPreset(path, "conflict-study")
	require.NoError(t, err, "failed to load conflict-study preset")
	require.NoError(t, study.Validate(), "conflict-study validation failed")

	// THEN it pins one small cache and varies only the associativity
	assert.Equal(t, []int{16}, study.CacheLines)
	assert.Equal(t, []int{1, 2, 4}, study.Associativities)
	assert.Equal(t, int64(16384), study.RAMVolume)

	// THEN an unknown name is rejected
	_, err = LoadPreset(path, "nope")
	assert.Error(t, err)
}

// TestExampleConfigs_GenerateFromSmallSweep runs a few samples from the
// example config end to end.
func TestExampleConfigs_GenerateFromSmallSweep(t *testing.T) {
	path := filepath.Join("..", "..", "examples", "small-sweep.yaml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.EpochSize = 5

	ds, err := New(*cfg)
	require.NoError(t, err)

	epoch := ds.Epoch(0)
	for {
		sample, ok := epoch.Next()
		if !ok {
			break
		}
		assert.Len(t, sample.Addresses, cfg.MaxSeqLength)
		assert.Contains(t, cfg.CacheLines, sample.NumLines)
		assert.Contains(t, cfg.Associativities, sample.Associativity)
	}
}
