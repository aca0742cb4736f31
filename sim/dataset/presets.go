package dataset

// Built-in generation presets for common cache studies.
// Each returns a valid Config ready for New.

// PresetDefault mirrors the stock generation setup: 2 GB address space,
// 16-access traces, the full geometry grid.
func PresetDefault(seed int64) Config {
	cfg := DefaultConfig()
	cfg.EpochSize = 1000
	cfg.Seed = seed
	cfg.Deterministic = true
	return cfg
}

// PresetTinyConflict stresses conflict misses: small direct-mapped caches
// over a small address space, with traces long enough to loop back into
// evicted sets.
func PresetTinyConflict(seed int64) Config {
	return Config{
		EpochSize:       1000,
		RAMVolume:       1 << 16,
		MaxSeqLength:    64,
		LineSize:        64,
		CacheLines:      []int{4, 8, 16},
		Associativities: []int{1},
		Seed:            seed,
		Deterministic:   true,
	}
}

// PresetLoopFriendly favors high hit rates: large fully-associative caches
// and traces long enough for several loop laps.
func PresetLoopFriendly(seed int64) Config {
	return Config{
		EpochSize:       500,
		RAMVolume:       DefaultRAMVolume,
		MaxSeqLength:    256,
		LineSize:        64,
		CacheLines:      []int{256, 512, 1024},
		Associativities: []int{0},
		Seed:            seed,
		Deterministic:   true,
	}
}
