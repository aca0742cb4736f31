package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/dataset"
	"github.com/cache-sim/cache-sim/sim/trace"
)

var (
	// CLI flags for dataset generation
	configPath     string // Dataset YAML config file
	presetName     string // Named preset (built-in, or from --preset-file)
	presetFilePath string // YAML preset collection file
	epochSize      int    // Samples per worker
	workers        int    // Worker epochs to generate
	globalRank     int    // Distributed-process rank offset
	deterministic  bool   // Reproducible seeding (no timestamp folding)
	outputPath     string // JSONL destination (empty = stdout)
	resultsPath    string // Aggregate metrics JSON destination
	recordPath     string // Trace database path (enables recording)
	recordAccesses bool   // Record per-access rows, not just per-run rows
)

// generateCmd generates a cache-behavior dataset as JSONL.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cache-behavior dataset",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		startTime := time.Now()

		ds, err := dataset.New(resolveGenerateConfig(cmd))
		if err != nil {
			logrus.Fatalf("Unusable dataset configuration: %v", err)
		}
		cfg := ds.Config()

		out := os.Stdout
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				logrus.Fatalf("Cannot create output file: %v", err)
			}
			defer f.Close()
			out = f
		}
		enc := json.NewEncoder(out)

		var st *trace.SimulationTrace
		var rec trace.Recorder
		if recordPath != "" {
			level := trace.LevelRuns
			if recordAccesses {
				level = trace.LevelAccesses
			}
			st = trace.NewSimulationTrace(trace.Config{Level: level})
			rec, err = trace.NewRecorder(recordPath)
			if err != nil {
				logrus.Fatalf("Cannot open trace database: %v", err)
			}
		}

		logrus.Infof("Generating %d worker(s) x %d samples (seed %d, rank %d)",
			workers, cfg.EpochSize, cfg.Seed, cfg.GlobalRank)

		metrics := sim.NewMetrics()
		for worker := 0; worker < workers; worker++ {
			epoch := ds.Epoch(worker)
			for {
				sample, ok := epoch.Next()
				if !ok {
					break
				}
				if err := enc.Encode(sample); err != nil {
					logrus.Fatalf("Cannot write sample: %v", err)
				}
				recordSample(metrics, st, cfg, sample)
			}
		}

		if st != nil {
			if err := trace.Persist(st, rec); err != nil {
				logrus.Fatalf("Cannot persist trace: %v", err)
			}
		}

		metrics.Print()
		if resultsPath != "" {
			if err := metrics.SaveResults(xid.New().String(), cfg.Seed, startTime, resultsPath); err != nil {
				logrus.Fatalf("Cannot write results: %v", err)
			}
		}

		logrus.Info("Generation complete.")
	},
}

// resolveGenerateConfig layers flag overrides on top of the file, preset, or
// default configuration.
func resolveGenerateConfig(cmd *cobra.Command) dataset.Config {
	var cfg dataset.Config
	switch {
	case configPath != "":
		loaded, err := dataset.LoadConfig(configPath)
		if err != nil {
			logrus.Fatalf("Cannot load dataset config: %v", err)
		}
		cfg = *loaded
	case presetName != "" && presetFilePath != "":
		loaded, err := dataset.LoadPreset(presetFilePath, presetName)
		if err != nil {
			logrus.Fatalf("Cannot load preset: %v", err)
		}
		cfg = *loaded
	case presetName != "":
		cfg = builtinPreset(presetName)
	default:
		cfg = dataset.DefaultConfig()
	}

	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("epoch-size") || cfg.EpochSize == 0 {
		cfg.EpochSize = epochSize
	}
	if cmd.Flags().Changed("global-rank") {
		cfg.GlobalRank = globalRank
	}
	if cmd.Flags().Changed("deterministic") {
		cfg.Deterministic = deterministic
	}
	return cfg
}

// builtinPreset maps --preset names to the built-in constructors.
func builtinPreset(name string) dataset.Config {
	switch name {
	case "default":
		return dataset.PresetDefault(seed)
	case "tiny-conflict":
		return dataset.PresetTinyConflict(seed)
	case "loop-friendly":
		return dataset.PresetLoopFriendly(seed)
	default:
		logrus.Fatalf("Unknown preset %q; built-ins are default, tiny-conflict and loop-friendly (or pass --preset-file)", name)
		return dataset.Config{}
	}
}

// recordSample folds one sample into the metrics and the optional trace.
// Padding positions are excluded so counts reflect real accesses only.
func recordSample(metrics *sim.Metrics, st *trace.SimulationTrace, cfg dataset.Config, sample dataset.Sample) {
	hits, misses := sample.Hits(), sample.Misses()
	accesses := hits + misses

	result := sim.ReplayResult{
		Addresses: sample.Addresses[:accesses],
		Labels:    sample.Labels[:accesses],
		Hits:      hits,
		Misses:    misses,
	}
	metrics.Record(sample.PatternKind, result)

	if st == nil {
		return
	}

	st.RecordRun(trace.RunRecord{
		RunID:         sample.RunID,
		Pattern:       sample.PatternKind,
		Seed:          cfg.Seed,
		MaxAddress:    cfg.RAMVolume - 1,
		Length:        accesses,
		LineSize:      cfg.LineSize,
		NumLines:      sample.NumLines,
		Associativity: sample.Associativity,
		Hits:          hits,
		Misses:        misses,
		HitRate:       result.HitRate(),
	})

	if !st.Config.Level.IncludesAccesses() {
		return
	}

	// Tag and set index are pure functions of the geometry, so a fresh
	// cache serves to annotate the recorded accesses.
	cache, err := sim.NewCache(cfg.LineSize, sample.NumLines, sample.Associativity)
	if err != nil {
		logrus.Fatalf("Cannot rebuild cache for trace records: %v", err)
	}
	for i := 0; i < accesses; i++ {
		addr := sample.Addresses[i]
		st.RecordAccess(trace.AccessRecord{
			RunID:    sample.RunID,
			Step:     i,
			Address:  addr,
			Tag:      cache.Tag(addr),
			SetIndex: cache.SetIndex(addr),
			Hit:      sample.Labels[i] == sim.LabelHit,
		})
	}
}

// init sets up generate CLI flags
func init() {
	generateCmd.Flags().StringVar(&configPath, "config", "", "Dataset configuration YAML file")
	generateCmd.Flags().StringVar(&presetName, "preset", "", "Named preset (built-in, or from --preset-file)")
	generateCmd.Flags().StringVar(&presetFilePath, "preset-file", "", "YAML preset collection file")
	generateCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for generation")
	generateCmd.Flags().IntVar(&epochSize, "epoch-size", 1000, "Samples per worker")
	generateCmd.Flags().IntVar(&workers, "workers", 1, "Number of worker epochs to generate")
	generateCmd.Flags().IntVar(&globalRank, "global-rank", 0, "Global process rank for distributed generation")
	generateCmd.Flags().BoolVar(&deterministic, "deterministic", false, "Avoid timestamp-based seeding for reproducible output")
	generateCmd.Flags().StringVar(&outputPath, "output", "", "JSONL output file (default stdout)")
	generateCmd.Flags().StringVar(&resultsPath, "results", "", "Write aggregate metrics JSON to this file")
	generateCmd.Flags().StringVar(&recordPath, "record", "", "Record replay traces to this SQLite database")
	generateCmd.Flags().BoolVar(&recordAccesses, "record-accesses", false, "Record per-access rows in the trace database")

	rootCmd.AddCommand(generateCmd)
}
