package cmd

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/pattern"
)

var (
	// CLI flags for single-trace replay
	replayPattern string  // Access pattern kind to generate
	maxAddress    int64   // Largest address the trace may contain
	traceLength   int     // Number of addresses to replay
	epsilon       float64 // Jump probability override (negative = sample)
	loopSize      int64   // Loop window override (negative = sample)
	strideStep    int64   // Stride override (negative = sample)
	stackDepth    int     // Initial stack depth override (negative = sample)
	showCache     bool    // Print cache contents after the replay
)

// replayCmd replays one generated trace through one cache and prints every access.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay one access pattern through one cache",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		kind, err := pattern.ParseKind(replayPattern)
		if err != nil {
			logrus.Fatalf("Invalid pattern: %v", err)
		}

		cache, err := sim.NewCache(lineSize, numLines, associativity)
		if err != nil {
			logrus.Fatalf("Invalid cache configuration: %v", err)
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed)).ForSubsystem(sim.SubsystemTrace)

		params, err := replayParams(kind, rng)
		if err != nil {
			logrus.Fatalf("Invalid pattern parameters: %v", err)
		}
		seq, err := pattern.NewSequence(params, rng)
		if err != nil {
			logrus.Fatalf("Invalid pattern parameters: %v", err)
		}

		logrus.Infof("Replaying %s through %d lines x associativity %d (seed %d)",
			kind, numLines, associativity, seed)

		result := sim.Replay(cache, seq)

		fmt.Println("=== Replay ===")
		for i, addr := range result.Addresses {
			outcome := "miss"
			if result.Labels[i] == sim.LabelHit {
				outcome = "hit"
			}
			fmt.Printf("%4d  %12d  %s\n", i, addr, outcome)
		}
		fmt.Printf("\nHit Rate             : %.2f%%  (%d hits / %d misses)\n",
			100*result.HitRate(), result.Hits, result.Misses)

		if showCache {
			fmt.Println()
			fmt.Println(cache)
		}
	},
}

// replayParams builds pattern parameters from explicit flag overrides,
// sampling anything left negative.
func replayParams(kind pattern.Kind, rng *rand.Rand) (pattern.Params, error) {
	switch kind {
	case pattern.KindSequentialWithJumps:
		if epsilon >= 0 {
			return pattern.SequentialWithJumpsParams{MaxAddress: maxAddress, Length: traceLength, Epsilon: epsilon}, nil
		}
	case pattern.KindLoop:
		if loopSize >= 0 {
			return pattern.LoopParams{MaxAddress: maxAddress, Length: traceLength, LoopSize: loopSize}, nil
		}
	case pattern.KindStride:
		if strideStep >= 0 {
			return pattern.StrideParams{MaxAddress: maxAddress, Length: traceLength, Stride: strideStep}, nil
		}
	case pattern.KindStack:
		if stackDepth >= 0 {
			return pattern.StackParams{MaxAddress: maxAddress, Length: traceLength, InitialDepth: stackDepth}, nil
		}
	}
	return pattern.SampleParams(kind, rng, maxAddress, traceLength)
}

// init sets up replay CLI flags
func init() {
	replayCmd.Flags().StringVar(&replayPattern, "pattern", "random", "Access pattern (sequential_with_jumps, loop, random, stride, stack, heap)")
	replayCmd.Flags().IntVar(&lineSize, "line-size", 64, "Cache line size in bytes")
	replayCmd.Flags().IntVar(&numLines, "num-lines", 64, "Total number of cache lines")
	replayCmd.Flags().IntVar(&associativity, "associativity", 1, "0 = fully associative, 1 = direct-mapped, k = k-way set-associative")
	replayCmd.Flags().Int64Var(&maxAddress, "max-address", (1<<31)-1, "Largest address the trace may contain")
	replayCmd.Flags().IntVar(&traceLength, "length", 32, "Number of addresses to replay")
	replayCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for trace generation")
	replayCmd.Flags().Float64Var(&epsilon, "epsilon", -1, "Jump probability for sequential_with_jumps (negative = sample)")
	replayCmd.Flags().Int64Var(&loopSize, "loop-size", -1, "Loop window size for loop (negative = sample)")
	replayCmd.Flags().Int64Var(&strideStep, "stride", -1, "Step size for stride (negative = sample)")
	replayCmd.Flags().IntVar(&stackDepth, "stack-size", -1, "Initial stack depth for stack (negative = sample)")
	replayCmd.Flags().BoolVar(&showCache, "show-cache", false, "Print cache contents after the replay")

	rootCmd.AddCommand(replayCmd)
}
