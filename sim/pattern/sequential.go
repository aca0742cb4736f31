package pattern

import (
	"fmt"
	"math/rand"
)

// Sampling range for the jump probability.
const (
	defaultEpsilonMin = 0.01
	defaultEpsilonMax = 0.1
)

// SequentialWithJumpsParams configures a mostly-sequential trace: each step
// advances one address, except with probability Epsilon it jumps to a
// uniformly random address instead.
type SequentialWithJumpsParams struct {
	MaxAddress int64
	Length     int
	// Epsilon is the per-step jump probability, in [0, 1].
	Epsilon float64
}

func (p SequentialWithJumpsParams) Kind() Kind { return KindSequentialWithJumps }

func (p SequentialWithJumpsParams) Bounds() (int64, int) { return p.MaxAddress, p.Length }

func (p SequentialWithJumpsParams) Validate() error {
	if err := validateBounds(p.MaxAddress, p.Length); err != nil {
		return err
	}
	if p.Epsilon < 0 || p.Epsilon > 1 {
		return fmt.Errorf("%w: jump probability must be in [0, 1], got %g", ErrInvalidParameter, p.Epsilon)
	}
	return nil
}

func sampleSequentialWithJumpsParams(rng *rand.Rand, maxAddress int64, length int) SequentialWithJumpsParams {
	return SequentialWithJumpsParams{
		MaxAddress: maxAddress,
		Length:     length,
		Epsilon:    defaultEpsilonMin + rng.Float64()*(defaultEpsilonMax-defaultEpsilonMin),
	}
}

// The trace starts from a random address that is itself never emitted: every
// step first advances (or jumps), then yields.
func newSequentialWithJumpsSequence(p SequentialWithJumpsParams, rng *rand.Rand) *Sequence {
	addr := randInt64(rng, 0, p.MaxAddress)
	return newSequence(p.Length, func() int64 {
		if rng.Float64() < p.Epsilon {
			addr = randInt64(rng, 0, p.MaxAddress)
		} else {
			addr = (addr + 1) % (p.MaxAddress + 1)
		}
		return addr
	})
}
