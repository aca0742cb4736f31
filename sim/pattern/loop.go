package pattern

import (
	"fmt"
	"math/rand"
)

// Sampling range for the loop size.
const (
	defaultLoopSizeMin = 10
	defaultLoopSizeMax = 1000
)

// LoopParams configures a cyclic trace over a contiguous window of LoopSize
// addresses, modeling a loop body revisiting the same data.
type LoopParams struct {
	MaxAddress int64
	Length     int
	// LoopSize is the width of the revisited window, in [1, MaxAddress].
	LoopSize int64
}

func (p LoopParams) Kind() Kind { return KindLoop }

func (p LoopParams) Bounds() (int64, int) { return p.MaxAddress, p.Length }

func (p LoopParams) Validate() error {
	if err := validateBounds(p.MaxAddress, p.Length); err != nil {
		return err
	}
	if p.LoopSize < 1 || p.LoopSize > p.MaxAddress {
		return fmt.Errorf("%w: loop size must be in [1, %d], got %d", ErrInvalidParameter, p.MaxAddress, p.LoopSize)
	}
	return nil
}

func sampleLoopParams(rng *rand.Rand, maxAddress int64, length int) (LoopParams, error) {
	hi := min(int64(defaultLoopSizeMax), maxAddress)
	if hi < defaultLoopSizeMin {
		return LoopParams{}, fmt.Errorf("%w: max address %d leaves no room for a loop of at least %d addresses",
			ErrInvalidParameter, maxAddress, defaultLoopSizeMin)
	}
	return LoopParams{
		MaxAddress: maxAddress,
		Length:     length,
		LoopSize:   randInt64(rng, defaultLoopSizeMin, hi),
	}, nil
}

// The window start is drawn so that start+LoopSize-1 never exceeds MaxAddress.
func newLoopSequence(p LoopParams, rng *rand.Rand) *Sequence {
	start := randInt64(rng, 0, p.MaxAddress-p.LoopSize)
	var i int64
	return newSequence(p.Length, func() int64 {
		addr := start + i%p.LoopSize
		i++
		return addr
	})
}
