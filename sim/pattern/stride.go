package pattern

import (
	"fmt"
	"math/rand"
)

// Sampling range for the stride.
const (
	defaultStrideMin = 1
	defaultStrideMax = 16
)

// StrideParams configures a constant-stride traversal wrapping at
// MaxAddress+1, as produced by dense array walks.
type StrideParams struct {
	MaxAddress int64
	Length     int
	// Stride is the fixed distance between consecutive addresses, >= 1.
	Stride int64
}

func (p StrideParams) Kind() Kind { return KindStride }

func (p StrideParams) Bounds() (int64, int) { return p.MaxAddress, p.Length }

func (p StrideParams) Validate() error {
	if err := validateBounds(p.MaxAddress, p.Length); err != nil {
		return err
	}
	if p.Stride < 1 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidParameter, p.Stride)
	}
	return nil
}

func sampleStrideParams(rng *rand.Rand, maxAddress int64, length int) StrideParams {
	return StrideParams{
		MaxAddress: maxAddress,
		Length:     length,
		Stride:     randInt64(rng, defaultStrideMin, defaultStrideMax),
	}
}

// The first address emitted is the random start itself; each later step adds
// Stride modulo the address-space size.
func newStrideSequence(p StrideParams, rng *rand.Rand) *Sequence {
	span := p.MaxAddress + 1
	step := p.Stride % span
	cur := randInt64(rng, 0, p.MaxAddress)
	return newSequence(p.Length, func() int64 {
		addr := cur
		cur = (cur + step) % span
		return addr
	})
}
