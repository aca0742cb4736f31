package pattern

import (
	"fmt"
	"math/rand"
)

const (
	// Sampling range for the initial stack depth.
	defaultStackDepthMin = 10
	defaultStackDepthMax = 100

	stackHeadroom   = 1000 // distance kept from the address-space edges at start
	maxStackDepth   = 100
	stackMoveMin    = 1
	stackMoveMax    = 10
	pushProbability = 0.5
)

// StackParams configures a stack trace: the pointer moves down on pushes and
// back up on pops, staying within a bounded call depth.
type StackParams struct {
	MaxAddress int64
	Length     int
	// InitialDepth is the stack depth at the first access, >= 0. A deeper
	// start leaves fewer pushes before the depth cap forces pops.
	InitialDepth int
}

func (p StackParams) Kind() Kind { return KindStack }

func (p StackParams) Bounds() (int64, int) { return p.MaxAddress, p.Length }

func (p StackParams) Validate() error {
	if err := validateBounds(p.MaxAddress, p.Length); err != nil {
		return err
	}
	if p.InitialDepth < 0 {
		return fmt.Errorf("%w: initial stack depth must be non-negative, got %d", ErrInvalidParameter, p.InitialDepth)
	}
	return nil
}

func sampleStackParams(rng *rand.Rand, maxAddress int64, length int) StackParams {
	return StackParams{
		MaxAddress:   maxAddress,
		Length:       length,
		InitialDepth: int(randInt64(rng, defaultStackDepthMin, defaultStackDepthMax)),
	}
}

// The pointer starts away from the address-space edges so it can move in both
// directions. On address spaces smaller than the headroom the start may lie
// above MaxAddress; the per-step clamp pulls it back into range.
func newStackSequence(p StackParams, rng *rand.Rand) *Sequence {
	low := int64(stackHeadroom)
	high := max(low, p.MaxAddress-stackHeadroom)
	sp := randInt64(rng, low, high)
	depth := p.InitialDepth
	return newSequence(p.Length, func() int64 {
		if rng.Float64() < pushProbability && depth < maxStackDepth {
			sp -= randInt64(rng, stackMoveMin, stackMoveMax)
			depth++
		} else if depth > 0 {
			sp += randInt64(rng, stackMoveMin, stackMoveMax)
			depth--
		}
		if sp < 0 {
			sp = 0
		} else if sp > p.MaxAddress {
			sp = p.MaxAddress
		}
		return sp
	})
}
