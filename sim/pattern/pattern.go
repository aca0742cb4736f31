// Package pattern generates synthetic memory-address traces that mimic
// representative workload behaviors: sequential scans, tight loops, random
// access, strided traversal, stack push/pop, and heap allocation.
//
// Every random draw goes through a caller-supplied *rand.Rand, so a trace is
// fully reproducible from (parameters, seed). See sim.PartitionedRNG for how
// the dataset layer derives those seeds.
package pattern

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidParameter reports a pattern parameter outside its documented
// bounds. It is returned before any address is produced; a sequence that has
// been handed out never fails.
var ErrInvalidParameter = errors.New("invalid pattern parameter")

// Kind names one of the six supported access patterns.
type Kind string

const (
	KindSequentialWithJumps Kind = "sequential_with_jumps"
	KindLoop                Kind = "loop"
	KindRandom              Kind = "random"
	KindStride              Kind = "stride"
	KindStack               Kind = "stack"
	KindHeap                Kind = "heap"
)

// Kinds returns the closed set of pattern kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindSequentialWithJumps,
		KindLoop,
		KindRandom,
		KindStride,
		KindStack,
		KindHeap,
	}
}

// ParseKind maps a string (CLI flag, config file) to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown pattern kind %q", ErrInvalidParameter, s)
}

// Params is the validated parameter record for one trace. Each pattern kind
// has its own concrete record carrying the two mandatory bounds plus any
// kind-specific knobs.
type Params interface {
	// Kind reports which pattern these parameters belong to.
	Kind() Kind
	// Bounds returns the two parameters shared by every pattern: the largest
	// address a trace may contain and the number of addresses to emit.
	Bounds() (maxAddress int64, length int)
	// Validate checks the common bounds and any kind-specific constraints.
	// Violations wrap ErrInvalidParameter.
	Validate() error
}

// validateBounds enforces the contract shared by all patterns.
func validateBounds(maxAddress int64, length int) error {
	if maxAddress <= 0 {
		return fmt.Errorf("%w: max address must be positive, got %d", ErrInvalidParameter, maxAddress)
	}
	if length <= 0 {
		return fmt.Errorf("%w: sequence length must be positive, got %d", ErrInvalidParameter, length)
	}
	return nil
}

// SampleParams draws randomized kind-specific parameters from their default
// ranges, keeping maxAddress and length unchanged. The ranges are documented
// on each parameter record.
func SampleParams(kind Kind, rng *rand.Rand, maxAddress int64, length int) (Params, error) {
	if err := validateBounds(maxAddress, length); err != nil {
		return nil, err
	}

	switch kind {
	case KindSequentialWithJumps:
		return sampleSequentialWithJumpsParams(rng, maxAddress, length), nil
	case KindLoop:
		return sampleLoopParams(rng, maxAddress, length)
	case KindRandom:
		return RandomParams{MaxAddress: maxAddress, Length: length}, nil
	case KindStride:
		return sampleStrideParams(rng, maxAddress, length), nil
	case KindStack:
		return sampleStackParams(rng, maxAddress, length), nil
	case KindHeap:
		return HeapParams{MaxAddress: maxAddress, Length: length}, nil
	default:
		return nil, fmt.Errorf("%w: unknown pattern kind %q", ErrInvalidParameter, kind)
	}
}

// NewSequence validates p and returns the lazy address sequence it describes.
// All randomness is drawn from rng, one step at a time as the sequence is
// consumed.
func NewSequence(p Params, rng *rand.Rand) (*Sequence, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch p := p.(type) {
	case SequentialWithJumpsParams:
		return newSequentialWithJumpsSequence(p, rng), nil
	case LoopParams:
		return newLoopSequence(p, rng), nil
	case RandomParams:
		return newRandomSequence(p, rng), nil
	case StrideParams:
		return newStrideSequence(p, rng), nil
	case StackParams:
		return newStackSequence(p, rng), nil
	case HeapParams:
		return newHeapSequence(p, rng), nil
	default:
		return nil, fmt.Errorf("%w: unsupported parameter record %T", ErrInvalidParameter, p)
	}
}

// Sequence is a finite, lazily-evaluated stream of addresses. It is not
// restartable: once drained, a fresh NewSequence call is needed for a new
// trace.
type Sequence struct {
	remaining int
	step      func() int64
}

func newSequence(length int, step func() int64) *Sequence {
	return &Sequence{remaining: length, step: step}
}

// Next produces the next address. The second return value is false once the
// sequence is exhausted.
func (s *Sequence) Next() (int64, bool) {
	if s.remaining <= 0 {
		return 0, false
	}
	s.remaining--
	return s.step(), true
}

// Remaining reports how many addresses are still to be produced.
func (s *Sequence) Remaining() int {
	return s.remaining
}

// Drain materializes the rest of the sequence into a slice.
func (s *Sequence) Drain() []int64 {
	out := make([]int64, 0, s.remaining)
	for {
		addr, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, addr)
	}
}

// randInt64 draws a uniform integer in [lo, hi], both ends inclusive.
// Callers guarantee hi >= lo.
func randInt64(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int63n(hi-lo+1)
}
