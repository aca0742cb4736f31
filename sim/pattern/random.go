package pattern

import "math/rand"

// RandomParams configures a uniformly random trace with no locality, as seen
// in hash table probing or pointer chasing.
type RandomParams struct {
	MaxAddress int64
	Length     int
}

func (p RandomParams) Kind() Kind { return KindRandom }

func (p RandomParams) Bounds() (int64, int) { return p.MaxAddress, p.Length }

func (p RandomParams) Validate() error {
	return validateBounds(p.MaxAddress, p.Length)
}

func newRandomSequence(p RandomParams, rng *rand.Rand) *Sequence {
	return newSequence(p.Length, func() int64 {
		return randInt64(rng, 0, p.MaxAddress)
	})
}
