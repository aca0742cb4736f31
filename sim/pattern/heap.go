package pattern

import "math/rand"

const (
	defaultMaxHeapSize    = 10000
	allocSizeMin          = 1
	allocSizeMax          = 100
	allocationProbability = 0.8
)

// HeapParams configures a heap trace: the working offset mostly grows by
// small allocations and occasionally jumps back to reuse freed space.
type HeapParams struct {
	MaxAddress int64
	Length     int
}

func (p HeapParams) Kind() Kind { return KindHeap }

func (p HeapParams) Bounds() (int64, int) { return p.MaxAddress, p.Length }

func (p HeapParams) Validate() error {
	return validateBounds(p.MaxAddress, p.Length)
}

// The heap base is placed so a full-size heap still fits below MaxAddress;
// addresses that would overshoot are capped at MaxAddress.
func newHeapSequence(p HeapParams, rng *rand.Rand) *Sequence {
	heapSize := min(int64(defaultMaxHeapSize), p.MaxAddress/2)
	base := randInt64(rng, 0, p.MaxAddress-heapSize)
	var offset int64
	return newSequence(p.Length, func() int64 {
		if rng.Float64() < allocationProbability {
			offset += randInt64(rng, allocSizeMin, allocSizeMax)
		} else {
			offset = randInt64(rng, 0, max(1, offset))
		}
		return min(base+offset, p.MaxAddress)
	})
}
