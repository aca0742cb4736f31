package sim

// AddressSource is a finite stream of memory addresses, typically a
// pattern.Sequence or a recorded trace. Next reports false once the stream
// is exhausted.
type AddressSource interface {
	Next() (int64, bool)
}

// AddressSlice adapts an in-memory trace to an AddressSource.
type AddressSlice []int64

func (s *AddressSlice) Next() (int64, bool) {
	if len(*s) == 0 {
		return 0, false
	}
	addr := (*s)[0]
	*s = (*s)[1:]
	return addr, true
}

// Label values recorded per access. Padding is applied by the dataset layer
// when a trace is shorter than the fixed sample width.
const (
	LabelMiss int32 = 0
	LabelHit  int32 = 1
	LabelPad  int32 = -1
)

// ReplayResult is the outcome of replaying one address trace through a
// cache: the addresses in access order and one hit/miss label per access.
type ReplayResult struct {
	Addresses []int64
	Labels    []int32
	Hits      int
	Misses    int
}

// HitRate returns the fraction of accesses that hit, or 0 for an empty
// replay.
func (r ReplayResult) HitRate() float64 {
	total := r.Hits + r.Misses
	if total == 0 {
		return 0
	}
	return float64(r.Hits) / float64(total)
}

// Replay drives every address from src through the cache. Each access first
// probes (classifying hit or miss and refreshing recency on a hit), then
// inserts the line, so a miss becomes resident immediately. The cache is not
// reset first: replaying onto a warm cache is deliberate, callers wanting a
// cold start call Reset themselves.
func Replay(c *Cache, src AddressSource) ReplayResult {
	r := ReplayResult{}
	for {
		addr, ok := src.Next()
		if !ok {
			return r
		}
		r.Addresses = append(r.Addresses, addr)
		if c.Probe(addr) {
			r.Labels = append(r.Labels, LabelHit)
			r.Hits++
		} else {
			r.Labels = append(r.Labels, LabelMiss)
			r.Misses++
		}
		c.Insert(addr)
	}
}
