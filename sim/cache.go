package sim

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration reports a cache geometry that cannot be built.
// It is returned by NewCache only; a constructed Cache never fails.
var ErrInvalidConfiguration = errors.New("invalid cache configuration")

// Cache simulates a processor cache with LRU replacement. The mapping mode is
// selected by the associativity degree: 0 is fully associative (one set
// holding every line), 1 is direct-mapped (one line per set), and k > 1 is
// k-way set-associative. The geometry is fixed at construction; only the
// resident tags change as addresses are probed and inserted.
type Cache struct {
	LineSize      int // bytes covered by one line
	NumLines      int // total lines across all sets
	Associativity int // 0, 1, or k > 1
	NumSets       int // derived: NumSets * LinesPerSet == NumLines
	LinesPerSet   int

	sets []cacheSet
}

// cacheSet holds the resident tags of one set in recency order: index 0 is
// the least recently used, the last element the most recently used.
type cacheSet struct {
	tags []int64
}

// touch reports whether tag is resident and, if so, moves it to the most
// recently used position.
func (s *cacheSet) touch(tag int64) bool {
	for i, t := range s.tags {
		if t != tag {
			continue
		}
		copy(s.tags[i:], s.tags[i+1:])
		s.tags[len(s.tags)-1] = tag
		return true
	}
	return false
}

// NewCache builds a cache with the given geometry. Associativities above 1
// must divide numLines evenly, otherwise the set count would not be integral.
func NewCache(lineSize, numLines, associativity int) (*Cache, error) {
	if lineSize <= 0 {
		return nil, fmt.Errorf("%w: line size must be positive, got %d", ErrInvalidConfiguration, lineSize)
	}
	if numLines <= 0 {
		return nil, fmt.Errorf("%w: number of lines must be positive, got %d", ErrInvalidConfiguration, numLines)
	}

	var numSets, linesPerSet int
	switch {
	case associativity == 0: // fully associative
		numSets, linesPerSet = 1, numLines
	case associativity == 1: // direct-mapped
		numSets, linesPerSet = numLines, 1
	case associativity > 1: // k-way set-associative
		if numLines%associativity != 0 {
			return nil, fmt.Errorf("%w: %d lines not divisible by associativity %d",
				ErrInvalidConfiguration, numLines, associativity)
		}
		numSets, linesPerSet = numLines/associativity, associativity
	default:
		return nil, fmt.Errorf("%w: associativity must be non-negative, got %d", ErrInvalidConfiguration, associativity)
	}

	return &Cache{
		LineSize:      lineSize,
		NumLines:      numLines,
		Associativity: associativity,
		NumSets:       numSets,
		LinesPerSet:   linesPerSet,
		sets:          make([]cacheSet, numSets),
	}, nil
}

// Tag identifies the cache line a non-negative address belongs to. Addresses
// with equal tags are indistinguishable to the cache.
func (c *Cache) Tag(address int64) int64 {
	return address / int64(c.LineSize)
}

// SetIndex locates the set an address maps to.
func (c *Cache) SetIndex(address int64) int {
	if c.Associativity == 0 {
		return 0
	}
	return int(c.Tag(address) % int64(c.NumSets))
}

// Probe reports whether address currently hits. A hit refreshes the line's
// recency; a miss leaves the cache unchanged.
func (c *Cache) Probe(address int64) bool {
	return c.sets[c.SetIndex(address)].touch(c.Tag(address))
}

// Insert makes the address's line resident. If the target set is full, the
// set's least recently used line is evicted first. Inserting an already
// resident line only refreshes its recency.
func (c *Cache) Insert(address int64) {
	set := &c.sets[c.SetIndex(address)]
	tag := c.Tag(address)
	if set.touch(tag) {
		return
	}
	if len(set.tags) >= c.LinesPerSet {
		copy(set.tags, set.tags[1:])
		set.tags = set.tags[:len(set.tags)-1]
	}
	set.tags = append(set.tags, tag)
}

// Resident returns the number of lines currently held across all sets.
func (c *Cache) Resident() int {
	n := 0
	for i := range c.sets {
		n += len(c.sets[i].tags)
	}
	return n
}

// Reset empties every set. The geometry is preserved, so the cache can be
// reused for another replay.
func (c *Cache) Reset() {
	for i := range c.sets {
		c.sets[i].tags = c.sets[i].tags[:0]
	}
}

// String dumps the non-empty sets with their resident tags, least recently
// used first. Intended for debugging and log output, not for parsing.
func (c *Cache) String() string {
	var b strings.Builder
	for i := range c.sets {
		if len(c.sets[i].tags) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Set %d: %v", i, c.sets[i].tags)
	}
	if b.Len() == 0 {
		return "Cache is empty"
	}
	return b.String()
}
