// Tracks aggregate hit/miss statistics across many trace replays, overall
// and broken down per access pattern.

package sim

import (
	"fmt"
	"sort"
)

// PatternStats accumulates replay outcomes for one access pattern.
type PatternStats struct {
	Runs     int // Number of traces replayed
	Accesses int // Total addresses driven through a cache
	Hits     int
	Misses   int
}

// HitRate returns the pattern's hit fraction, or 0 before any access.
func (s *PatternStats) HitRate() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Accesses)
}

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for comparing how cache-friendly the different access patterns are
// under a given geometry.
type Metrics struct {
	Runs     int
	Accesses int
	Hits     int
	Misses   int

	RunHitRates []float64                // one hit rate per replayed trace
	ByPattern   map[string]*PatternStats // pattern kind -> accumulated stats
}

func NewMetrics() *Metrics {
	return &Metrics{ByPattern: make(map[string]*PatternStats)}
}

// Record folds one replay outcome into the totals under the given pattern
// kind.
func (m *Metrics) Record(patternKind string, r ReplayResult) {
	m.Runs++
	m.Accesses += len(r.Addresses)
	m.Hits += r.Hits
	m.Misses += r.Misses
	m.RunHitRates = append(m.RunHitRates, r.HitRate())

	stats, ok := m.ByPattern[patternKind]
	if !ok {
		stats = &PatternStats{}
		m.ByPattern[patternKind] = stats
	}
	stats.Runs++
	stats.Accesses += len(r.Addresses)
	stats.Hits += r.Hits
	stats.Misses += r.Misses
}

// HitRate returns the overall hit fraction, or 0 before any access.
func (m *Metrics) HitRate() float64 {
	if m.Accesses == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.Accesses)
}

// Print displays aggregated metrics at the end of a generation run.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Replayed Traces      : %d\n", m.Runs)
	fmt.Printf("Total Accesses       : %d\n", m.Accesses)
	if m.Accesses > 0 {
		fmt.Printf("Hits / Misses        : %d / %d\n", m.Hits, m.Misses)
		fmt.Printf("Overall Hit Rate     : %.2f%%\n", 100*m.HitRate())
	}
	if len(m.ByPattern) == 0 {
		return
	}

	kinds := make([]string, 0, len(m.ByPattern))
	for kind := range m.ByPattern {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	fmt.Println("Per-pattern hit rates:")
	for _, kind := range kinds {
		s := m.ByPattern[kind]
		fmt.Printf("  %-22s: %6.2f%%  (%d accesses over %d traces)\n",
			kind, 100*s.HitRate(), s.Accesses, s.Runs)
	}
}
