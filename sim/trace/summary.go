package trace

import "fmt"

// Summary aggregates statistics from a SimulationTrace.
type Summary struct {
	TotalRuns           int
	TotalAccesses       int
	Hits                int
	Misses              int
	HitRate             float64
	UniqueGeometries    int
	PatternDistribution map[string]int // pattern kind → count of traces replayed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *Summary {
	summary := &Summary{
		PatternDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	geometries := make(map[string]bool)
	summary.TotalRuns = len(st.Runs)
	for _, r := range st.Runs {
		summary.PatternDistribution[r.Pattern]++
		summary.Hits += r.Hits
		summary.Misses += r.Misses
		geometries[fmt.Sprintf("%d/%d/%d", r.LineSize, r.NumLines, r.Associativity)] = true
	}

	summary.TotalAccesses = summary.Hits + summary.Misses
	if summary.TotalAccesses > 0 {
		summary.HitRate = float64(summary.Hits) / float64(summary.TotalAccesses)
	}
	summary.UniqueGeometries = len(geometries)

	return summary
}
