// Package trace provides replay-trace recording for offline cache analysis.
// Record types are pure data with no dependency on the simulation engine,
// plus an optional SQLite sink for them.
package trace

// RunRecord captures one full trace replayed through one cache geometry.
// Fields stay flat scalars so the record can be written as a database row
// as-is.
type RunRecord struct {
	RunID         string
	Pattern       string
	Seed          int64
	MaxAddress    int64
	Length        int
	LineSize      int
	NumLines      int
	Associativity int
	Hits          int
	Misses        int
	HitRate       float64
}

// AccessRecord captures a single address access within a run. Step is the
// zero-based position in the trace.
type AccessRecord struct {
	RunID    string
	Step     int
	Address  int64
	Tag      int64
	SetIndex int
	Hit      bool
}
