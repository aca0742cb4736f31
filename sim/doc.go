// Package sim provides the core processor-cache simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - cache.go: Cache geometry (direct-mapped, set-associative, fully
//     associative), address-to-set mapping, and per-set LRU state
//   - replay.go: Driving an address trace through a cache and labeling each
//     access hit or miss
//   - rng.go: Seed partitioning that keeps trace content, geometry draws, and
//     parallel workers on independent deterministic streams
//
// # Architecture
//
// The sim package holds the cache and replay kernel; surrounding layers live
// in sub-packages:
//   - sim/pattern/: The six synthetic access-pattern generators
//   - sim/dataset/: Labeled sample generation over randomized geometries,
//     padding, and parallel epoch production
//   - sim/trace/: SQLite recording of replayed runs and per-access outcomes
//
// Replay consumes any AddressSource, so the cache core never depends on how
// addresses are produced: pattern sequences, recorded traces, and plain
// slices all drive it the same way.
package sim
