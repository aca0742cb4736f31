// Package dataset turns random cache geometries and access patterns into
// fixed-width training samples of cache hit/miss behavior.
//
// A Dataset is built once from a validated Config; each worker then iterates
// its own Epoch. Per sample, a cache geometry is drawn from the configured
// candidate sets, an address trace is generated (or supplied externally via
// WithSource) and replayed through a fresh cache, and the resulting
// addresses and hit/miss labels are right-padded with -1 to MaxSeqLength.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/pattern"
)

// Sample is one generated training example: a cache geometry, the replayed
// address trace, and the hit/miss label per access. Addresses and Labels
// share the same length; positions past the real trace hold -1.
type Sample struct {
	RunID         string  `json:"run_id"`
	PatternKind   string  `json:"pattern"` // empty when an external source supplied the trace
	NumLines      int     `json:"num_lines"`
	Associativity int     `json:"associativity"`
	Addresses     []int64 `json:"addresses"`
	Labels        []int32 `json:"labels"`
}

// Hits counts hit-labeled accesses.
func (s Sample) Hits() int {
	n := 0
	for _, label := range s.Labels {
		if label == sim.LabelHit {
			n++
		}
	}
	return n
}

// Misses counts miss-labeled accesses.
func (s Sample) Misses() int {
	n := 0
	for _, label := range s.Labels {
		if label == sim.LabelMiss {
			n++
		}
	}
	return n
}

// HitRate returns the fraction of real (non-pad) accesses that hit.
// Returns 0 for an all-pad sample.
func (s Sample) HitRate() float64 {
	hits, misses := s.Hits(), s.Misses()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// SourceFunc supplies an external address trace for one sample, replacing
// pattern generation.
type SourceFunc func() sim.AddressSource

// Option customizes a Dataset.
type Option func(*Dataset)

// WithSource makes every sample replay an externally supplied trace instead
// of a generated pattern.
func WithSource(src SourceFunc) Option {
	return func(d *Dataset) { d.source = src }
}

// Dataset generates cache-behavior samples according to a validated Config.
type Dataset struct {
	cfg    Config
	source SourceFunc
}

// New builds a Dataset. The config is defaulted and validated up front so
// that epoch iteration cannot fail.
func New(cfg Config, opts ...Option) (*Dataset, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dataset config: %w", err)
	}

	d := &Dataset{cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the resolved (defaulted) configuration.
func (d *Dataset) Config() Config {
	return d.cfg
}

// Epoch starts one epoch of EpochSize samples for the given worker. Each
// worker derives an isolated seed, so epochs of distinct workers or ranks
// are independent streams, and in deterministic mode an epoch reproduces
// exactly for the same config and worker.
func (d *Dataset) Epoch(workerID int) *Epoch {
	seed := sim.WorkerSeed(d.cfg.Seed, d.cfg.GlobalRank, workerID, d.cfg.Deterministic)
	logrus.Debugf("Starting epoch: worker=%d seed=%d deterministic=%v",
		workerID, seed, d.cfg.Deterministic)

	return &Epoch{
		dataset:   d,
		workerID:  workerID,
		rng:       sim.NewPartitionedRNG(sim.NewSimulationKey(seed)),
		remaining: d.cfg.EpochSize,
	}
}

// Epoch yields the samples of one worker epoch. Not safe for concurrent
// use; give each goroutine its own Epoch.
type Epoch struct {
	dataset   *Dataset
	workerID  int
	rng       *sim.PartitionedRNG
	index     int
	remaining int
}

// Next returns the next sample, or ok=false once EpochSize samples have
// been produced.
func (e *Epoch) Next() (Sample, bool) {
	if e.remaining == 0 {
		return Sample{}, false
	}
	e.remaining--

	sample := e.dataset.generateSample(e.rng, e.workerID, e.index)
	e.index++
	return sample, true
}

// Remaining returns how many samples the epoch has yet to produce.
func (e *Epoch) Remaining() int {
	return e.remaining
}

// generateSample produces one sample: draw a geometry, obtain a trace,
// replay it, pad to width.
func (d *Dataset) generateSample(rng *sim.PartitionedRNG, workerID, index int) Sample {
	geometry := rng.ForSubsystem(sim.SubsystemGeometry)
	numLines := d.cfg.CacheLines[geometry.Intn(len(d.cfg.CacheLines))]
	associativity := d.cfg.Associativities[geometry.Intn(len(d.cfg.Associativities))]

	cache, err := sim.NewCache(d.cfg.LineSize, numLines, associativity)
	if err != nil {
		panic(fmt.Sprintf("geometry %d lines x associativity %d passed validation but failed to construct: %v",
			numLines, associativity, err))
	}

	kind := ""
	var src sim.AddressSource
	if d.source != nil {
		src = d.source()
	} else {
		src, kind = d.generateTrace(rng.ForSubsystem(sim.SubsystemTrace))
	}

	result := sim.Replay(cache, src)

	sample := Sample{
		RunID:         fmt.Sprintf("run_%d_%d", workerID, index),
		PatternKind:   kind,
		NumLines:      numLines,
		Associativity: associativity,
		Addresses:     pad(result.Addresses, d.cfg.MaxSeqLength),
		Labels:        pad(result.Labels, d.cfg.MaxSeqLength),
	}

	logrus.Debugf("Generated sample %s: pattern=%s cache=%dx%d, %d hits / %d misses",
		sample.RunID, kind, numLines, associativity, result.Hits, result.Misses)

	return sample
}

// generateTrace picks a pattern kind uniformly and builds its sequence.
func (d *Dataset) generateTrace(rng *rand.Rand) (sim.AddressSource, string) {
	kinds := pattern.Kinds()
	kind := kinds[rng.Intn(len(kinds))]

	params, err := pattern.SampleParams(kind, rng, d.cfg.RAMVolume-1, d.cfg.MaxSeqLength)
	if err != nil {
		panic(fmt.Sprintf("pattern %s passed validation but failed to sample: %v", kind, err))
	}

	seq, err := pattern.NewSequence(params, rng)
	if err != nil {
		panic(fmt.Sprintf("sampled %s params failed to build a sequence: %v", kind, err))
	}

	return seq, string(kind)
}

// pad right-pads values with -1 up to width. Traces longer than width are
// kept whole, matching the source length.
func pad[T int32 | int64](values []T, width int) []T {
	for len(values) < width {
		values = append(values, -1)
	}
	return values
}
