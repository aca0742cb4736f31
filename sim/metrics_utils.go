// sim/metrics_utils.go
package sim

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculatePercentile is a util function that calculates the p-th percentile
// of a data list. The input must be sorted ascending.
func CalculatePercentile[T IntOrFloat64](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0.0
	}

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))

	if lowerIdx == upperIdx {
		return float64(data[lowerIdx])
	}
	if upperIdx >= n {
		return float64(data[n-1])
	}
	lowerVal := float64(data[lowerIdx])
	upperVal := float64(data[upperIdx])
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}

// CalculateMean is a util function that calculates the mean of a data list
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}

	return sum / float64(len(numbers))
}

// PatternSummary is the per-pattern section of the exported results.
type PatternSummary struct {
	Runs     int     `json:"runs"`
	Accesses int     `json:"accesses"`
	Hits     int     `json:"hits"`
	Misses   int     `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
}

// MetricsOutput is the JSON document written by SaveResults. Per-trace hit
// rate percentiles describe the spread across runs, not just the pooled
// total, since a handful of loop traces can mask many thrashing ones.
type MetricsOutput struct {
	RunID          string                    `json:"run_id"`
	Seed           int64                     `json:"seed"`
	Runs           int                       `json:"runs"`
	Accesses       int                       `json:"accesses"`
	Hits           int                       `json:"hits"`
	Misses         int                       `json:"misses"`
	HitRate        float64                   `json:"hit_rate"`
	MeanRunHitRate float64                   `json:"mean_run_hit_rate"`
	P50RunHitRate  float64                   `json:"p50_run_hit_rate"`
	P95RunHitRate  float64                   `json:"p95_run_hit_rate"`
	ByPattern      map[string]PatternSummary `json:"by_pattern"`
	StartedAt      string                    `json:"started_at"`
	DurationSec    float64                   `json:"duration_seconds"`
}

// SaveResults writes the aggregated metrics as indented JSON to outputPath.
func (m *Metrics) SaveResults(runID string, seed int64, startedAt time.Time, outputPath string) error {
	rates := make([]float64, len(m.RunHitRates))
	copy(rates, m.RunHitRates)
	sort.Float64s(rates)

	out := MetricsOutput{
		RunID:          runID,
		Seed:           seed,
		Runs:           m.Runs,
		Accesses:       m.Accesses,
		Hits:           m.Hits,
		Misses:         m.Misses,
		HitRate:        m.HitRate(),
		MeanRunHitRate: CalculateMean(rates),
		P50RunHitRate:  CalculatePercentile(rates, 50),
		P95RunHitRate:  CalculatePercentile(rates, 95),
		ByPattern:      make(map[string]PatternSummary, len(m.ByPattern)),
		StartedAt:      startedAt.UTC().Format(time.RFC3339),
		DurationSec:    time.Since(startedAt).Seconds(),
	}
	for kind, s := range m.ByPattern {
		out.ByPattern[kind] = PatternSummary{
			Runs:     s.Runs,
			Accesses: s.Accesses,
			Hits:     s.Hits,
			Misses:   s.Misses,
			HitRate:  s.HitRate(),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	logrus.Debugf("Saved results for run %q to '%s'", runID, outputPath)
	return nil
}
