// internal/metrics/stats.go
package metrics

import (
	"math"
	"sort"
)

// LatencyStats summarizes a set of latency samples. All values are
// milliseconds. Samples holds the ascending-sorted input.
type LatencyStats struct {
	MinMs    float64   `json:"minMs"`
	MaxMs    float64   `json:"maxMs"`
	AvgMs    float64   `json:"avgMs"`
	MedianMs float64   `json:"medianMs"`
	P95Ms    float64   `json:"p95Ms"`
	P99Ms    float64   `json:"p99Ms"`
	StdDevMs float64   `json:"stdDevMs"`
	Samples  []float64 `json:"samples"`
}

// ThroughputStats reports message throughput over a measured interval.
type ThroughputStats struct {
	MessagesPerSecond float64 `json:"messagesPerSecond"`
	TotalMessages     int     `json:"totalMessages"`
	TotalTimeMs       float64 `json:"totalTimeMs"`
}

// ComputeLatencyStats reduces a sample set to summary statistics. Percentiles
// use linear interpolation between the two bracketing order statistics, and
// the standard deviation is the population form (divide by n). An empty input
// yields all-zero stats with an empty sample slice.
func ComputeLatencyStats(samples []float64) LatencyStats {
	if len(samples) == 0 {
		return LatencyStats{Samples: []float64{}}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range samples {
		sum += v
	}
	mean := sum / float64(len(samples))

	var sqDiff float64
	for _, v := range samples {
		d := v - mean
		sqDiff += d * d
	}
	stdDev := math.Sqrt(sqDiff / float64(len(samples)))

	return LatencyStats{
		MinMs:    sorted[0],
		MaxMs:    sorted[len(sorted)-1],
		AvgMs:    mean,
		MedianMs: percentileInterpolated(sorted, 50),
		P95Ms:    percentileInterpolated(sorted, 95),
		P99Ms:    percentileInterpolated(sorted, 99),
		StdDevMs: stdDev,
		Samples:  sorted,
	}
}

// percentileInterpolated expects an ascending-sorted slice. The percentile
// index is p/100*(n-1); fractional indices interpolate linearly between the
// two neighboring order statistics.
func percentileInterpolated(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	index := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	frac := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// PercentileNearestRank computes a percentile using ceiling-rank indexing:
// rank = ceil(p/100*n), clamped to [1, n]. This is deliberately a different
// algorithm than the interpolated percentiles in ComputeLatencyStats; the
// per-mode summaries of the voice benchmark report depend on its exact
// values, so the two must not be unified.
func PercentileNearestRank(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// ComputeThroughputStats derives messages-per-second from a message count
// and an elapsed interval. A non-positive interval yields zero throughput.
func ComputeThroughputStats(totalMessages int, totalTimeMs float64) ThroughputStats {
	stats := ThroughputStats{
		TotalMessages: totalMessages,
		TotalTimeMs:   totalTimeMs,
	}
	if totalTimeMs > 0 {
		stats.MessagesPerSecond = float64(totalMessages) / totalTimeMs * 1000
	}
	return stats
}
