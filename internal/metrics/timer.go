// internal/metrics/timer.go

// Package metrics provides the measurement primitives used by the benchmark
// runner: single-shot timers, latency and throughput statistics, process
// memory sampling, and a named-stage pipeline timing accumulator.
package metrics

import "time"

// Timer measures a single elapsed interval in milliseconds. The clock starts
// when the timer is constructed, so a Timer can never be stopped before it
// was started. time.Since reads the monotonic clock, keeping measurements
// immune to wall-clock adjustments.
type Timer struct {
	start   time.Time
	elapsed float64
	stopped bool
}

// NewTimer returns a Timer whose clock is already running.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop captures the elapsed time since construction and returns it in
// milliseconds with sub-millisecond precision. The value is retained for
// later ElapsedMs reads.
func (t *Timer) Stop() float64 {
	t.elapsed = float64(time.Since(t.start).Nanoseconds()) / 1e6
	t.stopped = true
	return t.elapsed
}

// ElapsedMs returns the value captured by Stop, or the live elapsed time
// while the timer is still running, so in-flight legs can be read
// mid-measurement.
func (t *Timer) ElapsedMs() float64 {
	if t.stopped {
		return t.elapsed
	}
	return float64(time.Since(t.start).Nanoseconds()) / 1e6
}
