package metrics

import (
	"testing"
	"time"
)

func TestTimerMeasuresElapsed(t *testing.T) {
	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	elapsed := timer.Stop()

	if elapsed < 10 {
		t.Fatalf("elapsed = %vms, want at least 10ms", elapsed)
	}
	if timer.ElapsedMs() != elapsed {
		t.Fatalf("ElapsedMs() = %v, want retained %v", timer.ElapsedMs(), elapsed)
	}
}

func TestTimerLiveReadBeforeStop(t *testing.T) {
	timer := NewTimer()
	time.Sleep(2 * time.Millisecond)
	first := timer.ElapsedMs()
	if first < 2 {
		t.Fatalf("live ElapsedMs() = %v, want at least 2ms", first)
	}
	time.Sleep(2 * time.Millisecond)
	if second := timer.ElapsedMs(); second <= first {
		t.Fatalf("live ElapsedMs() must advance: %v then %v", first, second)
	}
}

func TestMemoryMonitorPeakInvariant(t *testing.T) {
	monitor := NewMemoryMonitor()
	monitor.Start()
	monitor.Poll()
	stats := monitor.Stop()

	if stats.RSSPeakMB < stats.RSSStartMB || stats.RSSPeakMB < stats.RSSEndMB {
		t.Fatalf("peak must cover start and end: %+v", stats)
	}
}
