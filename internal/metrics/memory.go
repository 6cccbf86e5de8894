// internal/metrics/memory.go
package metrics

import (
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// ResourceStats reports resident-set-size readings for the benchmark
// process, in megabytes.
type ResourceStats struct {
	RSSStartMB float64 `json:"rssStartMb"`
	RSSPeakMB  float64 `json:"rssPeakMb"`
	RSSEndMB   float64 `json:"rssEndMb"`
	RSSDeltaMB float64 `json:"rssDeltaMb"`
}

// MemoryMonitor samples the process's resident memory at caller-chosen
// points and tracks the running peak. Sampling is best-effort: if the
// process cannot be queried, every reading resolves to zero rather than
// failing the benchmark.
type MemoryMonitor struct {
	proc    *process.Process
	startMB float64
	peakMB  float64
}

// NewMemoryMonitor returns a monitor bound to the current process. The
// returned monitor is usable even when the process handle cannot be
// obtained; it will simply report zeros.
func NewMemoryMonitor() *MemoryMonitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		proc = nil
	}
	return &MemoryMonitor{proc: proc}
}

// Start records the initial RSS reading and seeds the peak with it.
func (m *MemoryMonitor) Start() {
	m.startMB = m.sampleMB()
	m.peakMB = m.startMB
}

// Poll re-samples RSS and raises the peak if exceeded. Callers invoke it at
// infrequent points during a run; it never runs on its own timer.
func (m *MemoryMonitor) Poll() {
	if current := m.sampleMB(); current > m.peakMB {
		m.peakMB = current
	}
}

// Stop takes a final sample, folds it into the peak, and returns the full
// set of readings.
func (m *MemoryMonitor) Stop() ResourceStats {
	endMB := m.sampleMB()
	if endMB > m.peakMB {
		m.peakMB = endMB
	}
	return ResourceStats{
		RSSStartMB: m.startMB,
		RSSPeakMB:  m.peakMB,
		RSSEndMB:   endMB,
		RSSDeltaMB: endMB - m.startMB,
	}
}

func (m *MemoryMonitor) sampleMB() float64 {
	if m.proc == nil {
		return 0
	}
	info, err := m.proc.MemoryInfo()
	if err != nil || info == nil {
		return 0
	}
	return float64(info.RSS) / (1024 * 1024)
}
