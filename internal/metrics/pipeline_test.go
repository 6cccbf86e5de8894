package metrics

import "testing"

func TestPipelineTimerBreakdown(t *testing.T) {
	pt := NewPipelineTimer()
	pt.Record(StageModelCall, 100)
	pt.Record(StageModelCall, 200)
	pt.Record(StageComposeState, 10)

	breakdown := pt.Breakdown()
	if breakdown.ModelCallAvgMs != 150 {
		t.Fatalf("model-call average = %v, want 150", breakdown.ModelCallAvgMs)
	}
	if breakdown.ComposeStateAvgMs != 10 {
		t.Fatalf("compose-state average = %v, want 10", breakdown.ComposeStateAvgMs)
	}
	if breakdown.EvaluatorAvgMs != 0 {
		t.Fatalf("unrecorded stage should average zero, got %v", breakdown.EvaluatorAvgMs)
	}
}

func TestPipelineTimerUnknownStage(t *testing.T) {
	pt := NewPipelineTimer()
	pt.Record("future-stage", 42)
	pt.Record(StageMemoryGet, 5)

	// Unknown stages are accumulated but not surfaced in the fixed fields.
	breakdown := pt.Breakdown()
	if breakdown.MemoryGetAvgMs != 5 {
		t.Fatalf("memory-get average = %v, want 5", breakdown.MemoryGetAvgMs)
	}
	if got := pt.average("future-stage"); got != 42 {
		t.Fatalf("unknown stage bucket = %v, want 42", got)
	}
}
