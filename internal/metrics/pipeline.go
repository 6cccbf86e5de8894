// internal/metrics/pipeline.go
package metrics

// Stage names shared with the agent runtime's internal phases. The set is
// fixed by convention; PipelineTimer accepts unknown names but only these
// are surfaced in the report.
const (
	StageComposeState      = "compose-state"
	StageProviderExecution = "provider-execution"
	StageShouldRespond     = "should-respond"
	StageModelCall         = "model-call"
	StageActionDispatch    = "action-dispatch"
	StageEvaluator         = "evaluator"
	StageMemoryCreate      = "memory-create"
	StageMemoryGet         = "memory-get"
)

// PipelineBreakdown maps each known pipeline stage to its average duration
// in milliseconds. Stages that were never recorded report zero.
type PipelineBreakdown struct {
	ComposeStateAvgMs      float64 `json:"composeStateAvgMs"`
	ProviderExecutionAvgMs float64 `json:"providerExecutionAvgMs"`
	ShouldRespondAvgMs     float64 `json:"shouldRespondAvgMs"`
	ModelCallAvgMs         float64 `json:"modelCallAvgMs"`
	ActionDispatchAvgMs    float64 `json:"actionDispatchAvgMs"`
	EvaluatorAvgMs         float64 `json:"evaluatorAvgMs"`
	MemoryCreateAvgMs      float64 `json:"memoryCreateAvgMs"`
	MemoryGetAvgMs         float64 `json:"memoryGetAvgMs"`
}

// PipelineTimer accumulates per-stage duration samples. Unknown stage names
// are accepted and kept in their own bucket so future stages do not get
// silently dropped, but they do not appear in the breakdown.
type PipelineTimer struct {
	buckets map[string][]float64
}

// NewPipelineTimer returns an empty accumulator.
func NewPipelineTimer() *PipelineTimer {
	return &PipelineTimer{buckets: make(map[string][]float64)}
}

// Record appends a duration sample to the named stage's bucket.
func (p *PipelineTimer) Record(stage string, durationMs float64) {
	p.buckets[stage] = append(p.buckets[stage], durationMs)
}

// Breakdown reduces every known stage bucket to its arithmetic mean.
func (p *PipelineTimer) Breakdown() PipelineBreakdown {
	return PipelineBreakdown{
		ComposeStateAvgMs:      p.average(StageComposeState),
		ProviderExecutionAvgMs: p.average(StageProviderExecution),
		ShouldRespondAvgMs:     p.average(StageShouldRespond),
		ModelCallAvgMs:         p.average(StageModelCall),
		ActionDispatchAvgMs:    p.average(StageActionDispatch),
		EvaluatorAvgMs:         p.average(StageEvaluator),
		MemoryCreateAvgMs:      p.average(StageMemoryCreate),
		MemoryGetAvgMs:         p.average(StageMemoryGet),
	}
}

func (p *PipelineTimer) average(stage string) float64 {
	samples := p.buckets[stage]
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}
