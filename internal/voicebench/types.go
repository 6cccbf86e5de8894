// internal/voicebench/types.go

// Package voicebench drives the speech → response → speech pipeline through
// its measured legs: transcription, streamed response generation, response
// budget enforcement, first-sentence TTS with a run-lifetime cache, and
// concurrent remainder synthesis. One IterationResult is produced per
// (mode, sample, iteration) triple and reduced per mode into a ModeSummary.
package voicebench

import (
	"github.com/mwiater/voxbench/internal/agent"
	"github.com/mwiater/voxbench/internal/appconfig"
	"github.com/mwiater/voxbench/internal/metrics"
)

// InContext captures what went into the response leg, truncated for the report.
type InContext struct {
	Transcript       string `json:"transcript"`
	BenchmarkContext string `json:"benchmarkContext"`
	Prompt           string `json:"prompt"`
}

// OutContext captures what came out of the response leg plus the raw model
// output diagnostics.
type OutContext struct {
	Response                   string   `json:"response"`
	StateExcerpt               string   `json:"stateExcerpt"`
	Actions                    []string `json:"actions"`
	Providers                  []string `json:"providers"`
	ModelInput                 string   `json:"modelInput"`
	ModelOutputRaw             string   `json:"modelOutputRaw"`
	ModelOutputClean           string   `json:"modelOutputClean"`
	ModelOutputHasThinkingTag  bool     `json:"modelOutputHasThinkingTag"`
	ModelOutputHasXML          bool     `json:"modelOutputHasXml"`
	ModelOutputThoughtTagCount int      `json:"modelOutputThoughtTagCount"`
	ModelOutputXMLTagCount     int      `json:"modelOutputXmlTagCount"`
}

// TrajectoryCall is the reported slice of one LLM call from the runtime's
// trajectory log.
type TrajectoryCall struct {
	Model     string `json:"model"`
	Purpose   string `json:"purpose"`
	LatencyMs int64  `json:"latencyMs"`
}

// TrajectorySummary counts and lists the runtime activity attributed to one
// iteration's correlation id.
type TrajectorySummary struct {
	LLMCallCount        int                    `json:"llmCallCount"`
	ProviderAccessCount int                    `json:"providerAccessCount"`
	LLMCalls            []TrajectoryCall       `json:"llmCalls"`
	ProviderAccesses    []agent.ProviderAccess `json:"providerAccesses"`
}

// Segmentation records how the budgeted response split for TTS.
type Segmentation struct {
	FirstSentence string `json:"firstSentence"`
	Remainder     string `json:"remainder"`
}

// IterationResult is the complete record of one (mode, sample, iteration)
// pass through the pipeline. It is assembled once and never mutated.
type IterationResult struct {
	Mode            string `json:"mode"`
	SampleID        string `json:"sampleId"`
	SampleAudioPath string `json:"sampleAudioPath"`
	Iteration       int    `json:"iteration"`
	Profile         string `json:"profile"`

	ExpectedTranscript           *string `json:"expectedTranscript"`
	TranscriptionExactMatch      *bool   `json:"transcriptionExactMatch"`
	TranscriptionNormalizedMatch *bool   `json:"transcriptionNormalizedMatch"`

	TranscriptionMs              float64 `json:"transcriptionMs"`
	ResponseTtftMs               float64 `json:"responseTtftMs"`
	ResponseTotalMs              float64 `json:"responseTotalMs"`
	SpeechToResponseStartMs      float64 `json:"speechToResponseStartMs"`
	SpeechToVoiceStartUncachedMs float64 `json:"speechToVoiceStartUncachedMs"`
	SpeechToVoiceStartCachedMs   float64 `json:"speechToVoiceStartCachedMs"`
	VoiceGenerationMs            float64 `json:"voiceGenerationMs"`
	EndToEndMs                   float64 `json:"endToEndMs"`
	VoiceFirstTokenUncachedMs    float64 `json:"voiceFirstTokenUncachedMs"`
	VoiceFirstTokenCachedMs      float64 `json:"voiceFirstTokenCachedMs"`
	TtsFirstSentenceCacheHit     bool    `json:"ttsFirstSentenceCacheHit"`
	TtsRemainderMs               float64 `json:"ttsRemainderMs"`
	TtsCachedPipelineMs          float64 `json:"ttsCachedPipelineMs"`

	InContext  InContext         `json:"inContext"`
	OutContext OutContext        `json:"outContext"`
	Trajectory TrajectorySummary `json:"trajectory"`

	TtsOutputBytes                int `json:"ttsOutputBytes"`
	TtsFirstSentenceUncachedBytes int `json:"ttsFirstSentenceUncachedBytes"`
	TtsFirstSentenceCachedBytes   int `json:"ttsFirstSentenceCachedBytes"`
	TtsRemainderBytes             int `json:"ttsRemainderBytes"`
	TtsCachedPipelineBytes        int `json:"ttsCachedPipelineBytes"`

	ResponseCharCount    int          `json:"responseCharCount"`
	ResponseWasCapped    bool         `json:"responseWasCapped"`
	ResponseSegmentation Segmentation `json:"responseSegmentation"`
}

// ModeSummary is the per-mode reduction of all iteration results: means and
// nearest-rank percentiles for every timing leg plus the two ratios.
type ModeSummary struct {
	Runs int `json:"runs"`

	AvgTranscriptionMs              float64 `json:"avgTranscriptionMs"`
	AvgResponseTtftMs               float64 `json:"avgResponseTtftMs"`
	AvgResponseTotalMs              float64 `json:"avgResponseTotalMs"`
	AvgSpeechToResponseStartMs      float64 `json:"avgSpeechToResponseStartMs"`
	AvgSpeechToVoiceStartUncachedMs float64 `json:"avgSpeechToVoiceStartUncachedMs"`
	AvgSpeechToVoiceStartCachedMs   float64 `json:"avgSpeechToVoiceStartCachedMs"`
	AvgVoiceGenerationMs            float64 `json:"avgVoiceGenerationMs"`
	AvgEndToEndMs                   float64 `json:"avgEndToEndMs"`
	AvgVoiceFirstTokenUncachedMs    float64 `json:"avgVoiceFirstTokenUncachedMs"`
	AvgVoiceFirstTokenCachedMs      float64 `json:"avgVoiceFirstTokenCachedMs"`
	AvgTtsCachedPipelineMs          float64 `json:"avgTtsCachedPipelineMs"`

	P95TranscriptionMs              float64 `json:"p95TranscriptionMs"`
	P99TranscriptionMs              float64 `json:"p99TranscriptionMs"`
	P95ResponseTtftMs               float64 `json:"p95ResponseTtftMs"`
	P99ResponseTtftMs               float64 `json:"p99ResponseTtftMs"`
	P95ResponseTotalMs              float64 `json:"p95ResponseTotalMs"`
	P99ResponseTotalMs              float64 `json:"p99ResponseTotalMs"`
	P95SpeechToResponseStartMs      float64 `json:"p95SpeechToResponseStartMs"`
	P99SpeechToResponseStartMs      float64 `json:"p99SpeechToResponseStartMs"`
	P95SpeechToVoiceStartUncachedMs float64 `json:"p95SpeechToVoiceStartUncachedMs"`
	P99SpeechToVoiceStartUncachedMs float64 `json:"p99SpeechToVoiceStartUncachedMs"`
	P95SpeechToVoiceStartCachedMs   float64 `json:"p95SpeechToVoiceStartCachedMs"`
	P99SpeechToVoiceStartCachedMs   float64 `json:"p99SpeechToVoiceStartCachedMs"`
	P95VoiceGenerationMs            float64 `json:"p95VoiceGenerationMs"`
	P99VoiceGenerationMs            float64 `json:"p99VoiceGenerationMs"`
	P95VoiceFirstTokenUncachedMs    float64 `json:"p95VoiceFirstTokenUncachedMs"`
	P99VoiceFirstTokenUncachedMs    float64 `json:"p99VoiceFirstTokenUncachedMs"`
	P95VoiceFirstTokenCachedMs      float64 `json:"p95VoiceFirstTokenCachedMs"`
	P99VoiceFirstTokenCachedMs      float64 `json:"p99VoiceFirstTokenCachedMs"`
	P95TtsCachedPipelineMs          float64 `json:"p95TtsCachedPipelineMs"`
	P99TtsCachedPipelineMs          float64 `json:"p99TtsCachedPipelineMs"`
	P95EndToEndMs                   float64 `json:"p95EndToEndMs"`
	P99EndToEndMs                   float64 `json:"p99EndToEndMs"`

	FirstSentenceCacheHitRate       float64 `json:"firstSentenceCacheHitRate"`
	TranscriptionNormalizedAccuracy float64 `json:"transcriptionNormalizedAccuracy"`
}

// Report is the single JSON artifact a run produces.
type Report struct {
	Benchmark   string                    `json:"benchmark"`
	Runtime     string                    `json:"runtime"`
	Profile     string                    `json:"profile"`
	Character   string                    `json:"character,omitempty"`
	Timestamp   string                    `json:"timestamp"`
	Iterations  int                       `json:"iterations"`
	DatasetName string                    `json:"datasetName"`
	DatasetPath string                    `json:"datasetPath,omitempty"`
	SampleCount int                       `json:"sampleCount"`
	Modes       []appconfig.Mode          `json:"modes"`
	Results     []IterationResult         `json:"results"`
	Summary     map[string]ModeSummary    `json:"summary"`
	Resources   metrics.ResourceStats     `json:"resources"`
	Throughput  metrics.ThroughputStats   `json:"throughput"`
	Pipeline    metrics.PipelineBreakdown `json:"pipeline"`
}
