// internal/agent/agent.go

// Package agent defines the capability surface the benchmark drives: a
// transcription call, a streaming text-generation call, a text-to-speech
// call, and a trajectory log query. The concrete runtime behind these calls
// (message handling, model dispatch, providers) is an external collaborator;
// only the boundary is specified here.
package agent

import "context"

// Message is one user turn handed to the runtime for response generation.
type Message struct {
	Text             string `json:"text"`
	CorrelationID    string `json:"correlationId"`
	BenchmarkContext string `json:"benchmarkContext,omitempty"`
	ChannelType      string `json:"channelType,omitempty"`
}

// Chunk is one incremental piece of a streaming response. Each chunk carries
// the latest full text, not a delta.
type Chunk struct {
	Text string `json:"text"`
}

// ChunkFunc receives streaming chunks while a response is being generated.
// It may be invoked zero or more times before GenerateResponse returns.
type ChunkFunc func(Chunk)

// Response is the final result of a generation call.
type Response struct {
	Text         string   `json:"text"`
	Actions      []string `json:"actions"`
	Providers    []string `json:"providers"`
	StateExcerpt string   `json:"stateExcerpt"`
}

// LLMCall is one model invocation recorded by the runtime's trajectory
// logger, attributed to the benchmark iteration that caused it.
type LLMCall struct {
	CorrelationID string `json:"correlationId"`
	Model         string `json:"model"`
	Purpose       string `json:"purpose"`
	LatencyMs     int64  `json:"latencyMs"`
	Prompt        string `json:"prompt"`
	Response      string `json:"response"`
}

// ProviderAccess is one context-provider read recorded by the runtime.
type ProviderAccess struct {
	CorrelationID string `json:"correlationId"`
	ProviderName  string `json:"providerName"`
	Purpose       string `json:"purpose"`
}

// TrajectoryLog is the runtime's record of model calls and provider
// accesses across all iterations so far.
type TrajectoryLog struct {
	LLMCalls         []LLMCall        `json:"llmCalls"`
	ProviderAccesses []ProviderAccess `json:"providerAccesses"`
}

// ForCorrelation returns the subset of the log attributed to one iteration.
func (t TrajectoryLog) ForCorrelation(id string) TrajectoryLog {
	filtered := TrajectoryLog{}
	for _, call := range t.LLMCalls {
		if call.CorrelationID == id {
			filtered.LLMCalls = append(filtered.LLMCalls, call)
		}
	}
	for _, access := range t.ProviderAccesses {
		if access.CorrelationID == id {
			filtered.ProviderAccesses = append(filtered.ProviderAccesses, access)
		}
	}
	return filtered
}

// Runtime is the capability surface consumed from the external agent
// runtime. Every method is terminal on failure: the benchmark performs no
// retries, and a failed call aborts the run.
type Runtime interface {
	// Transcribe converts audio bytes to text via the runtime's STT provider.
	Transcribe(ctx context.Context, audio []byte) (string, error)
	// GenerateResponse runs the message through the runtime's pipeline,
	// streaming incremental text to onChunk when the runtime supports it.
	GenerateResponse(ctx context.Context, msg Message, onChunk ChunkFunc) (*Response, error)
	// SynthesizeSpeech converts text to audio bytes via the runtime's TTS provider.
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
	// Trajectory returns the runtime's full trajectory log.
	Trajectory(ctx context.Context) (*TrajectoryLog, error)
	// Close requests a clean runtime shutdown and releases client resources.
	Close() error
}
