// internal/voicebench/runner.go

package voicebench

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mwiater/voxbench/internal/agent"
	"github.com/mwiater/voxbench/internal/appconfig"
	"github.com/mwiater/voxbench/internal/dataset"
	"github.com/mwiater/voxbench/internal/metrics"
	"github.com/mwiater/voxbench/internal/textutil"
)

const (
	excerptLimit      = 280
	modelExcerptLimit = 900
	emptyCacheText    = "__empty__"
	fallbackResponse  = "Voxbench fallback response."
	voiceChannelType  = "VOICE_DM"
)

// ProgressEvent is emitted after every completed iteration so callers can
// render status lines or drive a TUI without the runner knowing about either.
type ProgressEvent struct {
	Mode      string
	SampleID  string
	Iteration int
	Completed int
	Total     int
	Result    *IterationResult
}

// ProgressFunc receives one event per finished iteration.
type ProgressFunc func(ProgressEvent)

// Runner executes every (mode, sample, iteration) combination sequentially
// and assembles the final Report. The first-sentence TTS cache lives for the
// whole run and is shared across modes and samples.
type Runner struct {
	cfg      *appconfig.Config
	runtime  agent.Runtime
	data     *dataset.Dataset
	cache    map[string][]byte
	pipeline *metrics.PipelineTimer
	memory   *metrics.MemoryMonitor
	progress ProgressFunc
}

// NewRunner wires a runner against a loaded config, a runtime connection, and
// a resolved dataset.
func NewRunner(cfg *appconfig.Config, runtime agent.Runtime, data *dataset.Dataset) *Runner {
	return &Runner{
		cfg:      cfg,
		runtime:  runtime,
		data:     data,
		cache:    make(map[string][]byte),
		pipeline: metrics.NewPipelineTimer(),
		memory:   metrics.NewMemoryMonitor(),
	}
}

// OnProgress registers a progress callback. Pass nil to disable.
func (r *Runner) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

// Run executes the full benchmark matrix. The first iteration error aborts
// the run; partial results are not reported.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runTimer := metrics.NewTimer()
	r.memory.Start()

	total := len(r.cfg.Modes) * len(r.data.Samples) * r.cfg.Iterations
	results := make([]IterationResult, 0, total)

	for _, mode := range r.cfg.Modes {
		for _, sample := range r.data.Samples {
			audio, err := sample.Audio()
			if err != nil {
				return nil, fmt.Errorf("reading sample %s: %w", sample.ID, err)
			}
			for iteration := 1; iteration <= r.cfg.Iterations; iteration++ {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("benchmark aborted: %w", err)
				}
				result, err := r.runIteration(ctx, mode, sample, iteration, audio)
				if err != nil {
					return nil, fmt.Errorf("mode %s sample %s iteration %d: %w", mode.ID, sample.ID, iteration, err)
				}
				results = append(results, *result)
				r.memory.Poll()
				if r.progress != nil {
					r.progress(ProgressEvent{
						Mode:      mode.ID,
						SampleID:  sample.ID,
						Iteration: iteration,
						Completed: len(results),
						Total:     total,
						Result:    result,
					})
				}
			}
		}
	}

	totalMs := runTimer.Stop()
	report := &Report{
		Benchmark:   r.cfg.BenchmarkName,
		Runtime:     "go",
		Profile:     r.cfg.Profile,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Iterations:  r.cfg.Iterations,
		DatasetName: r.data.Name,
		DatasetPath: r.data.Path,
		SampleCount: len(r.data.Samples),
		Modes:       r.cfg.Modes,
		Results:     results,
		Summary:     summarize(results, r.cfg.Modes),
		Resources:   r.memory.Stop(),
		Throughput:  metrics.ComputeThroughputStats(len(results), totalMs),
		Pipeline:    r.pipeline.Breakdown(),
	}
	return report, nil
}

type remainderResult struct {
	audio []byte
	err   error
}

// runIteration walks one sample through transcription, streamed response
// generation, budget enforcement, first-sentence TTS (uncached then cached
// path), concurrent remainder synthesis, and full-response TTS, then pulls
// the trajectory slice attributed to this iteration's correlation id.
func (r *Runner) runIteration(ctx context.Context, mode appconfig.Mode, sample dataset.Sample, iteration int, audio []byte) (*IterationResult, error) {
	correlationID := fmt.Sprintf("voxbench-%d-%s-%s-%d", time.Now().UnixMilli(), mode.ID, sample.ID, iteration)
	endToEndTimer := metrics.NewTimer()

	// Leg 1: transcription.
	transcriptionTimer := metrics.NewTimer()
	transcript, err := r.runtime.Transcribe(ctx, audio)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	transcriptionMs := transcriptionTimer.Stop()

	var exactMatch, normalizedMatch *bool
	if sample.ExpectedText != nil {
		exact := strings.TrimSpace(transcript) == strings.TrimSpace(*sample.ExpectedText)
		normalized := textutil.NormalizeForComparison(transcript) == textutil.NormalizeForComparison(*sample.ExpectedText)
		exactMatch = &exact
		normalizedMatch = &normalized
	}

	// Leg 2: streamed response generation. The chunk callback fires
	// synchronously from the stream decode loop, so plain locals are safe.
	prompt := transcript + "\n\n" + r.cfg.ResponsePrompt
	responseTimer := metrics.NewTimer()
	var ttftMs float64
	var sawChunk bool
	var streamedText string
	response, err := r.runtime.GenerateResponse(ctx, agent.Message{
		Text:             prompt,
		CorrelationID:    correlationID,
		BenchmarkContext: mode.BenchmarkContext,
		ChannelType:      voiceChannelType,
	}, func(chunk agent.Chunk) {
		if !sawChunk {
			ttftMs = responseTimer.ElapsedMs()
			sawChunk = true
		}
		if chunk.Text != "" {
			streamedText = chunk.Text
		}
	})
	if err != nil {
		return nil, fmt.Errorf("response generation: %w", err)
	}
	responseTotalMs := responseTimer.Stop()
	if !sawChunk {
		ttftMs = responseTotalMs
	}

	rawResponse := streamedText
	if rawResponse == "" {
		rawResponse = response.Text
	}
	if rawResponse == "" {
		rawResponse = fallbackResponse
	}
	responseText, wasCapped := textutil.EnforceResponseBudget(rawResponse, r.cfg.ResponseMaxChars)
	if responseText == "" {
		responseText = fallbackResponse
	}

	firstSentence, remainder := textutil.SplitFirstSentence(responseText)
	if firstSentence == "" {
		firstSentence = responseText
		remainder = ""
	}

	// Leg 3a: uncached first-sentence synthesis, always performed so the
	// uncached latency is measured on every iteration.
	uncachedTimer := metrics.NewTimer()
	uncachedAudio, err := r.runtime.SynthesizeSpeech(ctx, firstSentence)
	if err != nil {
		return nil, fmt.Errorf("first-sentence synthesis: %w", err)
	}
	uncachedMs := uncachedTimer.Stop()

	// Leg 3b: cached pipeline. The remainder synthesis is launched before
	// the cache lookup resolves so a hit overlaps with remainder work.
	cacheKey := r.cacheKey(firstSentence)
	cachedPipelineTimer := metrics.NewTimer()
	cachedPathTimer := metrics.NewTimer()
	_, cacheHit := r.cache[cacheKey]

	var remainderCh chan remainderResult
	var remainderTimer *metrics.Timer
	if remainder != "" {
		remainderTimer = metrics.NewTimer()
		remainderCh = make(chan remainderResult, 1)
		go func(text string) {
			out, synthErr := r.runtime.SynthesizeSpeech(ctx, text)
			remainderCh <- remainderResult{audio: out, err: synthErr}
		}(remainder)
	}

	var cachedAudio []byte
	var cachedFirstSentenceMs float64
	if cacheHit {
		cachedAudio = r.cache[cacheKey]
		cachedFirstSentenceMs = cachedPathTimer.Stop()
	} else {
		fillAudio, synthErr := r.runtime.SynthesizeSpeech(ctx, firstSentence)
		if synthErr != nil {
			if remainderCh != nil {
				<-remainderCh
			}
			return nil, fmt.Errorf("cached-pipeline synthesis: %w", synthErr)
		}
		cachedFirstSentenceMs = cachedPathTimer.Stop()
		r.cache[cacheKey] = fillAudio
		cachedAudio = fillAudio
	}

	var remainderMs float64
	var remainderBytes int
	if remainderCh != nil {
		joined := <-remainderCh
		if joined.err != nil {
			return nil, fmt.Errorf("remainder synthesis: %w", joined.err)
		}
		remainderMs = remainderTimer.Stop()
		remainderBytes = len(joined.audio)
	}
	cachedPipelineMs := cachedPipelineTimer.Stop()

	// Leg 4: full-response synthesis.
	voiceTimer := metrics.NewTimer()
	fullAudio, err := r.runtime.SynthesizeSpeech(ctx, responseText)
	if err != nil {
		return nil, fmt.Errorf("full-response synthesis: %w", err)
	}
	voiceGenerationMs := voiceTimer.Stop()
	endToEndMs := endToEndTimer.Stop()

	// Round once here so derived legs are exact sums of reported legs.
	transcriptionMs = roundMs(transcriptionMs)
	ttftMs = roundMs(ttftMs)
	responseTotalMs = roundMs(responseTotalMs)
	uncachedMs = roundMs(uncachedMs)
	cachedFirstSentenceMs = roundMs(cachedFirstSentenceMs)

	trajectory, primary := r.collectTrajectory(ctx, correlationID)
	modelInput := prompt
	modelOutputRaw := responseText
	if primary != nil {
		if primary.Prompt != "" {
			modelInput = primary.Prompt
		}
		if primary.Response != "" {
			modelOutputRaw = primary.Response
		}
	}
	inspection := textutil.InspectModelOutput(modelOutputRaw)

	result := &IterationResult{
		Mode:            mode.ID,
		SampleID:        sample.ID,
		SampleAudioPath: sample.AudioPath,
		Iteration:       iteration,
		Profile:         r.cfg.Profile,

		ExpectedTranscript:           sample.ExpectedText,
		TranscriptionExactMatch:      exactMatch,
		TranscriptionNormalizedMatch: normalizedMatch,

		TranscriptionMs:              transcriptionMs,
		ResponseTtftMs:               ttftMs,
		ResponseTotalMs:              responseTotalMs,
		SpeechToResponseStartMs:      roundMs(transcriptionMs + ttftMs),
		SpeechToVoiceStartUncachedMs: roundMs(transcriptionMs + responseTotalMs + uncachedMs),
		SpeechToVoiceStartCachedMs:   roundMs(transcriptionMs + responseTotalMs + cachedFirstSentenceMs),
		VoiceGenerationMs:            roundMs(voiceGenerationMs),
		EndToEndMs:                   roundMs(endToEndMs),
		VoiceFirstTokenUncachedMs:    uncachedMs,
		VoiceFirstTokenCachedMs:      cachedFirstSentenceMs,
		TtsFirstSentenceCacheHit:     cacheHit,
		TtsRemainderMs:               roundMs(remainderMs),
		TtsCachedPipelineMs:          roundMs(cachedPipelineMs),

		InContext: InContext{
			Transcript:       textutil.Truncate(transcript, excerptLimit),
			BenchmarkContext: textutil.Truncate(mode.BenchmarkContext, excerptLimit),
			Prompt:           textutil.Truncate(prompt, excerptLimit),
		},
		OutContext: OutContext{
			Response:                   textutil.Truncate(responseText, excerptLimit),
			StateExcerpt:               textutil.Truncate(response.StateExcerpt, excerptLimit),
			Actions:                    response.Actions,
			Providers:                  response.Providers,
			ModelInput:                 textutil.Truncate(modelInput, modelExcerptLimit),
			ModelOutputRaw:             textutil.Truncate(modelOutputRaw, modelExcerptLimit),
			ModelOutputClean:           textutil.Truncate(inspection.Cleaned, modelExcerptLimit),
			ModelOutputHasThinkingTag:  inspection.HasThinkingTag,
			ModelOutputHasXML:          inspection.HasXMLTag,
			ModelOutputThoughtTagCount: inspection.ThoughtTagCount,
			ModelOutputXMLTagCount:     inspection.XMLTagCount,
		},
		Trajectory: trajectory,

		TtsOutputBytes:                len(fullAudio),
		TtsFirstSentenceUncachedBytes: len(uncachedAudio),
		TtsFirstSentenceCachedBytes:   len(cachedAudio),
		TtsRemainderBytes:             remainderBytes,
		TtsCachedPipelineBytes:        len(cachedAudio) + remainderBytes,

		ResponseCharCount:    len([]rune(responseText)),
		ResponseWasCapped:    wasCapped,
		ResponseSegmentation: Segmentation{FirstSentence: firstSentence, Remainder: remainder},
	}
	return result, nil
}

// cacheKey derives the run-lifetime cache key for a first sentence. The key
// includes the profile and the TTS provider so distinct voices never share
// audio.
func (r *Runner) cacheKey(firstSentence string) string {
	normalized := textutil.NormalizeForCacheKey(firstSentence)
	if normalized == "" {
		normalized = emptyCacheText
	}
	return fmt.Sprintf("%s|%s|%s", r.cfg.Profile, r.ttsProvider(), normalized)
}

func (r *Runner) ttsProvider() string {
	if r.cfg.Profile == appconfig.ProfileElevenLabs {
		return "elevenLabs"
	}
	return "groq"
}

// collectTrajectory filters the runtime trajectory down to this iteration and
// feeds observed model-call latencies into the pipeline breakdown. The first
// attributed LLM call is returned so the caller can recover the real model
// input and raw output. A trajectory fetch failure degrades to an empty
// summary rather than failing the iteration.
func (r *Runner) collectTrajectory(ctx context.Context, correlationID string) (TrajectorySummary, *agent.LLMCall) {
	summary := TrajectorySummary{
		LLMCalls:         []TrajectoryCall{},
		ProviderAccesses: []agent.ProviderAccess{},
	}
	log, err := r.runtime.Trajectory(ctx)
	if err != nil || log == nil {
		return summary, nil
	}
	filtered := log.ForCorrelation(correlationID)
	for _, call := range filtered.LLMCalls {
		summary.LLMCalls = append(summary.LLMCalls, TrajectoryCall{
			Model:     call.Model,
			Purpose:   call.Purpose,
			LatencyMs: call.LatencyMs,
		})
		r.pipeline.Record(metrics.StageModelCall, float64(call.LatencyMs))
	}
	summary.ProviderAccesses = filtered.ProviderAccesses
	summary.LLMCallCount = len(summary.LLMCalls)
	summary.ProviderAccessCount = len(summary.ProviderAccesses)

	var primary *agent.LLMCall
	if len(filtered.LLMCalls) > 0 {
		primary = &filtered.LLMCalls[0]
	}
	return summary, primary
}

// roundMs keeps reported timings at microsecond precision.
func roundMs(v float64) float64 {
	return math.Round(v*1000) / 1000
}
