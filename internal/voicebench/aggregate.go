// internal/voicebench/aggregate.go

package voicebench

import (
	"github.com/mwiater/voxbench/internal/appconfig"
	"github.com/mwiater/voxbench/internal/metrics"
)

// summarize reduces iteration results into one ModeSummary per configured
// mode. Every configured mode gets an entry; a mode with no results reduces
// to an all-zero summary.
func summarize(results []IterationResult, modes []appconfig.Mode) map[string]ModeSummary {
	summary := make(map[string]ModeSummary, len(modes))
	for _, mode := range modes {
		var runs []IterationResult
		for _, result := range results {
			if result.Mode == mode.ID {
				runs = append(runs, result)
			}
		}
		summary[mode.ID] = summarizeMode(runs)
	}
	return summary
}

func summarizeMode(runs []IterationResult) ModeSummary {
	transcription := collect(runs, func(r IterationResult) float64 { return r.TranscriptionMs })
	ttft := collect(runs, func(r IterationResult) float64 { return r.ResponseTtftMs })
	responseTotal := collect(runs, func(r IterationResult) float64 { return r.ResponseTotalMs })
	responseStart := collect(runs, func(r IterationResult) float64 { return r.SpeechToResponseStartMs })
	voiceUncached := collect(runs, func(r IterationResult) float64 { return r.SpeechToVoiceStartUncachedMs })
	voiceCached := collect(runs, func(r IterationResult) float64 { return r.SpeechToVoiceStartCachedMs })
	voiceGen := collect(runs, func(r IterationResult) float64 { return r.VoiceGenerationMs })
	endToEnd := collect(runs, func(r IterationResult) float64 { return r.EndToEndMs })
	firstTokenUncached := collect(runs, func(r IterationResult) float64 { return r.VoiceFirstTokenUncachedMs })
	firstTokenCached := collect(runs, func(r IterationResult) float64 { return r.VoiceFirstTokenCachedMs })
	cachedPipeline := collect(runs, func(r IterationResult) float64 { return r.TtsCachedPipelineMs })

	hitRate := 0.0
	cacheHits := 0
	normalizedMatches := 0
	normalizedChecked := 0
	for _, run := range runs {
		if run.TtsFirstSentenceCacheHit {
			cacheHits++
		}
		if run.TranscriptionNormalizedMatch != nil {
			normalizedChecked++
			if *run.TranscriptionNormalizedMatch {
				normalizedMatches++
			}
		}
	}
	if len(runs) > 0 {
		hitRate = float64(cacheHits) / float64(len(runs))
	}
	accuracy := 0.0
	if normalizedChecked > 0 {
		accuracy = float64(normalizedMatches) / float64(normalizedChecked)
	}

	return ModeSummary{
		Runs: len(runs),

		AvgTranscriptionMs:              roundMs(mean(transcription)),
		AvgResponseTtftMs:               roundMs(mean(ttft)),
		AvgResponseTotalMs:              roundMs(mean(responseTotal)),
		AvgSpeechToResponseStartMs:      roundMs(mean(responseStart)),
		AvgSpeechToVoiceStartUncachedMs: roundMs(mean(voiceUncached)),
		AvgSpeechToVoiceStartCachedMs:   roundMs(mean(voiceCached)),
		AvgVoiceGenerationMs:            roundMs(mean(voiceGen)),
		AvgEndToEndMs:                   roundMs(mean(endToEnd)),
		AvgVoiceFirstTokenUncachedMs:    roundMs(mean(firstTokenUncached)),
		AvgVoiceFirstTokenCachedMs:      roundMs(mean(firstTokenCached)),
		AvgTtsCachedPipelineMs:          roundMs(mean(cachedPipeline)),

		P95TranscriptionMs:              roundMs(metrics.PercentileNearestRank(transcription, 95)),
		P99TranscriptionMs:              roundMs(metrics.PercentileNearestRank(transcription, 99)),
		P95ResponseTtftMs:               roundMs(metrics.PercentileNearestRank(ttft, 95)),
		P99ResponseTtftMs:               roundMs(metrics.PercentileNearestRank(ttft, 99)),
		P95ResponseTotalMs:              roundMs(metrics.PercentileNearestRank(responseTotal, 95)),
		P99ResponseTotalMs:              roundMs(metrics.PercentileNearestRank(responseTotal, 99)),
		P95SpeechToResponseStartMs:      roundMs(metrics.PercentileNearestRank(responseStart, 95)),
		P99SpeechToResponseStartMs:      roundMs(metrics.PercentileNearestRank(responseStart, 99)),
		P95SpeechToVoiceStartUncachedMs: roundMs(metrics.PercentileNearestRank(voiceUncached, 95)),
		P99SpeechToVoiceStartUncachedMs: roundMs(metrics.PercentileNearestRank(voiceUncached, 99)),
		P95SpeechToVoiceStartCachedMs:   roundMs(metrics.PercentileNearestRank(voiceCached, 95)),
		P99SpeechToVoiceStartCachedMs:   roundMs(metrics.PercentileNearestRank(voiceCached, 99)),
		P95VoiceGenerationMs:            roundMs(metrics.PercentileNearestRank(voiceGen, 95)),
		P99VoiceGenerationMs:            roundMs(metrics.PercentileNearestRank(voiceGen, 99)),
		P95VoiceFirstTokenUncachedMs:    roundMs(metrics.PercentileNearestRank(firstTokenUncached, 95)),
		P99VoiceFirstTokenUncachedMs:    roundMs(metrics.PercentileNearestRank(firstTokenUncached, 99)),
		P95VoiceFirstTokenCachedMs:      roundMs(metrics.PercentileNearestRank(firstTokenCached, 95)),
		P99VoiceFirstTokenCachedMs:      roundMs(metrics.PercentileNearestRank(firstTokenCached, 99)),
		P95TtsCachedPipelineMs:          roundMs(metrics.PercentileNearestRank(cachedPipeline, 95)),
		P99TtsCachedPipelineMs:          roundMs(metrics.PercentileNearestRank(cachedPipeline, 99)),
		P95EndToEndMs:                   roundMs(metrics.PercentileNearestRank(endToEnd, 95)),
		P99EndToEndMs:                   roundMs(metrics.PercentileNearestRank(endToEnd, 99)),

		FirstSentenceCacheHitRate:       hitRate,
		TranscriptionNormalizedAccuracy: accuracy,
	}
}

func collect(runs []IterationResult, field func(IterationResult) float64) []float64 {
	values := make([]float64, 0, len(runs))
	for _, run := range runs {
		values = append(values, field(run))
	}
	return values
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
