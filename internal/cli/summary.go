// internal/cli/summary.go
package voxbench

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/voxbench/internal/voicebench"
)

var (
	summaryTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	summaryRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	summaryBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// renderSummary formats the per-mode summary as a bordered table. Modes are
// listed in configuration order.
func renderSummary(report *voicebench.Report) string {
	header := fmt.Sprintf("%-14s %5s %12s %12s %10s %14s %14s %9s",
		"mode", "runs", "avg e2e ms", "p95 e2e ms", "ttft ms", "voice cold ms", "voice warm ms", "hit rate")

	rows := []string{summaryHeaderStyle.Render(header)}
	for _, mode := range report.Modes {
		summary, ok := report.Summary[mode.ID]
		if !ok {
			continue
		}
		row := fmt.Sprintf("%-14s %5d %12.1f %12.1f %10.1f %14.1f %14.1f %8.0f%%",
			mode.ID,
			summary.Runs,
			summary.AvgEndToEndMs,
			summary.P95EndToEndMs,
			summary.AvgResponseTtftMs,
			summary.AvgSpeechToVoiceStartUncachedMs,
			summary.AvgSpeechToVoiceStartCachedMs,
			summary.FirstSentenceCacheHitRate*100)
		rows = append(rows, summaryRowStyle.Render(row))
	}

	title := summaryTitleStyle.Render(fmt.Sprintf("%s — %s profile, %d samples", report.Benchmark, report.Profile, report.SampleCount))
	table := summaryBoxStyle.Render(strings.Join(rows, "\n"))
	return title + "\n" + table
}
