package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/voxbench/internal/voicebench"
)

func TestUpdateTracksIterations(t *testing.T) {
	m := New("latency-suite", 4)

	result := &voicebench.IterationResult{EndToEndMs: 123.4, TtsFirstSentenceCacheHit: true}
	updated, _ := m.Update(IterationMsg{Mode: "baseline", SampleID: "sample-1", Iteration: 2, Completed: 2, Total: 4, Result: result})
	model := updated.(Model)

	if model.completed != 2 {
		t.Fatalf("completed = %d, want 2", model.completed)
	}
	view := model.View()
	if !strings.Contains(view, "2/4") {
		t.Fatalf("view missing progress counter: %q", view)
	}
	if !strings.Contains(view, "cache hit") {
		t.Fatalf("view missing cache state: %q", view)
	}
}

func TestDoneMsgQuitsWithError(t *testing.T) {
	m := New("latency-suite", 1)

	updated, cmd := m.Update(DoneMsg{Err: errors.New("runtime unreachable")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Fatalf("expected tea.QuitMsg, got %T", msg)
	}
	view := updated.(Model).View()
	if !strings.Contains(view, "runtime unreachable") {
		t.Fatalf("view missing error: %q", view)
	}
}

func TestDoneMsgShowsReportPath(t *testing.T) {
	m := New("latency-suite", 1)
	updated, _ := m.Update(DoneMsg{Path: "voxbenchData/reports/run.json"})
	view := updated.(Model).View()
	if !strings.Contains(view, "voxbenchData/reports/run.json") {
		t.Fatalf("view missing report path: %q", view)
	}
}
