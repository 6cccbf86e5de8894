// internal/tui/progress.go
// Package tui renders live benchmark progress with Bubble Tea: a spinner
// while an iteration is in flight, a completion bar, and the headline
// timings of the most recent iteration.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/voxbench/internal/util"
	"github.com/mwiater/voxbench/internal/voicebench"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	barFillStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barRestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hitStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// IterationMsg is sent into the program after each completed iteration.
type IterationMsg voicebench.ProgressEvent

// DoneMsg ends the program, carrying the report path or the run error.
type DoneMsg struct {
	Path string
	Err  error
}

// Model is the Bubble Tea model for a benchmark run.
type Model struct {
	spinner    spinner.Model
	benchmark  string
	total      int
	completed  int
	mode       string
	sampleID   string
	iteration  int
	endToEndMs float64
	cacheHit   bool
	hasResult  bool
	done       bool
	reportPath string
	err        error
	width      int
}

// New creates a progress model for a run of the given total iteration count.
func New(benchmark string, total int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		spinner:   s,
		benchmark: benchmark,
		total:     total,
		width:     80,
	}
}

// Init starts the spinner ticking.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles spinner ticks, iteration completions, and the final done
// message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case IterationMsg:
		m.completed = msg.Completed
		m.mode = msg.Mode
		m.sampleID = msg.SampleID
		m.iteration = msg.Iteration
		if msg.Result != nil {
			m.endToEndMs = msg.Result.EndToEndMs
			m.cacheHit = msg.Result.TtsFirstSentenceCacheHit
			m.hasResult = true
		}
		return m, nil
	case DoneMsg:
		m.done = true
		m.reportPath = msg.Path
		m.err = msg.Err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the title, the progress bar, and the latest iteration line.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("voxbench: %s", m.benchmark)))
	b.WriteString("\n\n")

	b.WriteString(m.renderBar())
	b.WriteString(fmt.Sprintf("  %d/%d\n", m.completed, m.total))

	if m.done {
		if m.err != nil {
			b.WriteString(errStyle.Render(util.TruncateToWidth(fmt.Sprintf("run failed: %v", m.err), m.width)))
		} else {
			b.WriteString(statStyle.Render(fmt.Sprintf("report written to %s", m.reportPath)))
		}
		b.WriteString("\n")
		return b.String()
	}

	if m.hasResult {
		cache := missStyle.Render("cache miss")
		if m.cacheHit {
			cache = hitStyle.Render("cache hit")
		}
		label := util.TruncateRunes(fmt.Sprintf("%s / %s", m.mode, m.sampleID), 40)
		b.WriteString(statStyle.Render(fmt.Sprintf("%s iter %d  end-to-end %.1fms  ", label, m.iteration, m.endToEndMs)))
		b.WriteString(cache)
		b.WriteString("\n")
	}
	b.WriteString(m.spinner.View())
	b.WriteString(" running...\n")
	return b.String()
}

// renderBar draws a fixed-width completion bar sized to the terminal.
func (m Model) renderBar() string {
	width := m.width - 12
	if width > 50 {
		width = 50
	}
	if width < 10 {
		width = 10
	}
	filled := 0
	if m.total > 0 {
		filled = width * m.completed / m.total
	}
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barRestStyle.Render(strings.Repeat("░", width-filled))
}
