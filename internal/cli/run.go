// internal/cli/run.go
package voxbench

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/voxbench/internal/agent"
	"github.com/mwiater/voxbench/internal/appconfig"
	"github.com/mwiater/voxbench/internal/dataset"
	"github.com/mwiater/voxbench/internal/logging"
	"github.com/mwiater/voxbench/internal/tui"
	"github.com/mwiater/voxbench/internal/voicebench"
)

var (
	cacheHitLabel  = color.New(color.FgGreen).SprintFunc()
	cacheMissLabel = color.New(color.FgYellow).SprintFunc()
	successLine    = color.New(color.FgGreen).SprintFunc()
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the voice benchmark against the configured runtime",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("no configuration loaded")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		defer logging.Close()
		return runBenchmark(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runBenchmark loads the dataset and character, opens the runtime session,
// executes the full benchmark matrix, and writes the report.
func runBenchmark(ctx context.Context, cfg *appconfig.Config) error {
	data, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	character, err := appconfig.LoadCharacter(cfg.CharacterPath)
	if err != nil {
		return err
	}

	runtime := agent.NewHTTPRuntime(cfg)
	defer runtime.Close()

	var characterRaw json.RawMessage
	characterName := ""
	if character != nil {
		characterRaw = character.Raw
		characterName = character.Name
	}
	if err := runtime.StartSession(ctx, cfg.Profile, characterRaw); err != nil {
		return fmt.Errorf("start runtime session: %w", err)
	}

	runner := voicebench.NewRunner(cfg, runtime, data)
	total := len(cfg.Modes) * len(data.Samples) * cfg.Iterations
	logging.LogEvent("starting benchmark %q: %d modes x %d samples x %d iterations = %d runs",
		cfg.BenchmarkName, len(cfg.Modes), len(data.Samples), cfg.Iterations, total)

	var report *voicebench.Report
	var path string
	if cfg.TUI {
		report, path, err = runWithTUI(ctx, cfg, runner, total, characterName)
	} else {
		report, path, err = runWithLog(ctx, cfg, runner, characterName)
	}
	if err != nil {
		return err
	}

	fmt.Println(renderSummary(report))
	if cfg.Debug {
		pp.Println(report.Summary)
	}
	fmt.Println(successLine(fmt.Sprintf("report written to %s", path)))
	return nil
}

func loadDataset(cfg *appconfig.Config) (*dataset.Dataset, error) {
	if cfg.DatasetPath != "" {
		return dataset.Load(cfg.DatasetPath)
	}
	return dataset.SingleAudio(cfg.AudioPath), nil
}

// runWithLog drives the runner with per-iteration log lines.
func runWithLog(ctx context.Context, cfg *appconfig.Config, runner *voicebench.Runner, characterName string) (*voicebench.Report, string, error) {
	runner.OnProgress(func(event voicebench.ProgressEvent) {
		result := event.Result
		cache := cacheMissLabel("cache miss")
		if result.TtsFirstSentenceCacheHit {
			cache = cacheHitLabel("cache hit")
		}
		logging.LogEvent("[%s] %s iter %d (%d/%d) end-to-end %.1fms ttft %.1fms %s",
			event.Mode, event.SampleID, event.Iteration, event.Completed, event.Total,
			result.EndToEndMs, result.ResponseTtftMs, cache)
	})

	report, err := runner.Run(ctx)
	if err != nil {
		return nil, "", err
	}
	report.Character = characterName
	path, err := voicebench.WriteReport(report, cfg.ReportDir())
	if err != nil {
		return nil, "", err
	}
	return report, path, nil
}

// runWithTUI drives the runner from a goroutine while Bubble Tea owns the
// terminal, then returns the finished report for the post-run summary. When
// the program exits early (ctrl+c) the runner's context is cancelled so the
// run aborts instead of finishing the remaining matrix headless.
func runWithTUI(ctx context.Context, cfg *appconfig.Config, runner *voicebench.Runner, total int, characterName string) (*voicebench.Report, string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.New(cfg.BenchmarkName, total))
	runner.OnProgress(func(event voicebench.ProgressEvent) {
		p.Send(tui.IterationMsg(event))
	})

	type runOutcome struct {
		report *voicebench.Report
		path   string
		err    error
	}
	outcomeCh := make(chan runOutcome, 1)
	go func() {
		report, err := runner.Run(ctx)
		if err != nil {
			p.Send(tui.DoneMsg{Err: err})
			outcomeCh <- runOutcome{err: err}
			return
		}
		report.Character = characterName
		path, err := voicebench.WriteReport(report, cfg.ReportDir())
		if err != nil {
			p.Send(tui.DoneMsg{Err: err})
			outcomeCh <- runOutcome{err: err}
			return
		}
		p.Send(tui.DoneMsg{Path: path})
		outcomeCh <- runOutcome{report: report, path: path}
	}()

	_, runErr := p.Run()
	cancel()
	outcome := <-outcomeCh
	if runErr != nil {
		return nil, "", fmt.Errorf("tui: %w", runErr)
	}
	return outcome.report, outcome.path, outcome.err
}
