// Package acceptor is a browser-test log acceptance tester: it reads the
// console log capture produced by an in-browser test harness, reconstructs
// per-suite results, renders CI summaries and decides the process outcome.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/testinfra/log-acceptor/aggregator"
	"github.com/testinfra/log-acceptor/classifier"
	"github.com/testinfra/log-acceptor/exitcodes"
	"github.com/testinfra/log-acceptor/logging"
	"github.com/testinfra/log-acceptor/metrics"
	"github.com/testinfra/log-acceptor/reader"
	"github.com/testinfra/log-acceptor/registry"
	"github.com/testinfra/log-acceptor/reporting"
	"github.com/testinfra/log-acceptor/types"
)

// acceptor implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &acceptor{}

// acceptor analyzes one captured log file per run and exits.
type acceptor struct {
	ctx      context.Context
	config   *Config
	version  string
	reporter MetricsReporter
	result   *RunResult

	running atomic.Bool
	done    chan struct{}

	shutdownCallback func(error) // Callback to signal application shutdown
}

// ResultStats aggregates counts across all suites of a run.
type ResultStats struct {
	Suites     int
	Passed     int
	Failed     int
	Incomplete int

	Tests       int
	TestsPassed int
	TestsFailed int
}

// RunResult captures the complete outcome of one analysis run.
type RunResult struct {
	RunID         string
	Outcomes      []*types.SuiteOutcome
	SkippedLines  int
	Warnings      int
	SourceMissing bool
	Duration      time.Duration
	Stats         ResultStats
}

// Success reports the overall verdict: at least one suite and all Passed.
func (r *RunResult) Success() bool {
	return !r.SourceMissing && reporting.OverallSuccess(r.Outcomes)
}

// FailureReason explains a failed verdict for the exit message.
func (r *RunResult) FailureReason() string {
	if r.SourceMissing {
		return "log source not found"
	}
	if len(r.Outcomes) == 0 {
		return "no test results found"
	}
	var bad []string
	for _, outcome := range r.Outcomes {
		if outcome.Status != types.SuiteStatusPassed {
			bad = append(bad, fmt.Sprintf("%s (%s)", outcome.Name, outcome.Status))
		}
	}
	return "suites not passed: " + strings.Join(bad, ", ")
}

func (r *RunResult) String() string {
	verdict := "PASSED"
	if !r.Success() {
		verdict = "FAILED"
	}
	return fmt.Sprintf("Run %s: %s, %d suites (%d passed, %d failed, %d incomplete), %d checks",
		r.RunID, verdict, r.Stats.Suites, r.Stats.Passed, r.Stats.Failed, r.Stats.Incomplete, r.Stats.Tests)
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*acceptor, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating acceptor with config",
		"logFile", config.LogFile,
		"outputFile", config.OutputFile,
		"markerFile", config.MarkerFile,
		"logDir", config.LogDir)

	return &acceptor{
		ctx:              ctx,
		config:           config,
		version:          version,
		reporter:         NewDefaultMetricsReporter(),
		done:             make(chan struct{}),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the analysis once and decides the process outcome.
// Start implements the cliapp.Lifecycle interface.
func (a *acceptor) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			a.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	a.ctx = ctx
	a.done = make(chan struct{})
	a.running.Store(true)

	a.config.Log.Info("Starting log-acceptor", "logfile", a.config.LogFile)

	result, err := a.analyze(ctx)
	if err != nil {
		a.config.Log.Error("Runtime error analyzing logs", "error", err)
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}
	a.result = result

	a.printResultsTable(result)
	fmt.Println(result.String())

	if !result.Success() {
		a.config.Log.Warn("Run completed with failures, returning exit code 1",
			"reason", result.FailureReason())
		return NewTestFailureError(result.FailureReason())
	}

	go func() {
		a.shutdownCallback(nil)
	}()
	return nil // Success (exit code 0)
}

// analyze runs the full pipeline: read, classify+aggregate, render, sink.
func (a *acceptor) analyze(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	runID := uuid.New().String()

	tracer := otel.Tracer("log-acceptor")
	_, span := tracer.Start(ctx, "analyze", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("logfile", a.config.LogFile),
	))
	defer span.End()

	markers, err := registry.Load(a.config.MarkerFile, a.config.Log)
	if err != nil {
		return nil, NewRuntimeError(err)
	}

	result := &RunResult{RunID: runID}

	read, err := reader.ReadFile(a.config.LogFile, a.config.Log)
	if err != nil {
		if !errors.Is(err, reader.ErrSourceNotFound) {
			return nil, NewRuntimeError(err)
		}
		// A missing capture is a failed run, not a runtime error: the
		// pipeline continues with zero records and exits 1.
		a.config.Log.Error("Log source not found", "logfile", a.config.LogFile)
		result.SourceMissing = true
	}
	result.SkippedLines = read.Skipped

	agg := aggregator.New(classifier.New(markers), a.config.Log)
	result.Outcomes = agg.Process(read.Records)
	result.Warnings = agg.Warnings()
	result.Duration = time.Since(start)
	result.Stats = computeStats(result.Outcomes)

	if len(result.Outcomes) == 0 && !result.SourceMissing {
		a.config.Log.Error("No test results found in log source", "logfile", a.config.LogFile)
	}

	a.reportMetrics(result)
	a.runSinks(result)

	span.SetAttributes(
		attribute.Int("suites", result.Stats.Suites),
		attribute.Int("skipped_lines", result.SkippedLines),
		attribute.Bool("success", result.Success()),
	)

	a.config.Log.Info("Analysis completed", "run_id", runID,
		"suites", result.Stats.Suites, "passed", result.Stats.Passed,
		"failed", result.Stats.Failed, "incomplete", result.Stats.Incomplete,
		"skipped_lines", result.SkippedLines, "warnings", result.Warnings)
	return result, nil
}

// runSinks feeds the outcomes to every configured sink. Sink failures are
// diagnostics only; the verdict is derived purely from suite outcomes.
func (a *acceptor) runSinks(result *RunResult) {
	sinks := []reporting.Sink{
		reporting.NewGitHubOutputSink(a.config.OutputFile, a.config.Log),
		reporting.NewTextSummarySink(a.config.LogDir),
		logging.NewFileLogger(a.config.LogDir, result.RunID),
	}

	for _, sink := range sinks {
		for _, outcome := range result.Outcomes {
			if err := sink.Consume(outcome); err != nil {
				a.config.Log.Error("Result sink failed to consume outcome", "err", err)
				metrics.RecordErrorDetails("sink consume", err)
			}
		}
		if err := sink.Complete(result.RunID); err != nil {
			a.config.Log.Error("Result sink failed to complete", "err", err)
			metrics.RecordErrorDetails("sink complete", err)
		}
	}
}

// reportMetrics records run metrics and dumps the textfile when configured.
func (a *acceptor) reportMetrics(result *RunResult) {
	a.reporter.ReportResults(result)

	if a.config.MetricsFile != "" {
		if err := metrics.WriteTextfile(a.config.MetricsFile); err != nil {
			a.config.Log.Error("Failed to write metrics textfile", "err", err)
		}
	}
}

func computeStats(outcomes []*types.SuiteOutcome) ResultStats {
	var stats ResultStats
	stats.Suites = len(outcomes)
	for _, outcome := range outcomes {
		switch outcome.Status {
		case types.SuiteStatusPassed:
			stats.Passed++
		case types.SuiteStatusFailed:
			stats.Failed++
		default:
			stats.Incomplete++
		}
		for _, status := range outcome.IndividualTests {
			stats.Tests++
			if status == types.TestStatusPass {
				stats.TestsPassed++
			} else {
				stats.TestsFailed++
			}
		}
	}
	return stats
}

// Stop stops the log-acceptor service.
// Stop implements the cliapp.Lifecycle interface.
func (a *acceptor) Stop(ctx context.Context) error {
	a.config.Log.Info("Stopping log-acceptor")

	if !a.running.Load() {
		a.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	a.running.Store(false)
	close(a.done)

	a.config.Log.Info("log-acceptor stopped successfully")
	return nil
}

// Stopped returns true if the log-acceptor service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (a *acceptor) Stopped() bool {
	return !a.running.Load()
}
