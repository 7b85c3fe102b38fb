// Package logging writes per-suite log files so a failing CI run can be
// debugged from artifacts without re-running the browser harness.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/testinfra/log-acceptor/reporting"
	"github.com/testinfra/log-acceptor/types"
)

const (
	// FailedDirectoryName holds copies of the logs for non-passing suites.
	FailedDirectoryName = "failed"
)

// FileLogger writes one log file per suite under
// <baseDir>/testrun-<runID>/, mirroring non-passing suites into a failed/
// subdirectory. It implements reporting.Sink.
type FileLogger struct {
	baseDir  string
	runID    string
	mu       sync.Mutex
	outcomes []*types.SuiteOutcome
}

var _ reporting.Sink = (*FileLogger)(nil)

// NewFileLogger creates a file logger rooted at baseDir for the given run.
func NewFileLogger(baseDir, runID string) *FileLogger {
	return &FileLogger{
		baseDir: baseDir,
		runID:   runID,
	}
}

// RunDir returns the directory all files for this run are written into.
func (l *FileLogger) RunDir() string {
	return filepath.Join(l.baseDir, reporting.RunDirectoryPrefix+l.runID)
}

// Consume collects a suite outcome for writing.
func (l *FileLogger) Consume(outcome *types.SuiteOutcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, outcome)
	return nil
}

// Complete writes the collected suite logs to disk.
func (l *FileLogger) Complete(runID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	runDir := l.RunDir()
	failedDir := filepath.Join(runDir, FailedDirectoryName)
	if err := os.MkdirAll(failedDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", failedDir, err)
	}

	for _, outcome := range l.outcomes {
		content := renderSuiteLog(outcome)
		name := reporting.SanitizeKey(outcome.Name) + ".log"

		if err := os.WriteFile(filepath.Join(runDir, name), content, 0644); err != nil {
			return fmt.Errorf("failed to write suite log for %s: %w", outcome.Name, err)
		}
		if outcome.Status != types.SuiteStatusPassed {
			if err := os.WriteFile(filepath.Join(failedDir, name), content, 0644); err != nil {
				return fmt.Errorf("failed to write failed-suite log for %s: %w", outcome.Name, err)
			}
		}
	}
	return nil
}

// renderSuiteLog renders a suite's captured records, one line per record.
func renderSuiteLog(outcome *types.SuiteOutcome) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", reporting.SummaryLine(outcome))
	for _, record := range outcome.Logs {
		b.WriteString(reporting.RenderRecord(record))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
