package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/testinfra/log-acceptor/types"
)

// RunDirectoryPrefix is the standardized prefix for per-run artifact
// directories under the log directory.
const RunDirectoryPrefix = "testrun-"

// TextSummarySink writes a plain text summary file for the run, suitable
// for archiving as a CI artifact.
type TextSummarySink struct {
	baseDir  string
	outcomes []*types.SuiteOutcome
}

// NewTextSummarySink creates a text summary sink rooted at baseDir.
func NewTextSummarySink(baseDir string) *TextSummarySink {
	return &TextSummarySink{baseDir: baseDir}
}

// Consume collects a suite outcome for the summary.
func (s *TextSummarySink) Consume(outcome *types.SuiteOutcome) error {
	s.outcomes = append(s.outcomes, outcome)
	return nil
}

// Complete writes summary.log into the run directory: the per-suite
// summary lines followed by a detail block for every non-passing suite.
func (s *TextSummarySink) Complete(runID string) error {
	outputDir := filepath.Join(s.baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	var b strings.Builder
	b.WriteString(OverallSummary(s.outcomes))
	b.WriteString("\n")

	for _, outcome := range s.outcomes {
		if outcome.Status == types.SuiteStatusPassed {
			continue
		}
		fmt.Fprintf(&b, "\n=== %s ===\n", outcome.Name)
		b.WriteString(DetailBlock(outcome))
		b.WriteString("\n")
	}

	summaryFile := filepath.Join(outputDir, "summary.log")
	if err := os.WriteFile(summaryFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}
