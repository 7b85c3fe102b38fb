package reporting

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testinfra/log-acceptor/types"
)

// GitHubOutputSink writes run results to a GitHub Actions style output
// file: one name=value pair per line, values escaped for the line-oriented
// format. Writes are best effort; a missing or unwritable destination is a
// diagnostic, never a run failure.
type GitHubOutputSink struct {
	path     string
	logger   log.Logger
	outcomes []*types.SuiteOutcome
}

// NewGitHubOutputSink creates a sink targeting path. An empty path (no
// GITHUB_OUTPUT in the environment) disables the sink.
func NewGitHubOutputSink(path string, logger log.Logger) *GitHubOutputSink {
	return &GitHubOutputSink{
		path:   path,
		logger: logger,
	}
}

// Consume collects a suite outcome for the final write.
func (s *GitHubOutputSink) Consume(outcome *types.SuiteOutcome) error {
	s.outcomes = append(s.outcomes, outcome)
	return nil
}

// Complete writes the summary output plus one detail output per
// non-passing suite, keyed by the sanitized suite name.
func (s *GitHubOutputSink) Complete(runID string) error {
	if s.path == "" {
		s.logger.Debug("No output file configured, skipping CI output")
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file %s: %w", s.path, err)
	}
	defer f.Close()

	if err := writeOutput(f, "summary", OverallSummary(s.outcomes)); err != nil {
		return err
	}
	for _, outcome := range s.outcomes {
		if outcome.Status == types.SuiteStatusPassed {
			continue
		}
		if err := writeOutput(f, SanitizeKey(outcome.Name), DetailBlock(outcome)); err != nil {
			return err
		}
	}

	s.logger.Debug("Wrote CI outputs", "path", s.path, "run_id", runID, "suites", len(s.outcomes))
	return nil
}

func writeOutput(f *os.File, name, value string) error {
	if _, err := fmt.Fprintf(f, "%s=%s\n", name, escapeOutputValue(value)); err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

// escapeOutputValue escapes a value for the line-oriented output format.
// Percent must go first so the escapes themselves survive.
func escapeOutputValue(value string) string {
	value = strings.ReplaceAll(value, "%", "%25")
	value = strings.ReplaceAll(value, "\r", "%0D")
	value = strings.ReplaceAll(value, "\n", "%0A")
	return value
}
