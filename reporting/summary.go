// Package reporting renders finalized suite outcomes into CI-consumable
// artifacts: the one-line-per-suite summary, per-suite detail blocks, and
// the sinks that carry them to the outside world.
package reporting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/testinfra/log-acceptor/types"
)

// Sink consumes finalized suite outcomes one at a time and materializes an
// artifact when the run completes.
type Sink interface {
	// Consume processes a single suite outcome
	Consume(outcome *types.SuiteOutcome) error
	// Complete is called once all outcomes have been consumed
	Complete(runID string) error
}

var keySanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeKey turns a suite or test name into an output key: every
// character outside [a-zA-Z0-9_] becomes an underscore. Distinct names can
// collide after sanitization; that is an accepted limitation.
func SanitizeKey(name string) string {
	return keySanitizeRe.ReplaceAllString(name, "_")
}

// SummaryLine renders the single-line summary for one suite:
// "<name>: <status>" plus the captured result text when present.
func SummaryLine(outcome *types.SuiteOutcome) string {
	if outcome.ResultSummary == "" {
		return fmt.Sprintf("%s: %s", outcome.Name, outcome.Status)
	}
	return fmt.Sprintf("%s: %s (%s)", outcome.Name, outcome.Status, outcome.ResultSummary)
}

// OverallSummary joins the per-suite summary lines in report order.
func OverallSummary(outcomes []*types.SuiteOutcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		lines = append(lines, SummaryLine(outcome))
	}
	return strings.Join(lines, "\n")
}

// OverallSuccess reports whether the run passed: every suite Passed and at
// least one suite present. An empty report is a failure; no evidence that
// any tests ran.
func OverallSuccess(outcomes []*types.SuiteOutcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	for _, outcome := range outcomes {
		if outcome.Status != types.SuiteStatusPassed {
			return false
		}
	}
	return true
}

// RenderRecord renders one captured log record for the detail dump. An
// empty text field drops its own trailing space; the text itself is
// emitted verbatim.
func RenderRecord(record types.LogRecord) string {
	kind := strings.ToUpper(record.Kind)
	if kind == "" {
		kind = "UNKNOWN"
	}
	location := record.Location
	if location == "" {
		location = "N/A"
	}
	if record.Text == "" {
		return fmt.Sprintf("Type: %s | Location: %s | Text:", kind, location)
	}
	return fmt.Sprintf("Type: %s | Location: %s | Text: %s", kind, location, record.Text)
}

// DetailBlock renders the full detail for one suite: status, result text,
// the individual expect results sorted by name, and the ordered log dump.
func DetailBlock(outcome *types.SuiteOutcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status: %s\n", outcome.Status)
	if outcome.ResultSummary != "" {
		fmt.Fprintf(&b, "Result: %s\n", outcome.ResultSummary)
	}

	if len(outcome.IndividualTests) > 0 {
		b.WriteString("Tests:\n")
		for _, name := range outcome.SortedTestNames() {
			fmt.Fprintf(&b, "- %s: %s\n", name, outcome.IndividualTests[name])
		}
	}

	b.WriteString("Logs:\n")
	for _, record := range outcome.Logs {
		b.WriteString(RenderRecord(record))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}
