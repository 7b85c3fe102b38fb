package acceptor

import (
	"github.com/testinfra/log-acceptor/metrics"
)

// MetricsReporter is responsible for reporting metrics from a run result.
type MetricsReporter interface {
	ReportResults(result *RunResult)
}

// DefaultMetricsReporter implements the MetricsReporter interface.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults reports the run result to metrics systems.
func (r *DefaultMetricsReporter) ReportResults(result *RunResult) {
	verdict := "pass"
	if !result.Success() {
		verdict = "fail"
	}
	for _, outcome := range result.Outcomes {
		metrics.RecordSuite(result.RunID, outcome.Status)
	}
	metrics.RecordAcceptance(
		result.RunID,
		verdict,
		result.Stats.Tests,
		result.Stats.TestsPassed,
		result.Stats.TestsFailed,
		result.Duration,
	)
}
