package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/testinfra/log-acceptor/types"
)

const (
	MetricsNamespace = "logacceptor"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	linesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "lines_total",
		Help:      "Count of log lines parsed into records",
	})

	malformedLinesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "malformed_lines_total",
		Help:      "Count of log lines dropped as unparsable",
	})

	suitesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "suites_total",
		Help:      "Count of finalized test suites",
	}, []string{
		"run_id",
		"status",
	})

	acceptanceResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "acceptance_results",
		Help:      "Result of the log acceptance run",
	}, []string{
		"run_id",
		"result",
	})

	acceptanceTestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "acceptance_test_total",
		Help:      "Total number of individual expect results",
	}, []string{
		"run_id",
	})

	acceptanceTestPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "acceptance_test_passed",
		Help:      "Number of passed expect results",
	}, []string{
		"run_id",
	})

	acceptanceTestFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "acceptance_test_failed",
		Help:      "Number of failed expect results",
	}, []string{
		"run_id",
	})

	acceptanceDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "acceptance_duration_seconds",
		Help:      "Duration of the analysis run",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordLine counts one successfully parsed log record.
func RecordLine() {
	linesTotal.Inc()
}

// RecordMalformedLine counts one dropped log line.
func RecordMalformedLine() {
	malformedLinesTotal.Inc()
}

// RecordSuite counts one finalized suite by status.
func RecordSuite(runID string, status types.SuiteStatus) {
	if Debug {
		log.Debug("metric inc",
			"m", "suites_total",
			"run_id", runID,
			"status", status)
	}
	suitesTotal.WithLabelValues(runID, string(status)).Inc()
}

func RecordAcceptance(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	acceptanceResults.WithLabelValues(runID, result).Set(1)
	acceptanceTestTotal.WithLabelValues(runID).Add(float64(total))
	acceptanceTestPassed.WithLabelValues(runID).Add(float64(passed))
	acceptanceTestFailed.WithLabelValues(runID).Add(float64(failed))
	acceptanceDuration.WithLabelValues(runID).Set(duration.Seconds())
}
