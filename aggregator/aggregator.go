// Package aggregator folds a classified record sequence into per-suite
// outcomes. It is the only stateful stage of the pipeline: a two-state
// automaton that is either idle or accumulating exactly one open suite.
package aggregator

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/testinfra/log-acceptor/classifier"
	"github.com/testinfra/log-acceptor/types"
)

// Aggregator consumes log records and produces suite outcomes in
// first-seen order. Structural anomalies (overlapping starts, unmatched
// ends, an unterminated trailing suite) are recovered locally and
// surfaced as warnings; nothing aborts the run.
type Aggregator struct {
	classifier *classifier.Classifier
	logger     log.Logger

	open     *types.SuiteOutcome
	outcomes []*types.SuiteOutcome
	slots    map[string]int // suite name -> index in outcomes; last start wins
	warnings int
}

// New creates an aggregator using the given classifier.
func New(cls *classifier.Classifier, logger log.Logger) *Aggregator {
	return &Aggregator{
		classifier: cls,
		logger:     logger,
		slots:      make(map[string]int),
	}
}

// Process consumes the whole record sequence and returns the finalized
// outcomes. The input is a fully materialized batch; Process runs to
// completion in a single pass.
func (a *Aggregator) Process(records []types.LogRecord) []*types.SuiteOutcome {
	for _, record := range records {
		a.step(record)
	}
	a.finishStream()
	return a.outcomes
}

// Warnings returns the count of structural anomalies observed.
func (a *Aggregator) Warnings() int {
	return a.warnings
}

// step advances the automaton by one record.
func (a *Aggregator) step(record types.LogRecord) {
	cl := a.classifier.Classify(record)

	if a.open == nil {
		// Idle: only a suite start changes state. An end marker with no
		// open suite is an anomaly; everything else is discarded so no
		// orphan results leak into the report.
		switch cl.Kind {
		case classifier.KindSuiteStart:
			a.openSuite(cl.SuiteName, record)
		case classifier.KindSuiteEnd:
			a.warnings++
			a.logger.Warn("Suite end marker with no open suite, ignoring",
				"suite", cl.SuiteName)
		case classifier.KindExpectResult:
			a.logger.Debug("Discarding expect result outside any suite",
				"test", cl.TestName)
		}
		return
	}

	current := a.open
	switch cl.Kind {
	case classifier.KindSuiteStart:
		// Overlapping start: the open suite never got its end marker.
		a.warnings++
		a.logger.Warn("New suite started while another is open, marking prior incomplete",
			"open", current.Name, "new", cl.SuiteName)
		a.finalize(current, types.SuiteStatusIncomplete)
		a.openSuite(cl.SuiteName, record)

	case classifier.KindSuiteEnd:
		if cl.SuiteName != current.Name {
			// An end marker naming a different suite never closes the
			// open one by lookup; it stays in the log buffer as plain text.
			a.warnings++
			a.logger.Warn("Suite end marker does not match open suite, treating as plain output",
				"open", current.Name, "end", cl.SuiteName)
			current.AppendLog(record)
			return
		}
		current.AppendLog(record)
		current.ResultSummary = cl.ResultText
		current.Passed = cl.Passed
		current.Total = cl.Total
		a.finalize(current, a.endStatus(current, cl.ResultText))
		a.open = nil

	case classifier.KindExpectResult:
		current.RecordTest(cl.TestName, cl.TestStatus)
		current.AppendLog(record)

	default:
		current.AppendLog(record)
	}
}

// finishStream closes out an unterminated suite at end of input.
func (a *Aggregator) finishStream() {
	if a.open == nil {
		return
	}
	a.warnings++
	a.logger.Warn("Input ended while a suite was still open, marking incomplete",
		"suite", a.open.Name)
	a.finalize(a.open, types.SuiteStatusIncomplete)
	a.open = nil
}

// openSuite creates a new running suite and records it in the report slot
// for its name. A duplicate name overwrites the earlier slot: the report
// keeps first-seen order but the last start wins.
func (a *Aggregator) openSuite(name string, record types.LogRecord) {
	suite := types.NewSuiteOutcome(name)
	suite.AppendLog(record)

	if idx, seen := a.slots[name]; seen {
		a.warnings++
		a.logger.Warn("Duplicate suite start, overwriting earlier outcome", "suite", name)
		a.outcomes[idx] = suite
	} else {
		a.slots[name] = len(a.outcomes)
		a.outcomes = append(a.outcomes, suite)
	}
	a.open = suite
}

// finalize is the single code path that transitions a suite out of Running.
func (a *Aggregator) finalize(suite *types.SuiteOutcome, status types.SuiteStatus) {
	suite.Status = status
	a.logger.Debug("Finalized suite", "suite", suite.Name, "status", status,
		"tests", len(suite.IndividualTests), "logs", len(suite.Logs))
}

// endStatus computes the final status at a matched end marker. A failed
// expect result forces Failed even when the end marker text claims success,
// so a suite can never be reported green with a red check inside it.
func (a *Aggregator) endStatus(suite *types.SuiteOutcome, resultText string) types.SuiteStatus {
	if a.classifier.IsFailureText(resultText) || suite.HasFailedTest() {
		return types.SuiteStatusFailed
	}
	return types.SuiteStatusPassed
}
