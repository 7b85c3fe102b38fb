package aggregator

import (
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testinfra/log-acceptor/classifier"
	"github.com/testinfra/log-acceptor/registry"
	"github.com/testinfra/log-acceptor/types"
)

func newAggregator() *Aggregator {
	return New(classifier.New(registry.Default()), log.New())
}

func record(text string) types.LogRecord {
	return types.LogRecord{Kind: "log", Text: text}
}

func TestProcess_PassingSuite(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: Physics"),
		record("Expect Test: gravity Passed"),
		record("Finished test suite: Physics Passed (1/1)!"),
	})

	require.Len(t, outcomes, 1)
	suite := outcomes[0]
	assert.Equal(t, "Physics", suite.Name)
	assert.Equal(t, types.SuiteStatusPassed, suite.Status)
	assert.Equal(t, "Passed (1/1)!", suite.ResultSummary)
	assert.Equal(t, 1, suite.Passed)
	assert.Equal(t, 1, suite.Total)
	assert.Equal(t, types.TestStatusPass, suite.IndividualTests["gravity"])
	assert.Len(t, suite.Logs, 3, "start, expect and end markers all belong to the suite's logs")
}

func TestProcess_ChildFailureDominance(t *testing.T) {
	// The end marker claims success but a check inside failed: the suite
	// must not be reported green.
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: Physics"),
		record("Expect Test: gravity Failed"),
		record("Finished test suite: Physics Passed (0/1)"),
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, types.SuiteStatusFailed, outcomes[0].Status)
}

func TestProcess_FailureWordInEndMarker(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: Physics"),
		record("Expect Test: gravity Passed"),
		record("Finished test suite: Physics Failed (1/2)"),
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, types.SuiteStatusFailed, outcomes[0].Status)
}

func TestProcess_OverlappingStart(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: A"),
		record("Starting test suite: B"),
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, "A", outcomes[0].Name)
	assert.Equal(t, types.SuiteStatusIncomplete, outcomes[0].Status)
	assert.Equal(t, "B", outcomes[1].Name)
	assert.Equal(t, types.SuiteStatusIncomplete, outcomes[1].Status,
		"unterminated trailing suite is finalized at end of input")

	// The second start marker belongs to B's logs, not A's
	require.Len(t, outcomes[0].Logs, 1)
	require.Len(t, outcomes[1].Logs, 1)
	assert.Contains(t, outcomes[1].Logs[0].Text, "B")
}

func TestProcess_UnterminatedSuite(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: Physics"),
		record("Expect Test: gravity Passed"),
		record("still running..."),
	})

	require.Len(t, outcomes, 1)
	suite := outcomes[0]
	assert.Equal(t, types.SuiteStatusIncomplete, suite.Status)
	assert.Len(t, suite.Logs, 3, "all records seen while open are retained")
}

func TestProcess_EndWithoutStart(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Finished test suite: X Passed (1/1)"),
	})

	assert.Empty(t, outcomes)
	assert.Equal(t, 1, agg.Warnings())
}

func TestProcess_MismatchedEndIsPlain(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: A"),
		record("Finished test suite: B Passed (1/1)"),
		record("Finished test suite: A Passed (1/1)"),
	})

	require.Len(t, outcomes, 1)
	suite := outcomes[0]
	assert.Equal(t, "A", suite.Name)
	assert.Equal(t, types.SuiteStatusPassed, suite.Status)
	assert.Len(t, suite.Logs, 3, "the mismatched end marker stays in A's log buffer")
}

func TestProcess_RecordsOutsideSuiteAreDiscarded(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Expect Test: orphan Passed"),
		record("some noise"),
		record("Starting test suite: Physics"),
		record("Finished test suite: Physics Passed (0/0)"),
	})

	require.Len(t, outcomes, 1)
	assert.Empty(t, outcomes[0].IndividualTests, "orphan expect results never reach a suite")
	assert.Len(t, outcomes[0].Logs, 2)
}

func TestProcess_DuplicateSuiteNameLastStartWins(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: Physics"),
		record("Expect Test: gravity Failed"),
		record("Finished test suite: Physics Failed (0/1)"),
		record("Starting test suite: Physics"),
		record("Expect Test: gravity Passed"),
		record("Finished test suite: Physics Passed (1/1)"),
	})

	require.Len(t, outcomes, 1, "duplicate start overwrites the report slot")
	suite := outcomes[0]
	assert.Equal(t, types.SuiteStatusPassed, suite.Status)
	assert.Equal(t, types.TestStatusPass, suite.IndividualTests["gravity"])
}

func TestProcess_OrderPreservation(t *testing.T) {
	agg := newAggregator()

	records := []types.LogRecord{
		record("Starting test suite: Physics"),
		record("first"),
		record("Expect Test: gravity Passed"),
		record("second"),
		record("Finished test suite: Physics Passed (1/1)"),
	}
	outcomes := agg.Process(records)

	require.Len(t, outcomes, 1)
	require.Len(t, outcomes[0].Logs, len(records))
	for i, r := range records {
		assert.Equal(t, r.Text, outcomes[0].Logs[i].Text)
	}
}

func TestProcess_MultipleSuitesFirstSeenOrder(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: Zeta"),
		record("Finished test suite: Zeta Passed (0/0)"),
		record("Starting test suite: Alpha"),
		record("Finished test suite: Alpha Passed (0/0)"),
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, "Zeta", outcomes[0].Name)
	assert.Equal(t, "Alpha", outcomes[1].Name)
}

func TestProcess_DuplicateExpectLastWriteWins(t *testing.T) {
	agg := newAggregator()

	outcomes := agg.Process([]types.LogRecord{
		record("Starting test suite: Physics"),
		record("Expect Test: gravity Passed"),
		record("Expect Test: gravity Failed"),
		record("Finished test suite: Physics Passed (1/1)"),
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, types.TestStatusFail, outcomes[0].IndividualTests["gravity"])
	assert.Equal(t, types.SuiteStatusFailed, outcomes[0].Status)
}

func TestProcess_EmptyInput(t *testing.T) {
	agg := newAggregator()
	assert.Empty(t, agg.Process(nil))
	assert.Zero(t, agg.Warnings())
}
