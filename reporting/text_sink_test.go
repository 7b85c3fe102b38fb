package reporting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testinfra/log-acceptor/types"
)

func TestTextSummarySink(t *testing.T) {
	baseDir := t.TempDir()

	passed := types.NewSuiteOutcome("Physics")
	passed.Status = types.SuiteStatusPassed
	passed.ResultSummary = "Passed (2/2)"

	failed := types.NewSuiteOutcome("Chemistry")
	failed.Status = types.SuiteStatusFailed
	failed.RecordTest("titration", types.TestStatusFail)
	failed.AppendLog(types.LogRecord{Kind: "error", Text: "beaker broke"})

	sink := NewTextSummarySink(baseDir)
	require.NoError(t, sink.Consume(passed))
	require.NoError(t, sink.Consume(failed))
	require.NoError(t, sink.Complete("run-42"))

	data, err := os.ReadFile(filepath.Join(baseDir, "testrun-run-42", "summary.log"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Physics: Passed (Passed (2/2))")
	assert.Contains(t, content, "Chemistry: Failed")
	assert.Contains(t, content, "=== Chemistry ===")
	assert.Contains(t, content, "beaker broke")
	assert.NotContains(t, content, "=== Physics ===", "passing suites get no detail block")
}

func TestTextSummarySink_EmptyRun(t *testing.T) {
	baseDir := t.TempDir()

	sink := NewTextSummarySink(baseDir)
	require.NoError(t, sink.Complete("run-0"))

	_, err := os.Stat(filepath.Join(baseDir, "testrun-run-0", "summary.log"))
	assert.NoError(t, err, "an empty run still produces a summary file")
}
