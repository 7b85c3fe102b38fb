package acceptor

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/testinfra/log-acceptor/reporting"
	"github.com/testinfra/log-acceptor/types"
)

// printResultsTable prints the per-suite results to the console. The
// summary lines are wrapped in workflow group markers so CI log viewers
// collapse them.
func (a *acceptor) printResultsTable(result *RunResult) {
	a.config.Log.Info("Printing results...")

	fmt.Println("::group::Test Suite Results")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Log Acceptance Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Suite", "Status", "Checks", "Passed", "Failed", "Result",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Checks", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Result", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, outcome := range result.Outcomes {
		passed, failed := countTests(outcome)
		t.AppendRow(table.Row{
			outcome.Name,
			getStatusString(outcome.Status),
			len(outcome.IndividualTests),
			passed,
			failed,
			outcome.ResultSummary,
		})

		// List the failed checks under their suite
		failedTests := outcome.FailedTests()
		for i, name := range failedTests {
			prefix := "├─"
			if i == len(failedTests)-1 {
				prefix = "└─"
			}
			t.AppendRow(table.Row{
				fmt.Sprintf("%s %s", prefix, name),
				getStatusString(types.SuiteStatusFailed),
				"1", 0, 1, "",
			})
		}
	}

	if result.Success() {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		result.Stats.Tests,
		result.Stats.TestsPassed,
		result.Stats.TestsFailed,
		fmt.Sprintf("%d/%d suites passed", result.Stats.Passed, result.Stats.Suites),
	})

	t.Render()

	if summary := reporting.OverallSummary(result.Outcomes); summary != "" {
		fmt.Println(summary)
	}
	fmt.Println("::endgroup::")
}

func countTests(outcome *types.SuiteOutcome) (passed, failed int) {
	for _, status := range outcome.IndividualTests {
		if status == types.TestStatusPass {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// getStatusString returns a marked string representing the suite status
func getStatusString(status types.SuiteStatus) string {
	switch status {
	case types.SuiteStatusPassed:
		return "✓ passed"
	case types.SuiteStatusFailed:
		return "✗ failed"
	case types.SuiteStatusRunning:
		return "… running"
	default:
		return "! incomplete"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
