package types

import "sort"

// SuiteStatus represents the lifecycle state of a test suite
type SuiteStatus string

const (
	SuiteStatusRunning    SuiteStatus = "Running"
	SuiteStatusPassed     SuiteStatus = "Passed"
	SuiteStatusFailed     SuiteStatus = "Failed"
	SuiteStatusIncomplete SuiteStatus = "Incomplete"
)

// TestStatus represents the reported outcome of a single expect check
type TestStatus string

const (
	TestStatusPass TestStatus = "Passed"
	TestStatusFail TestStatus = "Failed"
)

// LogRecord is a single console message captured from the browser harness.
// Kind is the console channel as reported by the source (log/warning/error)
// and is preserved verbatim; Text is the only field the classifier inspects.
type LogRecord struct {
	Kind     string `json:"type"`
	Text     string `json:"text"`
	Location string `json:"location,omitempty"`
}

// SuiteOutcome accumulates the state and final verdict of one test suite.
// It is created when a start marker is observed and finalized exactly once:
// by a matching end marker, by an overlapping start, or at end of input.
type SuiteOutcome struct {
	Name            string
	Status          SuiteStatus
	ResultSummary   string
	Passed          int
	Total           int
	IndividualTests map[string]TestStatus
	Logs            []LogRecord
}

// NewSuiteOutcome creates a suite in the Running state.
func NewSuiteOutcome(name string) *SuiteOutcome {
	return &SuiteOutcome{
		Name:            name,
		Status:          SuiteStatusRunning,
		IndividualTests: make(map[string]TestStatus),
	}
}

// RecordTest stores an expect result. Last write wins on duplicate names.
func (s *SuiteOutcome) RecordTest(name string, status TestStatus) {
	s.IndividualTests[name] = status
}

// AppendLog appends a record to the suite's log buffer, preserving input order.
func (s *SuiteOutcome) AppendLog(r LogRecord) {
	s.Logs = append(s.Logs, r)
}

// HasFailedTest reports whether any recorded expect result failed.
func (s *SuiteOutcome) HasFailedTest() bool {
	for _, status := range s.IndividualTests {
		if status == TestStatusFail {
			return true
		}
	}
	return false
}

// FailedTests returns the names of failed expect results, sorted by name.
func (s *SuiteOutcome) FailedTests() []string {
	var failed []string
	for name, status := range s.IndividualTests {
		if status == TestStatusFail {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// SortedTestNames returns the expect result names sorted for deterministic output.
func (s *SuiteOutcome) SortedTestNames() []string {
	names := make([]string, 0, len(s.IndividualTests))
	for name := range s.IndividualTests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
