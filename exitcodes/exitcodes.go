// Package exitcodes defines the standard exit codes used by log-acceptor.
package exitcodes

// Exit code constants used by log-acceptor
// These constants define the exit codes that the application uses to
// indicate various states when it exits:
//
// * Success (0): Every suite in the capture finished Passed
// * TestFailure (1): Missing/empty capture, or at least one suite not Passed
// * RuntimeErr (2): Runtime errors such as bad configuration or panics
const (
	Success     = 0 // All suites pass
	TestFailure = 1 // Suite failures or no usable results
	RuntimeErr  = 2 // Runtime errors
)
