// Package classifier inspects a single log record's text and classifies it
// as a suite lifecycle marker, an individual expect result, or plain output.
// Classification is line-local and stateless: a marker phrase whose trailing
// text does not fit the expected shape falls back to Plain.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/testinfra/log-acceptor/registry"
	"github.com/testinfra/log-acceptor/types"
)

// Kind is the closed set of classification variants.
type Kind int

const (
	KindPlain Kind = iota
	KindSuiteStart
	KindSuiteEnd
	KindExpectResult
)

func (k Kind) String() string {
	switch k {
	case KindSuiteStart:
		return "SuiteStart"
	case KindSuiteEnd:
		return "SuiteEnd"
	case KindExpectResult:
		return "ExpectResult"
	default:
		return "Plain"
	}
}

// Classification is the tagged result of classifying one record.
// Only the fields relevant to Kind are populated.
type Classification struct {
	Kind      Kind
	SuiteName string

	// SuiteEnd only
	ResultText string // full trailing text, e.g. "Passed (3/3)!"
	Passed     int
	Total      int

	// ExpectResult only
	TestName   string
	TestStatus types.TestStatus
}

// Classifier matches marker phrases against normalized record text.
type Classifier struct {
	markers  registry.MarkerConfig
	startRe  *regexp.Regexp
	endRe    *regexp.Regexp
	expectRe *regexp.Regexp
}

// consoleStyleRe matches the CSS style arguments browsers interleave into
// console output alongside %c directives.
var consoleStyleRe = regexp.MustCompile(`color:\s.*\s\s`)

// New builds a classifier for the given marker phrases.
func New(markers registry.MarkerConfig) *Classifier {
	return &Classifier{
		markers:  markers,
		startRe:  regexp.MustCompile(regexp.QuoteMeta(markers.SuiteStart) + `\s*(.*?)\s*$`),
		endRe:    regexp.MustCompile(regexp.QuoteMeta(markers.SuiteEnd) + `\s*(.*?)\s*((\w+)\s*\((\d+)/(\d+)\)!?)\s*$`),
		expectRe: regexp.MustCompile(regexp.QuoteMeta(markers.ExpectResult) + `\s*(.*?)\s*(Passed|Failed|Error)\s*$`),
	}
}

// Classify classifies one record by its text. Marker phrases are tried in
// priority order: suite start, suite end, expect result.
func (c *Classifier) Classify(record types.LogRecord) Classification {
	text := Normalize(record.Text)

	if strings.Contains(text, c.markers.SuiteStart) {
		if m := c.startRe.FindStringSubmatch(text); m != nil && m[1] != "" {
			return Classification{Kind: KindSuiteStart, SuiteName: m[1]}
		}
		return Classification{Kind: KindPlain}
	}

	if strings.Contains(text, c.markers.SuiteEnd) {
		m := c.endRe.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			return Classification{Kind: KindPlain}
		}
		passed, err := strconv.Atoi(m[4])
		if err != nil {
			return Classification{Kind: KindPlain}
		}
		total, err := strconv.Atoi(m[5])
		if err != nil {
			return Classification{Kind: KindPlain}
		}
		return Classification{
			Kind:       KindSuiteEnd,
			SuiteName:  m[1],
			ResultText: m[2],
			Passed:     passed,
			Total:      total,
		}
	}

	if strings.Contains(text, c.markers.ExpectResult) {
		m := c.expectRe.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			return Classification{Kind: KindPlain}
		}
		status := types.TestStatusPass
		// "Error" counts as a failure for verdict purposes
		if m[2] == "Failed" || m[2] == "Error" {
			status = types.TestStatusFail
		}
		return Classification{Kind: KindExpectResult, TestName: m[1], TestStatus: status}
	}

	return Classification{Kind: KindPlain}
}

// IsFailureText reports whether a suite end marker's trailing text contains
// a failure indicator word.
func (c *Classifier) IsFailureText(resultText string) bool {
	for _, word := range c.markers.FailureWords {
		if strings.Contains(resultText, word) {
			return true
		}
	}
	return false
}

// Normalize strips the console formatting noise browsers embed in log text:
// ANSI escape sequences, %c style directives and their CSS arguments.
func Normalize(text string) string {
	text = stripansi.Strip(text)
	text = strings.ReplaceAll(text, "%c", "")
	text = consoleStyleRe.ReplaceAllString(text, "")
	return text
}

// String implements fmt.Stringer for diagnostics.
func (cl Classification) String() string {
	switch cl.Kind {
	case KindSuiteStart:
		return fmt.Sprintf("SuiteStart(%s)", cl.SuiteName)
	case KindSuiteEnd:
		return fmt.Sprintf("SuiteEnd(%s, %s)", cl.SuiteName, cl.ResultText)
	case KindExpectResult:
		return fmt.Sprintf("ExpectResult(%s, %s)", cl.TestName, cl.TestStatus)
	default:
		return "Plain"
	}
}
