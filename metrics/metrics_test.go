package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testinfra/log-acceptor/types"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name: "simple error",
			err:  errors.New("test error"),
		},
		{
			name: "error with special chars",
			err:  errors.New("test@error#123"),
		},
		{
			name: "error with multiple spaces",
			err:  errors.New("test   error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := errToLabel(tt.err)
			validLabelRegex := regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)
			if !validLabelRegex.MatchString(result) {
				t.Errorf("errToLabel() = %v, is not a valid Prometheus label", result)
			}
		})
	}
}

func TestRecordSuite(t *testing.T) {
	// Must not panic for any status
	RecordSuite("run-1", types.SuiteStatusPassed)
	RecordSuite("run-1", types.SuiteStatusFailed)
	RecordSuite("run-1", types.SuiteStatusIncomplete)
}

func TestRecordAcceptance(t *testing.T) {
	RecordAcceptance("run-1", "pass", 10, 9, 1, 3*time.Second)
}

func TestWriteTextfile(t *testing.T) {
	RecordLine()
	RecordMalformedLine()
	RecordSuite("run-textfile", types.SuiteStatusPassed)

	path := filepath.Join(t.TempDir(), "metrics", "log_acceptor.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, MetricsNamespace+"_lines_total")
	assert.Contains(t, content, MetricsNamespace+"_malformed_lines_total")
	assert.True(t, strings.Contains(content, "# TYPE"), "exposition format includes type metadata")

	// No leftover temp files
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
