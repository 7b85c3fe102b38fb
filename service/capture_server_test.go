package service

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureServer_HandleLog(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "post_data.log")
	srv := NewCaptureServer(logFile)

	body := `{
		"type": "log",
		"text": "Starting test suite: Physics"
	}`
	req := httptest.NewRequest(http.MethodPost, "/log", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.HandleLog(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data logged successfully.")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	content := string(data)

	// Multi-line payloads are collapsed to a single capture line
	require.True(t, strings.HasSuffix(content, "\n"))
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Starting test suite: Physics")
}

func TestCaptureServer_AppendsRecords(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "post_data.log")
	srv := NewCaptureServer(logFile)

	for _, text := range []string{"one", "two", "three"} {
		req := httptest.NewRequest(http.MethodPost, "/log", strings.NewReader(`{"text":"`+text+`"}`))
		rec := httptest.NewRecorder()
		srv.HandleLog(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 3)
}

func TestCaptureServer_RejectsInvalidJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "post_data.log")
	srv := NewCaptureServer(logFile)

	req := httptest.NewRequest(http.MethodPost, "/log", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.HandleLog(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoFileExists(t, logFile, "rejected records must not touch the capture file")
}

func TestCaptureServer_RejectsNonPost(t *testing.T) {
	srv := NewCaptureServer(filepath.Join(t.TempDir(), "post_data.log"))

	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	rec := httptest.NewRecorder()
	srv.HandleLog(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
