package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Starting test suite:", cfg.SuiteStart)
	assert.Equal(t, "Finished test suite:", cfg.SuiteEnd)
	assert.Equal(t, "Expect Test:", cfg.ExpectResult)
	assert.Equal(t, []string{"Failed", "Error"}, cfg.FailureWords)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("", log.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	content := `suite_start: "BEGIN SUITE:"
failure_words:
  - FAILED
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, log.New())
	require.NoError(t, err)

	assert.Equal(t, "BEGIN SUITE:", cfg.SuiteStart)
	assert.Equal(t, []string{"FAILED"}, cfg.FailureWords)
	// Unset fields keep their defaults
	assert.Equal(t, "Finished test suite:", cfg.SuiteEnd)
	assert.Equal(t, "Expect Test:", cfg.ExpectResult)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), log.New())
	assert.Error(t, err)
}

func TestLoad_InvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0644))

	_, err := Load(path, log.New())
	assert.Error(t, err)
}
