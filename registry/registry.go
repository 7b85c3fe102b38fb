// Package registry manages the marker configuration: the fixed phrases the
// classifier looks for inside console text, and the words that mark a suite
// end line as a failure. Defaults match the browser harness output; a yaml
// file can override them for harnesses with different wording.
package registry

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/yaml.v3"
)

// MarkerConfig holds the lifecycle marker phrases recognized in log text.
type MarkerConfig struct {
	SuiteStart   string   `yaml:"suite_start"`
	SuiteEnd     string   `yaml:"suite_end"`
	ExpectResult string   `yaml:"expect_result"`
	FailureWords []string `yaml:"failure_words"`
}

// Default returns the marker phrases emitted by the browser test harness.
func Default() MarkerConfig {
	return MarkerConfig{
		SuiteStart:   "Starting test suite:",
		SuiteEnd:     "Finished test suite:",
		ExpectResult: "Expect Test:",
		FailureWords: []string{"Failed", "Error"},
	}
}

// Load reads a marker config from a yaml file, filling unset fields from
// the defaults. An empty path returns the defaults unchanged.
func Load(path string, logger log.Logger) (MarkerConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read marker config %s: %w", path, err)
	}

	var overrides MarkerConfig
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return cfg, fmt.Errorf("failed to parse marker config %s: %w", path, err)
	}

	if overrides.SuiteStart != "" {
		cfg.SuiteStart = overrides.SuiteStart
	}
	if overrides.SuiteEnd != "" {
		cfg.SuiteEnd = overrides.SuiteEnd
	}
	if overrides.ExpectResult != "" {
		cfg.ExpectResult = overrides.ExpectResult
	}
	if len(overrides.FailureWords) > 0 {
		cfg.FailureWords = overrides.FailureWords
	}

	logger.Debug("Loaded marker config", "path", path,
		"suiteStart", cfg.SuiteStart, "suiteEnd", cfg.SuiteEnd, "expectResult", cfg.ExpectResult)
	return cfg, nil
}
