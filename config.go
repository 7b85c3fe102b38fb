package acceptor

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testinfra/log-acceptor/flags"
)

// Config holds the application configuration
type Config struct {
	LogFile     string // Path to the captured console log file
	OutputFile  string // Path to the CI key/value output file ("" disables CI output)
	MarkerFile  string // Optional yaml file overriding marker phrases
	LogDir      string // Directory for per-run report artifacts
	MetricsFile string // Optional Prometheus textfile dump path
	Log         log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger, logFile string) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	if logFile == "" {
		return nil, errors.New("log file is required")
	}

	absLogFile, err := filepath.Abs(logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log file '%s': %w", logFile, err)
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}

	return &Config{
		LogFile:     absLogFile,
		OutputFile:  ctx.String(flags.OutputFile.Name),
		MarkerFile:  ctx.String(flags.MarkerConfig.Name),
		LogDir:      logDir,
		MetricsFile: ctx.String(flags.MetricsFile.Name),
		Log:         log,
	}, nil
}
