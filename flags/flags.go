package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "LOG_ACCEPTOR"

var (
	LogFile = &cli.StringFlag{
		Name:    "logfile",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGFILE"),
		Usage:   "Path to the captured console log file to analyze",
	}
	OutputFile = &cli.StringFlag{
		Name:    "output",
		Value:   "",
		EnvVars: append(opservice.PrefixEnvVar(EnvVarPrefix, "OUTPUT"), "GITHUB_OUTPUT"),
		Usage:   "Path to the CI key/value output file (defaults to $GITHUB_OUTPUT)",
	}
	MarkerConfig = &cli.StringFlag{
		Name:    "markers",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "MARKERS"),
		Usage:   "Path to an optional yaml file overriding the marker phrases (eg. 'markers.yaml')",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LOGDIR"),
		Usage:   "Directory to store per-run report artifacts",
	}
	MetricsFile = &cli.StringFlag{
		Name:    "metrics-file",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "METRICS_FILE"),
		Usage:   "Optional path for a Prometheus textfile-collector metrics dump",
	}
	CaptureAddr = &cli.StringFlag{
		Name:    "addr",
		Value:   "0.0.0.0:8080",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ADDR"),
		Usage:   "Listen address for the capture server (serve mode)",
	}
)

var requiredFlags = []cli.Flag{
	LogFile,
}

var optionalFlags = []cli.Flag{
	OutputFile,
	MarkerConfig,
	LogDir,
	MetricsFile,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
