// internal/cli/cli.go
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config holds the validated run configuration derived from CLI flags.
type Config struct {
	CircuitPath string
	SnapshotOut string
	LogFormat   string
	LogLevel    string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("Parsing command-line arguments.")
	flagSet := flag.NewFlagSet("circuitgrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
CircuitGrid - A circuit DAG builder and snapshot tool.

Usage:
  circuitgrid [options] [CIRCUIT_PATH]

Arguments:
  CIRCUIT_PATH
    Path to an .hcl circuit file.

Options:
`)
		flagSet.PrintDefaults()
	}

	circuitFlag := flagSet.String("circuit", "", "Path to the circuit file.")
	cFlag := flagSet.String("c", "", "Path to the circuit file (shorthand).")
	snapshotOutFlag := flagSet.String("snapshot-out", "", "Write a snapshot of each circuit to this JSON file.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Flag set parsed.")

	path := ""
	if *circuitFlag != "" {
		path = *circuitFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Circuit path determined.", "path", path)

	if path == "" {
		slog.Debug("No circuit path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("Flag validation complete.")

	config := &Config{
		CircuitPath: path,
		SnapshotOut: *snapshotOutFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	}

	slog.Debug("Run configuration assembled.", "config", config)
	return config, false, nil
}
