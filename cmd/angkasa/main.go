package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/angkasa-id/angkasa/internal/logging"
)

func main() {
	if code := runMain(Execute, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// runMain maps the command result onto a process exit code. Split out of
// main so tests can drive it without exiting the process.
func runMain(execute func() error, stderr io.Writer) int {
	err := execute()
	if err == nil {
		return 0
	}
	return exitCodeForError(err, stderr)
}

func exitCodeForError(err error, stderr io.Writer) int {
	var ee *exitError
	switch {
	case errors.As(err, &ee):
		if !ee.silent {
			cause := err
			if ee.err != nil {
				cause = ee.err
			}
			emitCommandError(cause, "command failed", ee.code, stderr)
		}
		return ee.code
	case errors.Is(err, context.Canceled):
		emitCommandError(err, "command canceled", 130, stderr)
		return 130
	default:
		emitCommandError(err, "command failed", 1, stderr)
		return 1
	}
}

// emitCommandError reports a fatal command error on stderr. Commands that
// run under the structured logger emit a log record; one-shot operational
// commands keep plain line output.
func emitCommandError(err error, message string, exitCode int, stderr io.Writer) {
	cmdCtx := currentCommandExecutionContext()
	if !cmdCtx.UsesStructuredLog {
		if exitCode == 130 {
			fmt.Fprintln(stderr, "canceled")
		} else {
			fmt.Fprintln(stderr, err)
		}
		return
	}

	cfg, cfgErr := logging.LoadConfigFromEnv()
	if cfgErr != nil {
		cfg = logging.DefaultConfig()
	}
	logging.NewLogger(cfg, stderr, cmdCtx.CommandPath).Error(message,
		"exit_code", exitCode, "error", err)
}
