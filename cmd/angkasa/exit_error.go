package main

import "fmt"

// exitError carries a specific process exit code up through the command
// tree. silent suppresses the final error report, for commands that already
// printed their own diagnostics.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.err != nil:
		return e.err.Error()
	default:
		return fmt.Sprintf("exit status %d", e.code)
	}
}

func (e *exitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}
