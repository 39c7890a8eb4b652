// Package cmd implements the typeahead CLI commands and Kong parser setup.
package cmd

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	// ExitFailure covers runtime errors and a filter with no matches.
	ExitFailure = 1
	// ExitUsage covers bad arguments and a pick without a terminal.
	ExitUsage = 2
	// ExitCancelled follows the shell convention for an interrupted run.
	ExitCancelled = 130
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil {
		return "exit"
	}
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExitCode extracts the exit code from an error.
// Returns 0 for nil, the embedded code for ExitError, ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *ExitError
	if errors.As(err, &ee) && ee != nil && ee.Code > 0 {
		return ee.Code
	}

	return ExitFailure
}

// exitPanic is used by the kong.Exit trick to intercept os.Exit calls.
type exitPanic struct{ code int }
