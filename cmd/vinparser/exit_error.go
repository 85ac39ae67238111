package main

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1 // at least one VIN was rejected
	exitUsage   = 2 // bad flags, config or input
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode maps an Execute error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitUsage
}

func usageError(err error) error {
	return &ExitError{Code: exitUsage, Err: err}
}

func invalidError(invalid, total int) error {
	return &ExitError{Code: exitInvalid, Err: fmt.Errorf("%d of %d VINs invalid", invalid, total)}
}
