package cli

import (
	"errors"
	"fmt"

	"flowp/internal/config"
)

// Exit codes of a spec run.
const (
	// ExitCodeSuccess indicates every executed test passed.
	ExitCodeSuccess = 0
	// ExitCodeFailure indicates a failed or errored test, or any other error.
	ExitCodeFailure = 1
	// ExitCodeConfiguration indicates invalid configuration; no test ran.
	ExitCodeConfiguration = 2
)

// TestsFailedError is returned by a run with failed or errored tests. The
// reporter has already described them.
type TestsFailedError struct {
	Failed  int
	Errored int
}

// Error returns a short summary of the failures.
func (e *TestsFailedError) Error() string {
	return fmt.Sprintf("%d failed, %d errored", e.Failed, e.Errored)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *TestsFailedError) Is(target error) bool {
	_, ok := target.(*TestsFailedError)
	return ok
}

// ExitCode maps the error of a run to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if config.IsConfigurationError(err) {
		return ExitCodeConfiguration
	}
	return ExitCodeFailure
}

// shouldPrint reports whether err still has to be shown to the user.
func shouldPrint(err error) bool {
	var failed *TestsFailedError
	return err != nil && !errors.As(err, &failed)
}

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}
