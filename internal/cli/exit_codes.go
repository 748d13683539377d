package cli

import "fmt"

// Exit codes for the lucimaudit CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates the audit ran and the artifact is compliant
	ExitSuccess = 0

	// ExitNonCompliant indicates the audit ran and found error-severity violations
	ExitNonCompliant = 1

	// ExitInvalidArguments indicates invalid command arguments or unreadable input
	ExitInvalidArguments = 3
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := err.(*exitError); ok {
		return e.code
	}
	return ExitNonCompliant
}
